package render

import (
	"fmt"
	"strings"
)

// Sorter orders the tokens of one RenderList. Less must be a strict weak
// order. NeedsCameraDistance tells the compiler whether t.CameraDistance
// has to be computed.
type Sorter interface {
	Less(a, b *Token) bool
	NeedsCameraDistance(t *Token) bool
}

// SortMode selects when StandardSorter sorts by depth.
type SortMode int

const (
	// AlphaDepthSort draws opaque tokens first and blended ones back to front.
	AlphaDepthSort SortMode = iota
	// AlwaysDepthSort sorts everything back to front.
	AlwaysDepthSort
	// NeverDepthSort only separates opaque from blended.
	NeverDepthSort
)

func (m SortMode) String() string {
	switch m {
	case AlphaDepthSort:
		return "alpha-depth"
	case AlwaysDepthSort:
		return "always-depth"
	case NeverDepthSort:
		return "never-depth"
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(s) {
	case "", "alpha-depth":
		return AlphaDepthSort, nil
	case "always-depth":
		return AlwaysDepthSort, nil
	case "never-depth":
		return NeverDepthSort, nil
	}
	return AlphaDepthSort, fmt.Errorf("unknown sort mode %q", s)
}

// StandardSorter is the default ordering: painter rank, actor rank, opaque
// before blended, back to front, depth writers first, then shader, painter
// and actor identity. No two distinct tokens compare equal.
type StandardSorter struct {
	Mode SortMode
}

func (s *StandardSorter) NeedsCameraDistance(t *Token) bool {
	switch s.Mode {
	case AlwaysDepthSort:
		return true
	case AlphaDepthSort:
		return t.Shader.Blended()
	}
	return false
}

func (s *StandardSorter) Less(a, b *Token) bool {
	if ar, br := a.Painter.RenderRank, b.Painter.RenderRank; ar != br {
		return ar < br
	}
	if ar, br := a.Actor.RenderRank, b.Actor.RenderRank; ar != br {
		return ar < br
	}

	ab, bb := a.Shader.Blended(), b.Shader.Blended()
	if s.Mode != AlwaysDepthSort && ab != bb {
		return !ab
	}
	depth := s.Mode == AlwaysDepthSort || (s.Mode == AlphaDepthSort && ab && bb)
	if depth && a.CameraDistance != b.CameraDistance {
		return a.CameraDistance > b.CameraDistance
	}

	if aw, bw := a.Shader.DepthWrite(), b.Shader.DepthWrite(); aw != bw {
		return aw
	}
	if a.Shader != b.Shader {
		return a.Shader.ID() < b.Shader.ID()
	}
	if a.Painter != b.Painter {
		return a.Painter.ID() < b.Painter.ID()
	}
	return a.Actor.ID() < b.Actor.ID()
}

// ShaderSorter groups tokens by resolved shader to minimize state changes.
type ShaderSorter struct{}

func (ShaderSorter) NeedsCameraDistance(*Token) bool { return false }

func (ShaderSorter) Less(a, b *Token) bool {
	if ar, br := a.Painter.RenderRank, b.Painter.RenderRank; ar != br {
		return ar < br
	}
	if ar, br := a.Actor.RenderRank, b.Actor.RenderRank; ar != br {
		return ar < br
	}
	if a.Shader != b.Shader {
		return a.Shader.ID() < b.Shader.ID()
	}
	return a.Actor.ID() < b.Actor.ID()
}

// BackToFrontSorter draws the farthest token first.
type BackToFrontSorter struct{}

func (BackToFrontSorter) NeedsCameraDistance(*Token) bool { return true }

func (BackToFrontSorter) Less(a, b *Token) bool {
	if a.CameraDistance != b.CameraDistance {
		return a.CameraDistance > b.CameraDistance
	}
	return a.Actor.ID() < b.Actor.ID()
}

// FrontToBackSorter draws the nearest token first.
type FrontToBackSorter struct{}

func (FrontToBackSorter) NeedsCameraDistance(*Token) bool { return true }

func (FrontToBackSorter) Less(a, b *Token) bool {
	if a.CameraDistance != b.CameraDistance {
		return a.CameraDistance < b.CameraDistance
	}
	return a.Actor.ID() < b.Actor.ID()
}

// RankSorter orders by painter rank then actor rank only.
type RankSorter struct{}

func (RankSorter) NeedsCameraDistance(*Token) bool { return false }

func (RankSorter) Less(a, b *Token) bool {
	if ar, br := a.Painter.RenderRank, b.Painter.RenderRank; ar != br {
		return ar < br
	}
	if ar, br := a.Actor.RenderRank, b.Actor.RenderRank; ar != br {
		return ar < br
	}
	return a.Actor.ID() < b.Actor.ID()
}

// OrderSorter keeps the order in which the compiler produced the tokens.
type OrderSorter struct{}

func (OrderSorter) NeedsCameraDistance(*Token) bool { return false }

func (OrderSorter) Less(a, b *Token) bool { return a.order < b.order }
