package render

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/gfx"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// ExtractionMode says where the compiler gets its actors from.
type ExtractionMode int

const (
	// ExtractAlways walks the shader tree every frame.
	ExtractAlways ExtractionMode = iota
	// ExtractOnce walks it on the next compile, then switches to ExtractNever.
	ExtractOnce
	// ExtractNever uses the actors given to SetActors or CompileActors.
	ExtractNever
)

func (m ExtractionMode) String() string {
	switch m {
	case ExtractAlways:
		return "always"
	case ExtractOnce:
		return "once"
	case ExtractNever:
		return "never"
	}
	return fmt.Sprintf("ExtractionMode(%d)", int(m))
}

func ParseExtractionMode(s string) (ExtractionMode, error) {
	switch strings.ToLower(s) {
	case "", "always":
		return ExtractAlways, nil
	case "once":
		return ExtractOnce, nil
	case "never":
		return ExtractNever, nil
	}
	return ExtractAlways, fmt.Errorf("unknown extraction mode %q", s)
}

// MarkMode decides what marked buckets mean.
type MarkMode int

const (
	// SuppressMarked skips marked buckets. With no marks every bucket renders.
	SuppressMarked MarkMode = iota
	// RenderOnlyMarked skips every bucket that is not marked.
	RenderOnlyMarked
)

// Phase is the compiler's position in the frame.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActorExtraction
	PhasePerActorProcessing
	PhaseSorting
	PhaseReady
)

// Frame is what one compile needs to know about the current frame.
type Frame struct {
	Camera   *scene.Camera
	Epoch    uint64
	Now      float64
	Defaults *shader.ShaderState
}

// Compiler turns actors into sorted render lists keyed by their painter's
// RenderList value.
type Compiler struct {
	Extraction     ExtractionMode
	FrustumCulling bool
	ActorAnimation bool
	// DefaultSorter sorts buckets that have no sorter of their own.
	DefaultSorter Sorter

	actors   []*scene.Actor
	lists    RenderLists
	sorters  map[float32]Sorter
	marked   map[float32]struct{}
	markMode MarkMode
	demoted  bool
	pool     tokenPool
	phase    Phase
	stats    Stats
	logger   *zap.Logger
}

func NewCompiler() *Compiler {
	return &Compiler{
		Extraction:     ExtractAlways,
		FrustumCulling: true,
		ActorAnimation: true,
		DefaultSorter:  &StandardSorter{Mode: AlphaDepthSort},
		lists:          newRenderLists(),
		sorters:        make(map[float32]Sorter),
		marked:         make(map[float32]struct{}),
		logger:         core.Log.Named("compiler"),
	}
}

func (c *Compiler) Phase() Phase { return c.phase }

func (c *Compiler) Stats() Stats { return c.stats }

// Lists is the result of the last compile.
func (c *Compiler) Lists() *RenderLists { return &c.lists }

// SetSorter assigns s to bucket key; nil restores the default.
func (c *Compiler) SetSorter(key float32, s Sorter) {
	if s == nil {
		delete(c.sorters, key)
	} else {
		c.sorters[key] = s
	}
	if l := c.lists.Get(key); l != nil {
		l.Sorter = s
	}
}

func (c *Compiler) Sorter(key float32) Sorter {
	if s, ok := c.sorters[key]; ok {
		return s
	}
	return c.DefaultSorter
}

func (c *Compiler) Mark(key float32)   { c.marked[key] = struct{}{} }
func (c *Compiler) Unmark(key float32) { delete(c.marked, key) }
func (c *Compiler) ClearMarks()        { clear(c.marked) }

func (c *Compiler) SetMarkMode(m MarkMode) { c.markMode = m }

// ListEnabled reports whether bucket key renders under the current marks.
func (c *Compiler) ListEnabled(key float32) bool {
	_, marked := c.marked[key]
	if c.markMode == RenderOnlyMarked {
		return marked
	}
	return !marked
}

// SetActors supplies the actor list used with ExtractNever.
func (c *Compiler) SetActors(actors []*scene.Actor) {
	c.actors = append(c.actors[:0], actors...)
}

func (c *Compiler) Actors() []*scene.Actor { return c.actors }

// Invalidate makes the next compile walk the tree again when the cache came
// from ExtractOnce. An explicit ExtractNever is left alone.
func (c *Compiler) Invalidate() {
	if c.demoted && c.Extraction == ExtractNever {
		c.Extraction = ExtractOnce
	}
	c.demoted = false
}

// Extract collects the actors of root according to the extraction mode and
// returns the actor list the next compile will use.
func (c *Compiler) Extract(root *scene.ShaderNode) []*scene.Actor {
	c.phase = PhaseActorExtraction
	if c.Extraction == ExtractNever {
		return c.actors
	}
	c.demoted = false
	if root == nil {
		c.actors = c.actors[:0]
		return c.actors
	}
	c.actors = root.CollectActors(c.actors[:0])
	if c.Extraction == ExtractOnce {
		c.Extraction = ExtractNever
		c.demoted = true
	}
	c.logger.Debug("actors extracted", zap.Int("count", len(c.actors)), zap.Stringer("next", c.Extraction))
	return c.actors
}

// Compile extracts from root and compiles the result.
func (c *Compiler) Compile(root *scene.ShaderNode, f Frame) *RenderLists {
	return c.CompileActors(c.Extract(root), f)
}

// CompileActors builds the render lists for actors, in list order. The
// returned lists stay valid until the next compile.
func (c *Compiler) CompileActors(actors []*scene.Actor, f Frame) *RenderLists {
	core.Check(f.Camera != nil, "compiling without a camera")
	core.Check(f.Defaults != nil, "compiling without default state")

	c.phase = PhasePerActorProcessing
	c.lists.clearTokens()
	c.pool.reset()
	c.stats = Stats{Candidates: len(actors)}
	if f.Camera == nil || f.Defaults == nil {
		c.phase = PhaseReady
		return &c.lists
	}

	frustum := f.Camera.Frustum()
	eye := f.Camera.Eye()
	order := 0

	for _, a := range actors {
		if !a.Enabled {
			c.stats.Disabled++
			continue
		}
		p := a.Painter()
		if p == nil {
			c.stats.Disabled++
			continue
		}
		if math32.IsNaN(p.RenderList) {
			core.Check(false, "render list key is NaN", zap.String("painter", p.Name))
			c.stats.Disabled++
			continue
		}

		box := a.WorldAABB()
		if c.FrustumCulling && frustum.Cull(box) {
			c.stats.Culled++
			continue
		}

		lod := 0
		if p.LOD != nil {
			lod = p.LOD.Evaluate(a, f.Camera)
		}

		finals := p.ResolvePasses(f.Epoch, f.Defaults)
		if !p.FinalEnabled() {
			c.stats.Disabled++
			continue
		}

		if c.ActorAnimation {
			a.Update(f.Now, lod)
		} else {
			a.SetActiveLOD(lod)
		}

		list := c.lists.getOrCreate(p.RenderList, c.sorters[p.RenderList])
		if !c.ListEnabled(p.RenderList) {
			c.stats.Suppressed++
			continue
		}

		var head, prev *Token
		for pass, s := range finals {
			t := c.pool.get()
			t.Actor, t.Painter, t.Shader, t.Pass = a, p, s, pass
			if s.IsEnabled(gfx.EnableLighting) {
				t.Lights = len(s.Lights())
			}
			t.Planes = len(s.ClipPlanes())
			t.order = order
			order++
			if head == nil {
				head = t
			} else {
				prev.NextPass = t
			}
			prev = t
			c.stats.Passes++
		}

		sorter := list.Sorter
		if sorter == nil {
			sorter = c.DefaultSorter
		}
		if sorter.NeedsCameraDistance(head) && !box.IsEmpty() {
			d := box.Center().Sub(eye)
			head.CameraDistance = d.Dot(d)
		}
		list.Tokens = append(list.Tokens, head)
		c.stats.Tokens++
	}

	c.phase = PhaseSorting
	c.lists.deleteEmpty()
	for _, l := range c.lists.lists {
		l.Sort(c.DefaultSorter)
	}
	c.stats.Buckets = c.lists.Len()

	c.phase = PhaseReady
	return &c.lists
}
