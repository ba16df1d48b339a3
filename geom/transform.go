package geom

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var transformIDCounter atomic.Uint32

// Transform is a node of the transform hierarchy. The world matrix is a
// cache refreshed top-down by ComputeWorldRecursive once per frame.
type Transform struct {
	id       uint32
	local    mgl32.Mat4
	world    mgl32.Mat4
	parent   *Transform
	children []*Transform
}

func NewTransform() *Transform {
	return NewTransformMatrix(mgl32.Ident4())
}

func NewTransformMatrix(local mgl32.Mat4) *Transform {
	return &Transform{
		id:    transformIDCounter.Add(1),
		local: local,
		world: local,
	}
}

// NewTransformTRS builds a transform from translation, rotation and scale.
func NewTransformTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) *Transform {
	return NewTransformMatrix(TRS(t, r, s))
}

// TRS composes translation * rotation * scale.
func TRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// ID is unique per process and stable for the transform's lifetime.
func (t *Transform) ID() uint32 { return t.id }

func (t *Transform) Local() mgl32.Mat4 { return t.local }

func (t *Transform) SetLocal(m mgl32.Mat4) { t.local = m }

// World returns the cached world matrix from the last refresh.
func (t *Transform) World() mgl32.Mat4 { return t.world }

// WorldPosition is the translation part of the world matrix.
func (t *Transform) WorldPosition() mgl32.Vec3 { return t.world.Col(3).Vec3() }

// Translation is the translation part of the local matrix.
func (t *Transform) Translation() mgl32.Vec3 { return t.local.Col(3).Vec3() }

// SetTranslation replaces the translation part of the local matrix.
func (t *Transform) SetTranslation(v mgl32.Vec3) {
	t.local.SetCol(3, v.Vec4(1))
}

// Translate moves the local matrix by v in parent space.
func (t *Transform) Translate(v mgl32.Vec3) {
	t.SetTranslation(t.Translation().Add(v))
}

func (t *Transform) Parent() *Transform { return t.parent }

func (t *Transform) Children() []*Transform { return t.children }

// Root walks up to the top of the hierarchy.
func (t *Transform) Root() *Transform {
	r := t
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// AddChild reparents child under t.
func (t *Transform) AddChild(child *Transform) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = t
	t.children = append(t.children, child)
}

func (t *Transform) RemoveChild(child *Transform) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i], t.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// ComputeWorld refreshes only this node from its parent's cached world.
func (t *Transform) ComputeWorld() {
	if t.parent != nil {
		t.world = t.parent.world.Mul4(t.local)
	} else {
		t.world = t.local
	}
}

// ComputeWorldPath refreshes the chain from the root down to t, leaving
// siblings alone.
func (t *Transform) ComputeWorldPath() {
	if t.parent != nil {
		t.parent.ComputeWorldPath()
	}
	t.ComputeWorld()
}

// ComputeWorldRecursive refreshes this node and its whole subtree.
func (t *Transform) ComputeWorldRecursive() {
	t.ComputeWorld()
	for _, c := range t.children {
		c.ComputeWorldRecursive()
	}
}
