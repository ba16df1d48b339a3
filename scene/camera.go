package scene

import (
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
)

// Viewport is the window region a camera draws into and how it is cleared.
type Viewport struct {
	X, Y          int32
	Width, Height int32
	ClearColor    core.Color
	ClearDepth    float32
	ClearFlags    gfx.ClearFlags
}

func NewViewport(x, y, width, height int32) Viewport {
	return Viewport{
		X: x, Y: y, Width: width, Height: height,
		ClearColor: core.ColorBlack,
		ClearDepth: 1,
		ClearFlags: gfx.ClearColorDepth,
	}
}

func (v Viewport) Aspect() float32 {
	if v.Height == 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// RenderTarget is the surface behind the viewport. A nil target on a
// camera means the default framebuffer.
type RenderTarget struct {
	Name          string
	Width, Height int32
}

type projectionKind int

const (
	projectionCustom projectionKind = iota
	projectionPerspective
	projectionOrtho
)

type renderFinished struct {
	rank int
	once bool
	fn   func(*Camera)
	id   int
}

// Camera holds the projection and view for one render stream. Activate
// must be called each frame before culling or drawing with it.
type Camera struct {
	Name   string
	Target *RenderTarget
	// Follow, when set, makes the view the inverse of this transform's
	// world matrix at activation.
	Follow *geom.Transform

	viewport    Viewport
	projection  mgl32.Mat4
	view        mgl32.Mat4
	inverseView mgl32.Mat4
	frustum     geom.Frustum

	kind        projectionKind
	fovY        float32 // radians
	near, far   float32
	orthoHeight float32

	callbacks []renderFinished
	nextID    int
}

func NewCamera(vp Viewport) *Camera {
	c := &Camera{
		viewport:    vp,
		view:        mgl32.Ident4(),
		inverseView: mgl32.Ident4(),
	}
	c.SetPerspective(60, 0.1, 1000)
	return c
}

func (c *Camera) Viewport() Viewport { return c.viewport }

// SetViewport also refreshes a perspective or ortho projection's aspect.
func (c *Camera) SetViewport(vp Viewport) {
	c.viewport = vp
	c.updateProjection()
}

// SetPerspective uses a vertical field of view in degrees.
func (c *Camera) SetPerspective(fovYDeg, near, far float32) {
	c.kind = projectionPerspective
	c.fovY = mgl32.DegToRad(fovYDeg)
	c.near, c.far = near, far
	c.updateProjection()
}

// SetOrtho uses a symmetric box of the given height; width follows the
// viewport aspect.
func (c *Camera) SetOrtho(height, near, far float32) {
	c.kind = projectionOrtho
	c.orthoHeight = height
	c.near, c.far = near, far
	c.updateProjection()
}

func (c *Camera) SetProjection(m mgl32.Mat4) {
	c.kind = projectionCustom
	c.projection = m
}

func (c *Camera) updateProjection() {
	aspect := c.viewport.Aspect()
	switch c.kind {
	case projectionPerspective:
		c.projection = mgl32.Perspective(c.fovY, aspect, c.near, c.far)
	case projectionOrtho:
		h := c.orthoHeight / 2
		w := h * aspect
		c.projection = mgl32.Ortho(-w, w, -h, h, c.near, c.far)
	}
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

func (c *Camera) SetView(m mgl32.Mat4) {
	c.view = m
	c.inverseView = m.Inv()
}

func (c *Camera) LookAt(eye, center, up mgl32.Vec3) {
	c.SetView(mgl32.LookAtV(eye, center, up))
}

func (c *Camera) View() mgl32.Mat4 { return c.view }

// InverseView is the camera's world matrix.
func (c *Camera) InverseView() mgl32.Mat4 { return c.inverseView }

func (c *Camera) ViewProjection() mgl32.Mat4 { return c.projection.Mul4(c.view) }

// Eye is the camera position in world space.
func (c *Camera) Eye() mgl32.Vec3 { return c.inverseView.Col(3).Vec3() }

// Activate applies the followed transform and recomputes the frustum.
func (c *Camera) Activate() {
	if c.Follow != nil {
		c.inverseView = c.Follow.World()
		c.view = c.inverseView.Inv()
	}
	c.frustum = geom.FrustumFromMatrix(c.ViewProjection())
}

// Frustum is valid after Activate.
func (c *Camera) Frustum() *geom.Frustum { return &c.frustum }

// ProjectedRadius estimates the on-screen radius in pixels of a world-space
// sphere.
func (c *Camera) ProjectedRadius(center mgl32.Vec3, radius float32) float32 {
	half := float32(c.viewport.Height) / 2
	switch c.kind {
	case projectionOrtho:
		if c.orthoHeight <= 0 {
			return 0
		}
		return radius / (c.orthoHeight / 2) * half
	default:
		// Custom projections are treated as perspective via the [1][1] term.
		focal := c.projection.At(1, 1)
		dist := center.Sub(c.Eye()).Len()
		if dist <= radius {
			return math32.Inf(1)
		}
		return radius / dist * focal * half
	}
}

// AddRenderFinishedCallback registers fn to run after the camera's frame is
// drawn. Lower ranks run first; once callbacks are dropped after running.
// The returned id removes the callback.
func (c *Camera) AddRenderFinishedCallback(rank int, once bool, fn func(*Camera)) int {
	c.nextID++
	c.callbacks = append(c.callbacks, renderFinished{rank: rank, once: once, fn: fn, id: c.nextID})
	slices.SortStableFunc(c.callbacks, func(a, b renderFinished) int { return a.rank - b.rank })
	return c.nextID
}

func (c *Camera) RemoveRenderFinishedCallback(id int) {
	c.callbacks = slices.DeleteFunc(c.callbacks, func(r renderFinished) bool { return r.id == id })
}

func (c *Camera) RenderFinishedCallbacks() int { return len(c.callbacks) }

// DispatchRenderFinished runs the callbacks in rank order.
func (c *Camera) DispatchRenderFinished() {
	if len(c.callbacks) == 0 {
		return
	}
	pending := slices.Clone(c.callbacks)
	c.callbacks = slices.DeleteFunc(c.callbacks, func(r renderFinished) bool { return r.once })
	for _, r := range pending {
		r.fn(c)
	}
}
