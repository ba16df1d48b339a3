package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// Renderer replays compiled render lists on a stream's device.
type Renderer struct {
	stats  Stats
	logger *zap.Logger

	// per-frame binding state
	view      mgl32.Mat4
	lights    [shader.MaxLights]*shader.Light
	numLights int
	planes    [shader.MaxClipPlanes]*shader.ClipPlane
	numPlanes int
	transform *geom.Transform
	haveMV    bool
}

func NewRenderer() *Renderer {
	return &Renderer{logger: core.Log.Named("renderer")}
}

// Stats holds the renderer counters of the last Render.
func (r *Renderer) Stats() Stats { return r.stats }

// Render draws lists for cam on stream ctx, then runs the camera's
// render-finished callbacks.
func (r *Renderer) Render(ctx *StreamContext, cam *scene.Camera, lists *RenderLists) {
	core.Check(ctx != nil && ctx.active, "render on inactive stream")
	core.Check(cam != nil, "render without a camera")
	if ctx == nil || cam == nil {
		return
	}
	dev := ctx.Device
	ctx.Camera = cam
	r.begin(cam)

	vp := cam.Viewport()
	dev.SetViewport(vp.X, vp.Y, vp.Width, vp.Height)
	ctx.Tracker.Reset()
	ctx.Tracker.Apply(ctx.Defaults())
	if vp.ClearFlags != 0 {
		dev.Clear(vp.ClearColor, vp.ClearDepth, vp.ClearFlags)
	}
	dev.SetProjection(cam.Projection())

	applies, changes := ctx.Tracker.Applies, ctx.Tracker.Changes
	if lists != nil {
		for _, l := range lists.All() {
			for _, head := range l.Tokens {
				for t := head; t != nil; t = t.NextPass {
					r.draw(ctx, cam, t)
				}
			}
		}
	}
	r.stats.ShaderApplies = ctx.Tracker.Applies - applies
	r.stats.StateChanges = ctx.Tracker.Changes - changes

	r.unbindAll(dev)
	cam.DispatchRenderFinished()
}

func (r *Renderer) begin(cam *scene.Camera) {
	r.stats = Stats{}
	r.view = cam.View()
	r.lights = [shader.MaxLights]*shader.Light{}
	r.planes = [shader.MaxClipPlanes]*shader.ClipPlane{}
	r.numLights, r.numPlanes = 0, 0
	r.transform, r.haveMV = nil, false
}

func (r *Renderer) draw(ctx *StreamContext, cam *scene.Camera, t *Token) {
	dev := ctx.Device
	s := t.Shader

	r.bindLights(dev, s.Lights()[:t.Lights])
	r.bindPlanes(dev, s.ClipPlanes()[:t.Planes])

	a := t.Actor
	if !r.haveMV || a.Transform != r.transform {
		mv := r.view
		if a.Transform != nil {
			mv = r.view.Mul4(a.Transform.World())
		}
		dev.SetModelView(mv)
		r.transform, r.haveMV = a.Transform, true
		r.stats.TransformChanges++
	}

	ctx.Tracker.Apply(s)
	mask := s.TextureMask()

	if p := s.Program(); p != nil {
		for _, u := range a.Uniforms() {
			dev.SetUniform(p.Program, u)
		}
	}

	if a.OnPreRender != nil {
		a.OnPreRender(a, cam)
	}
	d := a.ActiveDrawable()
	if d == nil {
		return
	}
	d.Draw(dev, a, ctx.ID, mask)
	r.stats.DrawCalls++
}

// followView sets the model-view a light or plane position is specified in.
func (r *Renderer) followView(dev gfx.Device, follow *geom.Transform) {
	mv := r.view
	if follow != nil {
		mv = r.view.Mul4(follow.World())
	}
	dev.SetModelView(mv)
	// The actor transform has to be reapplied before the next draw.
	r.haveMV = false
}

func (r *Renderer) bindLights(dev gfx.Device, lights []*shader.Light) {
	for i, l := range lights {
		if r.lights[i] == l {
			continue
		}
		r.followView(dev, l.Follow)
		dev.SetLight(i, &l.Params)
		r.lights[i] = l
		r.stats.LightBinds++
	}
	for i := len(lights); i < r.numLights; i++ {
		dev.SetLight(i, nil)
		r.lights[i] = nil
	}
	r.numLights = len(lights)
}

func (r *Renderer) bindPlanes(dev gfx.Device, planes []*shader.ClipPlane) {
	for i, p := range planes {
		if r.planes[i] == p {
			continue
		}
		r.followView(dev, p.Follow)
		eq := p.Equation
		dev.SetClipPlane(i, &eq)
		r.planes[i] = p
		r.stats.PlaneBinds++
	}
	for i := len(planes); i < r.numPlanes; i++ {
		dev.SetClipPlane(i, nil)
		r.planes[i] = nil
	}
	r.numPlanes = len(planes)
}

func (r *Renderer) unbindAll(dev gfx.Device) {
	r.bindLights(dev, nil)
	r.bindPlanes(dev, nil)
}
