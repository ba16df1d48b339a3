package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/gfx/gfxtest"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

func testCamera() *scene.Camera {
	cam := scene.NewCamera(scene.NewViewport(0, 0, 640, 480))
	cam.SetPerspective(60, 0.5, 100)
	cam.LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	cam.Activate()
	return cam
}

// actorAt places a unit cube with its own mesh so draws can be told apart.
func actorAt(p *scene.Painter, x, y, z float32) *scene.Actor {
	tr := geom.NewTransformMatrix(mgl32.Translate3D(x, y, z))
	tr.ComputeWorld()
	a := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), tr)
	p.AddActor(a)
	return a
}

func blendedPainter(name string) *scene.Painter {
	p := scene.NewPainter(name)
	p.Shader().
		Enable(gfx.EnableBlend, shader.Public).
		Set(shader.NewBlendFunc(gfx.BlendSrcAlpha, gfx.BlendOneMinusSrcAlpha), shader.Public).
		Set(&shader.DepthMask{Write: false}, shader.Public)
	return p
}

type harness struct {
	dev      *gfxtest.Recorder
	ctx      *StreamContext
	cam      *scene.Camera
	compiler *Compiler
	renderer *Renderer
	epoch    uint64
	streams  Streams
}

func newHarness() *harness {
	h := &harness{
		dev:      gfxtest.NewRecorder(),
		cam:      testCamera(),
		compiler: NewCompiler(),
		renderer: NewRenderer(),
	}
	h.ctx = h.streams.Init(0, h.dev)
	return h
}

func (h *harness) frame() Frame {
	h.epoch++
	return Frame{Camera: h.cam, Epoch: h.epoch, Now: float64(h.epoch) / 60, Defaults: h.ctx.Defaults()}
}

func (h *harness) compile(root *scene.ShaderNode) *RenderLists {
	return h.compiler.Compile(root, h.frame())
}

func (h *harness) draw(root *scene.ShaderNode) *RenderLists {
	lists := h.compile(root)
	h.dev.Reset()
	h.renderer.Render(h.ctx, h.cam, lists)
	return lists
}

func (h *harness) drawnMeshes() []*gfx.Mesh {
	var out []*gfx.Mesh
	for _, d := range h.dev.Draws {
		out = append(out, d.Mesh)
	}
	return out
}

func meshOf(a *scene.Actor) *gfx.Mesh {
	return a.Drawable(0).(*scene.Geometry).Mesh
}
