package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/gfx/gfxtest"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

func TestOneShaderApplyPerRun(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	p := scene.NewPainter("p")
	p.Shader().Enable(gfx.EnableDepthTest, shader.Public)
	root.AddPainter(p)
	for i := 0; i < 5; i++ {
		actorAt(p, float32(i), 0, -10)
	}

	h.draw(root)
	st := h.renderer.Stats()
	assert.Equal(t, 5, st.DrawCalls)
	assert.Equal(t, 1, st.ShaderApplies)
	assert.Equal(t, 5, st.TransformChanges)
	for _, d := range h.dev.Draws {
		assert.True(t, d.Enabled[gfx.EnableDepthTest])
	}
}

func TestShaderAppliedPerChange(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	a, b := scene.NewPainter("a"), scene.NewPainter("b")
	b.RenderRank = 1
	b.Shader().Enable(gfx.EnableCullFace, shader.Public)
	root.AddPainter(a)
	root.AddPainter(b)
	for i := 0; i < 3; i++ {
		actorAt(a, 0, 0, -5)
		actorAt(b, 0, 0, -5)
	}

	h.draw(root)
	assert.Equal(t, 2, h.renderer.Stats().ShaderApplies)
	assert.Equal(t, 6, h.renderer.Stats().DrawCalls)
	// Every switch once for the defaults, then only cull-face changes.
	assert.Equal(t, int(gfx.NumCapabilities)+1, h.dev.Count("SetEnabled"))
}

func TestSharedTransformSetOnce(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	p := scene.NewPainter("p")
	root.AddPainter(p)
	tr := geom.NewTransformMatrix(mgl32.Translate3D(0, 0, -5))
	tr.ComputeWorld()
	for i := 0; i < 3; i++ {
		p.AddActor(scene.NewActor(scene.NewGeometry(gfx.Cube(1)), tr))
	}
	free := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), nil)
	free.RenderRank = 1
	p.AddActor(free)

	h.compiler.FrustumCulling = false
	h.draw(root)
	assert.Equal(t, 2, h.renderer.Stats().TransformChanges)
	last := h.dev.Draws[len(h.dev.Draws)-1]
	assert.Equal(t, h.cam.View(), last.ModelView)
	assert.Equal(t, h.cam.View().Mul4(tr.World()), h.dev.Draws[0].ModelView)
}

func TestLightsBoundByDelta(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	sun := shader.NewLight()
	lamp := shader.NewLight()
	lamp.Follow = geom.NewTransformMatrix(mgl32.Translate3D(0, 3, 0))
	lamp.Follow.ComputeWorld()
	root.Shader().AddLight(sun)
	root.Shader().AddLight(lamp)

	lit := scene.NewPainter("lit")
	lit.Shader().Enable(gfx.EnableLighting, shader.Public)
	unlit := scene.NewPainter("unlit")
	unlit.RenderRank = 1
	root.AddPainter(lit)
	root.AddPainter(unlit)
	actorAt(lit, 0, 0, -5)
	actorAt(lit, 1, 0, -5)
	actorAt(unlit, 0, 0, -5)

	h.draw(root)
	st := h.renderer.Stats()
	assert.Equal(t, 2, st.LightBinds)
	require.Len(t, h.dev.Draws, 3)
	assert.Equal(t, 2, h.dev.Draws[0].Lights)
	assert.Equal(t, 2, h.dev.Draws[1].Lights)
	assert.Equal(t, 0, h.dev.Draws[2].Lights)
	assert.Equal(t, 3, st.TransformChanges)
	assert.Empty(t, h.dev.Lights)
}

func TestTexturesAndUniforms(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	p := scene.NewPainter("p")
	prog := &shader.Program{Program: gfxtest.Program("tinted")}
	p.Shader().
		Set(prog, shader.Public).
		SetTextureUnit(0, shader.NewTextureUnit(gfx.NewSolidImage("white", core.ColorWhite)), shader.Public).
		SetTextureUnit(1, &shader.TextureUnit{Texture: gfx.NewSolidImage("off", core.ColorBlack)}, shader.Public).
		SetTextureUnit(2, shader.NewTextureUnit(nil), shader.Public)
	root.AddPainter(p)
	a := actorAt(p, 0, 0, -5)
	a.SetUniform("uTint", core.ColorRed)

	h.draw(root)
	require.Len(t, h.dev.Draws, 1)
	assert.Equal(t, uint32(1), h.dev.Draws[0].TextureUnits)
	assert.Equal(t, gfxtest.Program("tinted"), h.dev.Draws[0].Program)
	assert.Equal(t, 1, h.dev.Count("SetUniform"))
}

func TestPreRenderHookAndNilDrawable(t *testing.T) {
	h := newHarness()
	root := scene.NewShaderNode("root")
	p := scene.NewPainter("p")
	root.AddPainter(p)
	hooked := 0
	a := actorAt(p, 0, 0, -5)
	a.OnPreRender = func(*scene.Actor, *scene.Camera) { hooked++ }
	p.AddActor(scene.NewActor(nil, nil))

	h.draw(root)
	assert.Equal(t, 1, hooked)
	assert.Equal(t, 1, h.renderer.Stats().DrawCalls)
}

func TestRenderDispatchesCallbacks(t *testing.T) {
	h := newHarness()
	var ranks []int
	h.cam.AddRenderFinishedCallback(2, false, func(*scene.Camera) { ranks = append(ranks, 2) })
	h.cam.AddRenderFinishedCallback(1, true, func(*scene.Camera) { ranks = append(ranks, 1) })

	h.draw(scene.NewShaderNode("empty"))
	h.draw(scene.NewShaderNode("empty"))
	assert.Equal(t, []int{1, 2, 2}, ranks)
}

func TestRenderClearsViewport(t *testing.T) {
	h := newHarness()
	h.draw(nil)
	assert.Equal(t, 1, h.dev.Count("SetViewport"))
	assert.Equal(t, 1, h.dev.Count("Clear"))
	assert.Equal(t, 1, h.dev.Count("SetProjection"))
	assert.Same(t, h.cam, h.ctx.Camera)
}

func TestStreams(t *testing.T) {
	var s Streams
	assert.Panics(t, func() { s.Get(0) })
	assert.Panics(t, func() { s.Init(MaxStreams, gfxtest.NewRecorder()) })

	ctx := s.Init(3, gfxtest.NewRecorder())
	assert.True(t, ctx.Active())
	assert.Same(t, ctx, s.Get(3))
	d := ctx.Defaults()
	assert.Same(t, d, ctx.Defaults())

	custom := shader.NewDefaultState().Enable(gfx.EnableDepthTest, shader.Public)
	ctx.SetDefaults(custom)
	assert.Same(t, custom, s.Get(3).Defaults())

	s.Teardown(3)
	assert.Panics(t, func() { s.Get(3) })
}
