package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"render-pipeline/core"
	"render-pipeline/gfx"
	"render-pipeline/gfx/gfxtest"
)

func TestTrackerSkipsCurrentShader(t *testing.T) {
	dev := gfxtest.NewRecorder()
	tr := NewTracker(dev)
	s := Resolve(NewShaderState(), NewDefaultState())

	assert.True(t, tr.Apply(s))
	n := len(dev.Calls)
	assert.Positive(t, n)

	assert.False(t, tr.Apply(s))
	assert.Len(t, dev.Calls, n)
	assert.Equal(t, 1, tr.Applies)
}

func TestTrackerIssuesOnlyDeltas(t *testing.T) {
	dev := gfxtest.NewRecorder()
	tr := NewTracker(dev)
	defaults := NewDefaultState()

	opaque := Resolve(NewShaderState().Enable(gfx.EnableDepthTest, Public), defaults)
	blended := Resolve(NewShaderState().
		Enable(gfx.EnableDepthTest, Public).
		Enable(gfx.EnableBlend, Public).
		Set(&DepthMask{Write: false}, Public), defaults)

	tr.Apply(opaque)
	dev.Reset()
	tr.Apply(blended)

	assert.Equal(t, 1, dev.Count("SetEnabled"))
	assert.Equal(t, 1, dev.Count("SetDepthMask"))
	assert.Zero(t, dev.Count("SetBlendFunc"))
	assert.Zero(t, dev.Count("BindTexture"))
	assert.True(t, dev.Enabled[gfx.EnableBlend])
	assert.False(t, dev.DepthMask)
}

func TestTrackerResetReissues(t *testing.T) {
	dev := gfxtest.NewRecorder()
	tr := NewTracker(dev)
	s := Resolve(NewShaderState(), NewDefaultState())
	tr.Apply(s)
	first := len(dev.Calls)

	tr.Reset()
	assert.Nil(t, tr.Current())
	tr.Apply(s)
	assert.Len(t, dev.Calls, 2*first)
	assert.Equal(t, int(gfx.NumCapabilities), dev.Count("SetEnabled")/2)
}

func TestTrackerProgramAndTextures(t *testing.T) {
	dev := gfxtest.NewRecorder()
	tr := NewTracker(dev)
	defaults := NewDefaultState()

	prog := &Program{Program: gfxtest.Program("lit")}
	prog.SetUniform("uTint", core.ColorRed)
	prog.SetUniform("uTint", core.ColorBlue)
	unit := NewTextureUnit(gfx.NewSolidImage("white", core.ColorWhite))

	withProg := Resolve(NewShaderState().Set(prog, Public).SetTextureUnit(0, unit, Public), defaults)
	plain := Resolve(NewShaderState(), defaults)

	tr.Apply(withProg)
	assert.Equal(t, gfxtest.Program("lit"), dev.Program)
	assert.Equal(t, 1, dev.Count("SetUniform"))
	assert.Same(t, unit.Texture, dev.Textures[0])

	dev.Reset()
	tr.Apply(plain)
	assert.Nil(t, dev.Program)
	assert.Equal(t, 1, dev.Count("UseProgram"))
	assert.Equal(t, 1, dev.Count("BindTexture"))
	assert.Empty(t, dev.Textures)
}
