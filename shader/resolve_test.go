package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/core"
	"render-pipeline/gfx"
)

func TestProtectedChildIgnoresHiddenParent(t *testing.T) {
	parent := NewShaderState().Disable(gfx.EnableLighting, Hidden)
	child := NewShaderState().Enable(gfx.EnableLighting, Protected)

	final := Resolve(child, parent)
	assert.True(t, final.IsEnabled(gfx.EnableLighting))

	// Independent of what the parent declares.
	for _, mode := range []InheritMode{Public, Override, Protected, OverrideProtected, Hidden} {
		parent.Disable(gfx.EnableLighting, mode)
		assert.True(t, Resolve(child, parent).IsEnabled(gfx.EnableLighting), mode.String())
	}
}

func TestOverridePropagatesThroughChain(t *testing.T) {
	defaults := NewDefaultState()

	rootOwn := NewShaderState().Set(&DepthFunc{Func: gfx.CompareAlways}, Override)
	midOwn := NewShaderState().Set(&DepthFunc{Func: gfx.CompareGreater}, Public)
	leafOwn := NewShaderState()

	root := Resolve(rootOwn, defaults)
	mid := Resolve(midOwn, root)
	leaf := Resolve(leafOwn, mid)

	assert.Equal(t, gfx.CompareAlways, mid.Get(StateDepthFunc).(*DepthFunc).Func)
	assert.Equal(t, Override, mid.Mode(StateDepthFunc))
	assert.Same(t, rootOwn.Get(StateDepthFunc), leaf.Get(StateDepthFunc))
}

func TestProtectedStopsOverride(t *testing.T) {
	parent := Resolve(NewShaderState().Set(NewBlendFunc(gfx.BlendOne, gfx.BlendOne), Override), nil)
	own := NewBlendFunc(gfx.BlendSrcAlpha, gfx.BlendOneMinusSrcAlpha)
	child := Resolve(NewShaderState().Set(own, Protected), parent)
	assert.Same(t, own, child.Get(StateBlendFunc))
}

func TestHiddenClearsAgainstMissingParent(t *testing.T) {
	child := NewShaderState().Set(&LineWidth{Width: 4}, Hidden).Enable(gfx.EnableFog, Hidden)
	final := Resolve(child, NewShaderState())
	assert.Nil(t, final.Get(StateLineWidth))
	set, _ := final.Declared(gfx.EnableFog)
	assert.False(t, set)
}

func TestDefaultsAreInherited(t *testing.T) {
	final := Resolve(NewShaderState(), NewDefaultState())
	assert.True(t, final.DepthWrite())
	assert.False(t, final.Blended())
	assert.True(t, final.IsEnabled(gfx.EnableMultisample))
	assert.Nil(t, final.Program())
	require.NotNil(t, final.Material())
	assert.False(t, final.Material().Translucent())
}

func TestTextureUnitsResolvePerSlot(t *testing.T) {
	a := NewTextureUnit(gfx.NewSolidImage("a", core.ColorRed))
	b := NewTextureUnit(gfx.NewSolidImage("b", core.ColorBlue))
	off := &TextureUnit{Texture: gfx.NewSolidImage("c", core.ColorGreen)}

	parent := NewShaderState().
		SetTextureUnit(0, a, Public).
		SetTextureUnit(1, a, Override)
	child := NewShaderState().
		SetTextureUnit(1, b, Public).
		SetTextureUnit(2, off, Public)

	final := Resolve(child, parent)
	assert.Same(t, a, final.TextureUnit(0))
	assert.Same(t, a, final.TextureUnit(1))
	assert.Same(t, off, final.TextureUnit(2))
	assert.Nil(t, final.TextureUnit(3))
	assert.Equal(t, uint32(0b011), final.TextureMask())
}

func TestLightsAppendAndCap(t *testing.T) {
	parent := NewShaderState()
	for i := 0; i < 5; i++ {
		require.True(t, parent.AddLight(NewLight()))
	}
	child := NewShaderState()
	for i := 0; i < MaxLights; i++ {
		require.True(t, child.AddLight(NewLight()))
	}
	assert.False(t, child.AddLight(NewLight()))

	final := Resolve(child, Resolve(parent, nil))
	require.Len(t, final.Lights(), MaxLights)
	for i := 0; i < 5; i++ {
		assert.Same(t, parent.Lights()[i], final.Lights()[i])
	}
	assert.Same(t, child.Lights()[0], final.Lights()[5])

	child.InheritLights = false
	final.ResolveFrom(child, Resolve(parent, nil))
	assert.Equal(t, child.Lights(), final.Lights())
}

func TestClipPlanesInheritFlag(t *testing.T) {
	parent := NewShaderState()
	parent.AddClipPlane(&ClipPlane{})
	child := NewShaderState()
	own := &ClipPlane{}
	child.AddClipPlane(own)

	assert.Len(t, Resolve(child, parent).ClipPlanes(), 2)
	child.InheritClipPlanes = false
	planes := Resolve(child, parent).ClipPlanes()
	require.Len(t, planes, 1)
	assert.Same(t, own, planes[0])

	child.RemoveClipPlane(own)
	assert.Empty(t, child.ClipPlanes())
}

func TestResolveFromKeepsIdentity(t *testing.T) {
	final := NewShaderState()
	id := final.ID()
	final.ResolveFrom(NewShaderState().Enable(gfx.EnableBlend, Public), NewDefaultState())
	assert.Equal(t, id, final.ID())
	assert.True(t, final.Blended())
}
