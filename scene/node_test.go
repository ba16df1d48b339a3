package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/gfx"
	"render-pipeline/shader"
)

func TestResolveIsMemoizedPerEpoch(t *testing.T) {
	defaults := shader.NewDefaultState()
	root := NewShaderNode("root")
	child := NewPainter("child")
	root.AddPainter(child)

	first := child.Resolve(1, defaults)
	assert.False(t, first.Blended())

	// A change to the parent is not seen until the next epoch.
	root.Shader().Enable(gfx.EnableBlend, shader.Override)
	again := child.Resolve(1, defaults)
	assert.Same(t, first, again)
	assert.False(t, again.Blended())
	assert.Equal(t, 1, child.resolves)
	assert.Equal(t, 1, root.resolves)

	next := child.Resolve(2, defaults)
	assert.Same(t, first, next)
	assert.True(t, next.Blended())
}

func TestParentResolvedOncePerEpoch(t *testing.T) {
	defaults := shader.NewDefaultState()
	root := NewShaderNode("root")
	a, b := NewPainter("a"), NewPainter("b")
	root.AddPainter(a)
	root.AddPainter(b)

	a.Resolve(7, defaults)
	b.Resolve(7, defaults)
	assert.Equal(t, 1, root.resolves)
}

func TestFinalEnabledFollowsChain(t *testing.T) {
	defaults := shader.NewDefaultState()
	root := NewShaderNode("root")
	mid := NewShaderNode("mid")
	leaf := NewPainter("leaf")
	root.AddChild(mid)
	mid.AddPainter(leaf)

	leaf.Resolve(1, defaults)
	assert.True(t, leaf.FinalEnabled())

	mid.Enabled = false
	leaf.Resolve(2, defaults)
	assert.False(t, leaf.FinalEnabled())
	assert.False(t, mid.FinalEnabled())
	assert.True(t, root.FinalEnabled())
}

func TestPassesResolveAgainstPainter(t *testing.T) {
	defaults := shader.NewDefaultState()
	p := NewPainter("p")
	p.Shader().Enable(gfx.EnableLighting, shader.Public)
	outline := shader.NewShaderState().Set(&shader.PolygonMode{Mode: gfx.PolygonLine}, shader.Public)
	p.AddPass(outline)

	finals := p.ResolvePasses(1, defaults)
	require.Len(t, finals, 2)
	assert.Equal(t, 2, p.PassCount())
	assert.Same(t, p.Final(), finals[0])
	assert.True(t, finals[1].IsEnabled(gfx.EnableLighting))
	assert.Equal(t, gfx.PolygonLine, finals[1].Get(shader.StatePolygonMode).(*shader.PolygonMode).Mode)

	p.ClearPasses()
	assert.Len(t, p.ResolvePasses(2, defaults), 1)
}

func TestPassesResolvedOncePerEpoch(t *testing.T) {
	defaults := shader.NewDefaultState()
	root := NewShaderNode("root")
	p := NewPainter("p")
	root.AddPainter(p)
	p.AddPass(shader.NewShaderState().Enable(gfx.EnableBlend, shader.Public))

	for range 3 {
		p.ResolvePasses(1, defaults)
	}
	assert.Equal(t, 1, p.passResolves)

	// A parent change shows up in the pass on the next epoch.
	root.Shader().Enable(gfx.EnableFog, shader.Override)
	finals := p.ResolvePasses(2, defaults)
	assert.Equal(t, 2, p.passResolves)
	assert.True(t, finals[1].IsEnabled(gfx.EnableFog))

	// Adding a pass mid-epoch is picked up without waiting.
	p.AddPass(shader.NewShaderState())
	assert.Len(t, p.ResolvePasses(2, defaults), 3)
	assert.Equal(t, 3, p.passResolves)
}

func TestCollectActorsDepthFirst(t *testing.T) {
	root := NewShaderNode("root")
	p1, p2 := NewPainter("p1"), NewPainter("p2")
	group := NewShaderNode("group")
	root.AddPainter(p1)
	root.AddChild(group)
	group.AddPainter(p2)

	a1, a2, a3 := NewActor(nil, nil), NewActor(nil, nil), NewActor(nil, nil)
	p1.AddActor(a1)
	p2.AddActor(a2)
	p1.AddActor(a3)

	assert.Equal(t, []*Actor{a1, a3, a2}, root.CollectActors(nil))
	assert.Same(t, group, root.Find("group"))
	assert.Same(t, p2, root.Find("p2").Painter())
	assert.Nil(t, root.Find("missing"))

	p1.RemoveActor(a1)
	assert.Nil(t, a1.Painter())
	assert.Equal(t, []*Actor{a3, a2}, root.CollectActors(nil))
}

func TestAddActorTwicePanics(t *testing.T) {
	a := NewActor(nil, nil)
	NewPainter("one").AddActor(a)
	assert.Panics(t, func() { NewPainter("two").AddActor(a) })
}

func TestReparentInvalidates(t *testing.T) {
	defaults := shader.NewDefaultState()
	r1, r2 := NewShaderNode("r1"), NewShaderNode("r2")
	r2.Shader().Enable(gfx.EnableFog, shader.Override)
	p := NewPainter("p")
	r1.AddPainter(p)
	assert.False(t, p.Resolve(1, defaults).IsEnabled(gfx.EnableFog))

	r2.AddPainter(p)
	assert.Empty(t, r1.Children())
	assert.Same(t, r2, p.Parent())
	assert.True(t, p.Resolve(1, defaults).IsEnabled(gfx.EnableFog))
}
