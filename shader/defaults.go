package shader

import (
	"render-pipeline/core"
	"render-pipeline/gfx"
)

// NewDefaultState returns a state declaring the graphics API's initial value
// for every capability and render state, all Public. It is the parent of
// every root node. No program is declared, which selects the device's
// built-in program.
func NewDefaultState() *ShaderState {
	s := NewShaderState()
	for c := gfx.Capability(0); c < gfx.NumCapabilities; c++ {
		s.Disable(c, Public)
	}
	s.Enable(gfx.EnableMultisample, Public)

	s.Set(NewBlendFunc(gfx.BlendOne, gfx.BlendZero), Public)
	s.Set(&BlendEquation{RGB: gfx.BlendAdd, Alpha: gfx.BlendAdd}, Public)
	s.Set(&BlendColor{Color: core.ColorTransparent}, Public)
	s.Set(&DepthFunc{Func: gfx.CompareLess}, Public)
	s.Set(&DepthMask{Write: true}, Public)
	s.Set(&DepthRange{Near: 0, Far: 1}, Public)
	s.Set(&ColorMask{R: true, G: true, B: true, A: true}, Public)
	s.Set(&CullFace{Face: gfx.FaceBack}, Public)
	s.Set(&FrontFace{Winding: gfx.WindingCCW}, Public)
	s.Set(&PolygonMode{Mode: gfx.PolygonFill}, Public)
	s.Set(&PolygonOffset{}, Public)
	s.Set(&LineWidth{Width: 1}, Public)
	s.Set(&PointSize{Size: 1}, Public)
	s.Set(&StencilFunc{Func: gfx.CompareAlways, Ref: 0, Mask: ^uint32(0)}, Public)
	s.Set(&StencilOp{SFail: gfx.StencilKeep, DPFail: gfx.StencilKeep, DPPass: gfx.StencilKeep}, Public)
	s.Set(&StencilMask{Mask: ^uint32(0)}, Public)
	s.Set(&Scissor{}, Public)
	s.Set(&Material{Material: gfx.DefaultMaterial()}, Public)
	s.Set(&Fog{Fog: gfx.DefaultFog()}, Public)

	s.InheritLights = false
	s.InheritClipPlanes = false
	return s
}

// baseline fills slots that a resolved state leaves absent.
var baseline = NewDefaultState()
