package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
)

// StateType indexes the render-state slots of a ShaderState.
type StateType int

const (
	StateBlendFunc StateType = iota
	StateBlendEquation
	StateBlendColor
	StateDepthFunc
	StateDepthMask
	StateDepthRange
	StateColorMask
	StateCullFace
	StateFrontFace
	StatePolygonMode
	StatePolygonOffset
	StateLineWidth
	StatePointSize
	StateStencilFunc
	StateStencilOp
	StateStencilMask
	StateScissor
	StateMaterial
	StateFog
	StateProgram

	NumStateTypes
)

var stateTypeNames = [NumStateTypes]string{
	"BlendFunc", "BlendEquation", "BlendColor", "DepthFunc", "DepthMask",
	"DepthRange", "ColorMask", "CullFace", "FrontFace", "PolygonMode",
	"PolygonOffset", "LineWidth", "PointSize", "StencilFunc", "StencilOp",
	"StencilMask", "Scissor", "Material", "Fog", "Program",
}

func (t StateType) String() string {
	if t >= 0 && t < NumStateTypes {
		return stateTypeNames[t]
	}
	return fmt.Sprintf("StateType(%d)", int(t))
}

// State is one render-state object. Values are shared by pointer between
// a node and the resolved states of its descendants, so a State must not be
// mutated while a frame is being drawn.
type State interface {
	Type() StateType
	Apply(dev gfx.Device)
}

type BlendFunc struct {
	SrcRGB, DstRGB     gfx.BlendFactor
	SrcAlpha, DstAlpha gfx.BlendFactor
}

// NewBlendFunc uses the same factors for color and alpha.
func NewBlendFunc(src, dst gfx.BlendFactor) *BlendFunc {
	return &BlendFunc{SrcRGB: src, DstRGB: dst, SrcAlpha: src, DstAlpha: dst}
}

func (s *BlendFunc) Type() StateType { return StateBlendFunc }
func (s *BlendFunc) Apply(dev gfx.Device) {
	dev.SetBlendFunc(s.SrcRGB, s.DstRGB, s.SrcAlpha, s.DstAlpha)
}

type BlendEquation struct {
	RGB, Alpha gfx.BlendEquation
}

func (s *BlendEquation) Type() StateType      { return StateBlendEquation }
func (s *BlendEquation) Apply(dev gfx.Device) { dev.SetBlendEquation(s.RGB, s.Alpha) }

type BlendColor struct {
	Color core.Color
}

func (s *BlendColor) Type() StateType      { return StateBlendColor }
func (s *BlendColor) Apply(dev gfx.Device) { dev.SetBlendColor(s.Color) }

type DepthFunc struct {
	Func gfx.CompareFunc
}

func (s *DepthFunc) Type() StateType      { return StateDepthFunc }
func (s *DepthFunc) Apply(dev gfx.Device) { dev.SetDepthFunc(s.Func) }

type DepthMask struct {
	Write bool
}

func (s *DepthMask) Type() StateType      { return StateDepthMask }
func (s *DepthMask) Apply(dev gfx.Device) { dev.SetDepthMask(s.Write) }

type DepthRange struct {
	Near, Far float32
}

func (s *DepthRange) Type() StateType      { return StateDepthRange }
func (s *DepthRange) Apply(dev gfx.Device) { dev.SetDepthRange(s.Near, s.Far) }

type ColorMask struct {
	R, G, B, A bool
}

func (s *ColorMask) Type() StateType      { return StateColorMask }
func (s *ColorMask) Apply(dev gfx.Device) { dev.SetColorMask(s.R, s.G, s.B, s.A) }

type CullFace struct {
	Face gfx.Face
}

func (s *CullFace) Type() StateType      { return StateCullFace }
func (s *CullFace) Apply(dev gfx.Device) { dev.SetCullFace(s.Face) }

type FrontFace struct {
	Winding gfx.Winding
}

func (s *FrontFace) Type() StateType      { return StateFrontFace }
func (s *FrontFace) Apply(dev gfx.Device) { dev.SetFrontFace(s.Winding) }

type PolygonMode struct {
	Mode gfx.PolygonMode
}

func (s *PolygonMode) Type() StateType      { return StatePolygonMode }
func (s *PolygonMode) Apply(dev gfx.Device) { dev.SetPolygonMode(s.Mode) }

type PolygonOffset struct {
	Factor, Units float32
}

func (s *PolygonOffset) Type() StateType      { return StatePolygonOffset }
func (s *PolygonOffset) Apply(dev gfx.Device) { dev.SetPolygonOffset(s.Factor, s.Units) }

type LineWidth struct {
	Width float32
}

func (s *LineWidth) Type() StateType      { return StateLineWidth }
func (s *LineWidth) Apply(dev gfx.Device) { dev.SetLineWidth(s.Width) }

type PointSize struct {
	Size float32
}

func (s *PointSize) Type() StateType      { return StatePointSize }
func (s *PointSize) Apply(dev gfx.Device) { dev.SetPointSize(s.Size) }

type StencilFunc struct {
	Func gfx.CompareFunc
	Ref  int32
	Mask uint32
}

func (s *StencilFunc) Type() StateType      { return StateStencilFunc }
func (s *StencilFunc) Apply(dev gfx.Device) { dev.SetStencilFunc(s.Func, s.Ref, s.Mask) }

type StencilOp struct {
	SFail, DPFail, DPPass gfx.StencilOp
}

func (s *StencilOp) Type() StateType      { return StateStencilOp }
func (s *StencilOp) Apply(dev gfx.Device) { dev.SetStencilOp(s.SFail, s.DPFail, s.DPPass) }

type StencilMask struct {
	Mask uint32
}

func (s *StencilMask) Type() StateType      { return StateStencilMask }
func (s *StencilMask) Apply(dev gfx.Device) { dev.SetStencilMask(s.Mask) }

type Scissor struct {
	X, Y, Width, Height int32
}

func (s *Scissor) Type() StateType      { return StateScissor }
func (s *Scissor) Apply(dev gfx.Device) { dev.SetScissor(s.X, s.Y, s.Width, s.Height) }

type Material struct {
	gfx.Material
}

func NewMaterial(diffuse core.Color) *Material {
	m := &Material{Material: gfx.DefaultMaterial()}
	m.Diffuse = diffuse
	return m
}

func (s *Material) Type() StateType      { return StateMaterial }
func (s *Material) Apply(dev gfx.Device) { dev.SetMaterial(&s.Material) }

// Translucent reports whether the diffuse alpha is below one.
func (s *Material) Translucent() bool { return !s.Diffuse.Opaque() }

type Fog struct {
	gfx.Fog
}

func (s *Fog) Type() StateType      { return StateFog }
func (s *Fog) Apply(dev gfx.Device) { dev.SetFog(&s.Fog) }

// Program binds a GPU program and its shared uniforms. Per-actor uniforms
// are pushed separately by the renderer.
type Program struct {
	Program  gfx.Program
	Uniforms []gfx.Uniform
}

func (s *Program) Type() StateType { return StateProgram }
func (s *Program) Apply(dev gfx.Device) {
	dev.UseProgram(s.Program)
	for _, u := range s.Uniforms {
		dev.SetUniform(s.Program, u)
	}
}

// SetUniform replaces or appends a shared uniform.
func (s *Program) SetUniform(name string, value any) {
	for i := range s.Uniforms {
		if s.Uniforms[i].Name == name {
			s.Uniforms[i].Value = value
			return
		}
	}
	s.Uniforms = append(s.Uniforms, gfx.Uniform{Name: name, Value: value})
}

// TextureUnit is the content of one texture unit slot.
type TextureUnit struct {
	Texture gfx.Texture
	Sampler gfx.Sampler
	Enabled bool
}

func NewTextureUnit(t gfx.Texture) *TextureUnit {
	return &TextureUnit{Texture: t, Enabled: true}
}

// Active reports whether the unit has a texture and is switched on.
func (u *TextureUnit) Active() bool {
	return u != nil && u.Enabled && u.Texture != nil
}

// Light is a light source. When Follow is set, Params.Position and
// Params.SpotDirection are expressed in that transform's space; otherwise
// they are in world space.
type Light struct {
	Params gfx.LightParams
	Follow *geom.Transform
}

func NewLight() *Light {
	return &Light{Params: gfx.DefaultLightParams()}
}

// ClipPlane is a user clipping plane with the same Follow convention as Light.
type ClipPlane struct {
	Equation mgl32.Vec4
	Follow   *geom.Transform
}
