package gfx

import "fmt"

// Capability is a boolean pipeline switch (glEnable/glDisable style).
type Capability int

const (
	EnableBlend Capability = iota
	EnableDepthTest
	EnableCullFace
	EnableStencilTest
	EnableScissorTest
	EnablePolygonOffsetFill
	EnableLighting
	EnableFog
	EnableLineSmooth
	EnableMultisample

	NumCapabilities
)

var capabilityNames = [NumCapabilities]string{
	"Blend", "DepthTest", "CullFace", "StencilTest", "ScissorTest",
	"PolygonOffsetFill", "Lighting", "Fog", "LineSmooth", "Multisample",
}

func (c Capability) String() string {
	if c >= 0 && c < NumCapabilities {
		return capabilityNames[c]
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendConstantColor
	BlendOneMinusConstantColor
)

type BlendEquation int

const (
	BlendAdd BlendEquation = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
)

type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareEqual
	CompareLessEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterEqual
	CompareAlways
)

type Face int

const (
	FaceBack Face = iota
	FaceFront
	FaceFrontAndBack
)

type Winding int

const (
	WindingCCW Winding = iota
	WindingCW
)

type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

type StencilOp int

const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncr
	StencilIncrWrap
	StencilDecr
	StencilDecrWrap
	StencilInvert
)

type Primitive int

const (
	PrimitiveTriangles Primitive = iota
	PrimitiveLines
	PrimitivePoints
	PrimitiveTriangleStrip
	PrimitiveLineStrip
)

type FogMode int

const (
	FogLinear FogMode = iota
	FogExp
	FogExp2
)

type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterNearest
	FilterLinearMipmap
)

type TextureWrap int

const (
	WrapRepeat TextureWrap = iota
	WrapClampToEdge
	WrapMirroredRepeat
)

// ClearFlags selects which buffers a viewport clears.
type ClearFlags uint8

const (
	ClearColor ClearFlags = 1 << iota
	ClearDepth
	ClearStencil

	ClearColorDepth = ClearColor | ClearDepth
	ClearAll        = ClearColor | ClearDepth | ClearStencil
)
