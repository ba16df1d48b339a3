package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"render-pipeline/gfx"
)

// capabilities maps the gfx switches GL implements natively. Lighting and
// fog are uniforms of the built-in program.
var capabilities = [gfx.NumCapabilities]uint32{
	gfx.EnableBlend:             gl.BLEND,
	gfx.EnableDepthTest:         gl.DEPTH_TEST,
	gfx.EnableCullFace:          gl.CULL_FACE,
	gfx.EnableStencilTest:       gl.STENCIL_TEST,
	gfx.EnableScissorTest:       gl.SCISSOR_TEST,
	gfx.EnablePolygonOffsetFill: gl.POLYGON_OFFSET_FILL,
	gfx.EnableLineSmooth:        gl.LINE_SMOOTH,
	gfx.EnableMultisample:       gl.MULTISAMPLE,
}

var blendFactors = [...]uint32{
	gfx.BlendZero:                  gl.ZERO,
	gfx.BlendOne:                   gl.ONE,
	gfx.BlendSrcColor:              gl.SRC_COLOR,
	gfx.BlendOneMinusSrcColor:      gl.ONE_MINUS_SRC_COLOR,
	gfx.BlendDstColor:              gl.DST_COLOR,
	gfx.BlendOneMinusDstColor:      gl.ONE_MINUS_DST_COLOR,
	gfx.BlendSrcAlpha:              gl.SRC_ALPHA,
	gfx.BlendOneMinusSrcAlpha:      gl.ONE_MINUS_SRC_ALPHA,
	gfx.BlendDstAlpha:              gl.DST_ALPHA,
	gfx.BlendOneMinusDstAlpha:      gl.ONE_MINUS_DST_ALPHA,
	gfx.BlendConstantColor:         gl.CONSTANT_COLOR,
	gfx.BlendOneMinusConstantColor: gl.ONE_MINUS_CONSTANT_COLOR,
}

var blendEquations = [...]uint32{
	gfx.BlendAdd:             gl.FUNC_ADD,
	gfx.BlendSubtract:        gl.FUNC_SUBTRACT,
	gfx.BlendReverseSubtract: gl.FUNC_REVERSE_SUBTRACT,
	gfx.BlendMin:             gl.MIN,
	gfx.BlendMax:             gl.MAX,
}

var compareFuncs = [...]uint32{
	gfx.CompareNever:        gl.NEVER,
	gfx.CompareLess:         gl.LESS,
	gfx.CompareEqual:        gl.EQUAL,
	gfx.CompareLessEqual:    gl.LEQUAL,
	gfx.CompareGreater:      gl.GREATER,
	gfx.CompareNotEqual:     gl.NOTEQUAL,
	gfx.CompareGreaterEqual: gl.GEQUAL,
	gfx.CompareAlways:       gl.ALWAYS,
}

var faces = [...]uint32{
	gfx.FaceBack:         gl.BACK,
	gfx.FaceFront:        gl.FRONT,
	gfx.FaceFrontAndBack: gl.FRONT_AND_BACK,
}

var windings = [...]uint32{
	gfx.WindingCCW: gl.CCW,
	gfx.WindingCW:  gl.CW,
}

var polygonModes = [...]uint32{
	gfx.PolygonFill:  gl.FILL,
	gfx.PolygonLine:  gl.LINE,
	gfx.PolygonPoint: gl.POINT,
}

var stencilOps = [...]uint32{
	gfx.StencilKeep:     gl.KEEP,
	gfx.StencilZero:     gl.ZERO,
	gfx.StencilReplace:  gl.REPLACE,
	gfx.StencilIncr:     gl.INCR,
	gfx.StencilIncrWrap: gl.INCR_WRAP,
	gfx.StencilDecr:     gl.DECR,
	gfx.StencilDecrWrap: gl.DECR_WRAP,
	gfx.StencilInvert:   gl.INVERT,
}

var primitives = [...]uint32{
	gfx.PrimitiveTriangles:     gl.TRIANGLES,
	gfx.PrimitiveLines:         gl.LINES,
	gfx.PrimitivePoints:        gl.POINTS,
	gfx.PrimitiveTriangleStrip: gl.TRIANGLE_STRIP,
	gfx.PrimitiveLineStrip:     gl.LINE_STRIP,
}

var wraps = [...]int32{
	gfx.WrapRepeat:         gl.REPEAT,
	gfx.WrapClampToEdge:    gl.CLAMP_TO_EDGE,
	gfx.WrapMirroredRepeat: gl.MIRRORED_REPEAT,
}

func filters(f gfx.TextureFilter) (min, mag int32) {
	switch f {
	case gfx.FilterNearest:
		return gl.NEAREST, gl.NEAREST
	case gfx.FilterLinearMipmap:
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	return gl.LINEAR, gl.LINEAR
}
