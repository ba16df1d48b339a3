package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
)

// Device is the capability a render backend exposes. Calls are issued from
// the single frame thread; a Device need not be safe for concurrent use.
type Device interface {
	SetViewport(x, y, width, height int32)
	Clear(color core.Color, depth float32, flags ClearFlags)

	SetProjection(m mgl32.Mat4)
	SetModelView(m mgl32.Mat4)

	SetEnabled(c Capability, on bool)
	SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha BlendFactor)
	SetBlendEquation(rgb, alpha BlendEquation)
	SetBlendColor(c core.Color)
	SetDepthFunc(f CompareFunc)
	SetDepthMask(write bool)
	SetDepthRange(near, far float32)
	SetColorMask(r, g, b, a bool)
	SetCullFace(f Face)
	SetFrontFace(w Winding)
	SetPolygonMode(m PolygonMode)
	SetPolygonOffset(factor, units float32)
	SetLineWidth(w float32)
	SetPointSize(s float32)
	SetStencilFunc(f CompareFunc, ref int32, mask uint32)
	SetStencilOp(sfail, dpfail, dppass StencilOp)
	SetStencilMask(mask uint32)
	SetScissor(x, y, width, height int32)
	SetMaterial(m *Material)
	SetFog(f *Fog)

	// SetLight and SetClipPlane interpret positions in the current
	// model-view space, like the fixed-function pipeline. nil disables the slot.
	SetLight(index int, l *LightParams)
	SetClipPlane(index int, eq *mgl32.Vec4)

	// BindTexture binds t to unit; a nil texture unbinds it.
	BindTexture(unit int, t Texture, s Sampler)
	// UseProgram installs p; nil selects the backend's built-in program.
	UseProgram(p Program)
	SetUniform(p Program, u Uniform)

	// DrawMesh issues the mesh's primitives. textureUnits has bit i set for
	// every unit whose texture should be sampled.
	DrawMesh(m *Mesh, textureUnits uint32)
}
