// Package gfxtest provides a gfx.Device that records calls instead of
// drawing, for tests of the pipeline stages above the backend.
package gfxtest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
	"render-pipeline/gfx"
)

// Call is one recorded device invocation.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Draw is a recorded DrawMesh with the state that was current at the time.
type Draw struct {
	Mesh         *gfx.Mesh
	TextureUnits uint32
	ModelView    mgl32.Mat4
	Program      gfx.Program
	Enabled      map[gfx.Capability]bool
	DepthMask    bool
	Textures     map[int]gfx.Texture
	Lights       int
	ClipPlanes   int
}

// Recorder implements gfx.Device.
type Recorder struct {
	Calls []Call
	Draws []Draw

	Projection mgl32.Mat4
	ModelView  mgl32.Mat4
	Enabled    map[gfx.Capability]bool
	DepthMask  bool
	Program    gfx.Program
	Textures   map[int]gfx.Texture
	Lights     map[int]gfx.LightParams
	ClipPlanes map[int]mgl32.Vec4
}

func NewRecorder() *Recorder {
	return &Recorder{
		Projection: mgl32.Ident4(),
		ModelView:  mgl32.Ident4(),
		Enabled:    make(map[gfx.Capability]bool),
		DepthMask:  true,
		Textures:   make(map[int]gfx.Texture),
		Lights:     make(map[int]gfx.LightParams),
		ClipPlanes: make(map[int]mgl32.Vec4),
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

// Count returns how many times op was recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps the current state.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
	r.Draws = r.Draws[:0]
}

func (r *Recorder) SetViewport(x, y, width, height int32) {
	r.record("SetViewport", x, y, width, height)
}

func (r *Recorder) Clear(color core.Color, depth float32, flags gfx.ClearFlags) {
	r.record("Clear", color, depth, flags)
}

func (r *Recorder) SetProjection(m mgl32.Mat4) {
	r.Projection = m
	r.record("SetProjection", m)
}

func (r *Recorder) SetModelView(m mgl32.Mat4) {
	r.ModelView = m
	r.record("SetModelView", m)
}

func (r *Recorder) SetEnabled(c gfx.Capability, on bool) {
	r.Enabled[c] = on
	r.record("SetEnabled", c, on)
}

func (r *Recorder) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha gfx.BlendFactor) {
	r.record("SetBlendFunc", srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (r *Recorder) SetBlendEquation(rgb, alpha gfx.BlendEquation) {
	r.record("SetBlendEquation", rgb, alpha)
}

func (r *Recorder) SetBlendColor(c core.Color) { r.record("SetBlendColor", c) }

func (r *Recorder) SetDepthFunc(f gfx.CompareFunc) { r.record("SetDepthFunc", f) }

func (r *Recorder) SetDepthMask(write bool) {
	r.DepthMask = write
	r.record("SetDepthMask", write)
}

func (r *Recorder) SetDepthRange(near, far float32) { r.record("SetDepthRange", near, far) }

func (r *Recorder) SetColorMask(red, green, blue, alpha bool) {
	r.record("SetColorMask", red, green, blue, alpha)
}

func (r *Recorder) SetCullFace(f gfx.Face) { r.record("SetCullFace", f) }

func (r *Recorder) SetFrontFace(w gfx.Winding) { r.record("SetFrontFace", w) }

func (r *Recorder) SetPolygonMode(m gfx.PolygonMode) { r.record("SetPolygonMode", m) }

func (r *Recorder) SetPolygonOffset(factor, units float32) {
	r.record("SetPolygonOffset", factor, units)
}

func (r *Recorder) SetLineWidth(w float32) { r.record("SetLineWidth", w) }

func (r *Recorder) SetPointSize(s float32) { r.record("SetPointSize", s) }

func (r *Recorder) SetStencilFunc(f gfx.CompareFunc, ref int32, mask uint32) {
	r.record("SetStencilFunc", f, ref, mask)
}

func (r *Recorder) SetStencilOp(sfail, dpfail, dppass gfx.StencilOp) {
	r.record("SetStencilOp", sfail, dpfail, dppass)
}

func (r *Recorder) SetStencilMask(mask uint32) { r.record("SetStencilMask", mask) }

func (r *Recorder) SetScissor(x, y, width, height int32) {
	r.record("SetScissor", x, y, width, height)
}

func (r *Recorder) SetMaterial(m *gfx.Material) { r.record("SetMaterial", *m) }

func (r *Recorder) SetFog(f *gfx.Fog) { r.record("SetFog", *f) }

func (r *Recorder) SetLight(index int, l *gfx.LightParams) {
	if l == nil {
		delete(r.Lights, index)
		r.record("SetLight", index, nil)
		return
	}
	r.Lights[index] = *l
	r.record("SetLight", index, *l)
}

func (r *Recorder) SetClipPlane(index int, eq *mgl32.Vec4) {
	if eq == nil {
		delete(r.ClipPlanes, index)
		r.record("SetClipPlane", index, nil)
		return
	}
	r.ClipPlanes[index] = *eq
	r.record("SetClipPlane", index, *eq)
}

func (r *Recorder) BindTexture(unit int, t gfx.Texture, s gfx.Sampler) {
	if t == nil {
		delete(r.Textures, unit)
	} else {
		r.Textures[unit] = t
	}
	r.record("BindTexture", unit, t, s)
}

func (r *Recorder) UseProgram(p gfx.Program) {
	r.Program = p
	r.record("UseProgram", p)
}

func (r *Recorder) SetUniform(p gfx.Program, u gfx.Uniform) {
	r.record("SetUniform", p, u)
}

func (r *Recorder) DrawMesh(m *gfx.Mesh, textureUnits uint32) {
	enabled := make(map[gfx.Capability]bool, len(r.Enabled))
	for k, v := range r.Enabled {
		enabled[k] = v
	}
	textures := make(map[int]gfx.Texture, len(r.Textures))
	for k, v := range r.Textures {
		textures[k] = v
	}
	r.Draws = append(r.Draws, Draw{
		Mesh:         m,
		TextureUnits: textureUnits,
		ModelView:    r.ModelView,
		Program:      r.Program,
		Enabled:      enabled,
		DepthMask:    r.DepthMask,
		Textures:     textures,
		Lights:       len(r.Lights),
		ClipPlanes:   len(r.ClipPlanes),
	})
	r.record("DrawMesh", m, textureUnits)
}

// Program is a named stand-in for a compiled program.
type Program string

func (p Program) Name() string { return string(p) }

var _ gfx.Device = (*Recorder)(nil)
