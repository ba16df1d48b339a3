// Package opengl implements gfx.Device on an OpenGL 4.1 core context.
// Fixed-function state the core profile dropped (lighting, material, fog,
// user clip planes) is emulated by a built-in program; the rest maps to
// GL calls one to one. All methods must run on the thread owning the
// context.
package opengl

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/gfx"
)

const (
	maxLights     = 8
	maxClipPlanes = 6
	maxUnits      = 8
)

type eyeLight struct {
	on        bool
	position  mgl32.Vec4
	direction mgl32.Vec3
	cosCutoff float32
	params    gfx.LightParams
}

// Device is the OpenGL backend.
type Device struct {
	log   *zap.Logger
	fixed *Program
	// program is the installed user program, nil for the built-in one.
	program *Program

	projection mgl32.Mat4
	modelView  mgl32.Mat4

	lighting bool
	fog      bool
	material gfx.Material
	fogState gfx.Fog
	lights   [maxLights]eyeLight
	planes   [maxClipPlanes]mgl32.Vec4
	dirty    bool

	bound    [maxUnits]bool
	meshes   map[*gfx.Mesh]*gpuMesh
	textures map[gfx.Texture]*gpuTexture
}

// New loads the GL entry points for the current context and builds the
// built-in program.
func New(logger *zap.Logger) (*Device, error) {
	if logger == nil {
		logger = core.Log.Named("opengl")
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	fixed, err := newProgram("fixed-function", fixedVertSrc, fixedFragSrc)
	if err != nil {
		return nil, fmt.Errorf("built-in program: %w", err)
	}
	d := &Device{
		log:        logger,
		fixed:      fixed,
		projection: mgl32.Ident4(),
		modelView:  mgl32.Ident4(),
		material:   gfx.DefaultMaterial(),
		fogState:   gfx.DefaultFog(),
		dirty:      true,
		meshes:     map[*gfx.Mesh]*gpuMesh{},
		textures:   map[gfx.Texture]*gpuTexture{},
	}
	gl.UseProgram(fixed.id)
	fixed.setUniform("u_texture0", int32(0))
	return d, nil
}

// CompileProgram builds a user program for shader.Program states. Vertex
// shaders receive u_modelView, u_projection and u_normalMatrix when they
// declare them; attributes are bound at locations 0-3 (position, normal,
// uv, color).
func (d *Device) CompileProgram(name, vertSrc, fragSrc string) (*Program, error) {
	p, err := newProgram(name, vertSrc, fragSrc)
	if err != nil {
		return nil, err
	}
	d.log.Debug("program compiled", zap.String("program", name))
	return p, nil
}

// DeleteProgram frees p. It must not be installed by any shader state.
func (d *Device) DeleteProgram(p *Program) {
	if p == d.program {
		d.UseProgram(nil)
	}
	gl.DeleteProgram(p.id)
}

// Destroy releases every GPU resource the device created.
func (d *Device) Destroy() {
	for m := range d.meshes {
		d.ReleaseMesh(m)
	}
	for t := range d.textures {
		d.ReleaseTexture(t)
	}
	gl.DeleteProgram(d.fixed.id)
}

func (d *Device) SetViewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Device) Clear(color core.Color, depth float32, flags gfx.ClearFlags) {
	var bits uint32
	if flags&gfx.ClearColor != 0 {
		gl.ClearColor(color.R, color.G, color.B, color.A)
		bits |= gl.COLOR_BUFFER_BIT
	}
	if flags&gfx.ClearDepth != 0 {
		gl.ClearDepth(float64(depth))
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if flags&gfx.ClearStencil != 0 {
		gl.ClearStencil(0)
		bits |= gl.STENCIL_BUFFER_BIT
	}
	if bits != 0 {
		gl.Clear(bits)
	}
}

func (d *Device) SetProjection(m mgl32.Mat4) { d.projection = m }
func (d *Device) SetModelView(m mgl32.Mat4)  { d.modelView = m }

func (d *Device) SetEnabled(c gfx.Capability, on bool) {
	switch c {
	case gfx.EnableLighting:
		d.lighting = on
		d.dirty = true
		return
	case gfx.EnableFog:
		d.fog = on
		d.dirty = true
		return
	}
	if c < 0 || c >= gfx.NumCapabilities {
		return
	}
	if on {
		gl.Enable(capabilities[c])
	} else {
		gl.Disable(capabilities[c])
	}
}

func (d *Device) SetBlendFunc(srcRGB, dstRGB, srcAlpha, dstAlpha gfx.BlendFactor) {
	gl.BlendFuncSeparate(blendFactors[srcRGB], blendFactors[dstRGB], blendFactors[srcAlpha], blendFactors[dstAlpha])
}

func (d *Device) SetBlendEquation(rgb, alpha gfx.BlendEquation) {
	gl.BlendEquationSeparate(blendEquations[rgb], blendEquations[alpha])
}

func (d *Device) SetBlendColor(c core.Color) { gl.BlendColor(c.R, c.G, c.B, c.A) }

func (d *Device) SetDepthFunc(f gfx.CompareFunc) { gl.DepthFunc(compareFuncs[f]) }
func (d *Device) SetDepthMask(write bool)        { gl.DepthMask(write) }

func (d *Device) SetDepthRange(near, far float32) {
	gl.DepthRange(float64(near), float64(far))
}

func (d *Device) SetColorMask(r, g, b, a bool) { gl.ColorMask(r, g, b, a) }

func (d *Device) SetCullFace(f gfx.Face)     { gl.CullFace(faces[f]) }
func (d *Device) SetFrontFace(w gfx.Winding) { gl.FrontFace(windings[w]) }

// SetPolygonMode applies to both faces; core profiles have no per-face mode.
func (d *Device) SetPolygonMode(m gfx.PolygonMode) {
	gl.PolygonMode(gl.FRONT_AND_BACK, polygonModes[m])
}

func (d *Device) SetPolygonOffset(factor, units float32) {
	gl.PolygonOffset(factor, units)
}

// SetLineWidth is clamped to 1; core profiles reject wide lines.
func (d *Device) SetLineWidth(w float32) { gl.LineWidth(min(w, 1)) }
func (d *Device) SetPointSize(s float32) { gl.PointSize(s) }

func (d *Device) SetStencilFunc(f gfx.CompareFunc, ref int32, mask uint32) {
	gl.StencilFunc(compareFuncs[f], ref, mask)
}

func (d *Device) SetStencilOp(sfail, dpfail, dppass gfx.StencilOp) {
	gl.StencilOp(stencilOps[sfail], stencilOps[dpfail], stencilOps[dppass])
}

func (d *Device) SetStencilMask(mask uint32) { gl.StencilMask(mask) }

func (d *Device) SetScissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (d *Device) SetMaterial(m *gfx.Material) {
	d.material = *m
	d.dirty = true
}

func (d *Device) SetFog(f *gfx.Fog) {
	d.fogState = *f
	d.dirty = true
}

// SetLight stores l in eye space using the current model-view matrix.
func (d *Device) SetLight(index int, l *gfx.LightParams) {
	if index < 0 || index >= maxLights {
		return
	}
	d.dirty = true
	if l == nil {
		d.lights[index].on = false
		return
	}
	cos := float32(-2)
	if l.SpotCutoff < 180 {
		cos = math32.Cos(mgl32.DegToRad(l.SpotCutoff))
	}
	d.lights[index] = eyeLight{
		on:        true,
		position:  d.modelView.Mul4x1(l.Position),
		direction: d.modelView.Mat3().Mul3x1(l.SpotDirection),
		cosCutoff: cos,
		params:    *l,
	}
}

// SetClipPlane stores eq in eye space using the current model-view matrix.
func (d *Device) SetClipPlane(index int, eq *mgl32.Vec4) {
	if index < 0 || index >= maxClipPlanes {
		return
	}
	d.dirty = true
	if eq == nil {
		d.planes[index] = mgl32.Vec4{}
		gl.Disable(gl.CLIP_DISTANCE0 + uint32(index))
		return
	}
	d.planes[index] = d.modelView.Inv().Transpose().Mul4x1(*eq)
	gl.Enable(gl.CLIP_DISTANCE0 + uint32(index))
}

func (d *Device) BindTexture(unit int, t gfx.Texture, s gfx.Sampler) {
	if unit < 0 || unit >= maxUnits {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	d.bound[unit] = false
	if t == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	g := d.texture(t)
	if g == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		return
	}
	g.sample(s)
	d.bound[unit] = true
}

func (d *Device) UseProgram(p gfx.Program) {
	switch p := p.(type) {
	case nil:
		d.program = nil
		gl.UseProgram(d.fixed.id)
	case *Program:
		d.program = p
		gl.UseProgram(p.id)
	default:
		core.Bug("program from another device", zap.String("program", p.Name()))
		d.program = nil
		gl.UseProgram(d.fixed.id)
	}
}

func (d *Device) SetUniform(p gfx.Program, u gfx.Uniform) {
	pr, ok := p.(*Program)
	if !ok {
		return
	}
	if pr != d.program {
		gl.UseProgram(pr.id)
		defer gl.UseProgram(d.current().id)
	}
	if !pr.setUniform(u.Name, u.Value) {
		d.log.Debug("uniform ignored", zap.String("program", pr.name), zap.String("uniform", u.Name))
	}
}

func (d *Device) current() *Program {
	if d.program != nil {
		return d.program
	}
	return d.fixed
}

func (d *Device) DrawMesh(m *gfx.Mesh, textureUnits uint32) {
	if m == nil {
		return
	}
	g := d.mesh(m)
	if g == nil {
		return
	}
	p := d.current()
	if p == d.fixed {
		d.uploadFixed(textureUnits)
	}
	p.setUniform("u_modelView", d.modelView)
	p.setUniform("u_projection", d.projection)
	p.setUniform("u_normalMatrix", d.modelView.Mat3().Inv().Transpose())

	prim := primitives[gfx.PrimitiveTriangles]
	if int(m.Primitive) < len(primitives) {
		prim = primitives[m.Primitive]
	}
	gl.BindVertexArray(g.vao)
	if g.indexed {
		gl.DrawElements(prim, g.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(prim, 0, g.count)
	}
	gl.BindVertexArray(0)
}

var (
	lightPosition  [maxLights]string
	lightDirection [maxLights]string
	lightCutoff    [maxLights]string
	lightAmbient   [maxLights]string
	lightDiffuse   [maxLights]string
	lightSpecular  [maxLights]string
	lightAtten     [maxLights]string
	clipPlane      [maxClipPlanes]string
)

func init() {
	for i := range maxLights {
		lightPosition[i] = fmt.Sprintf("u_lightPosition[%d]", i)
		lightDirection[i] = fmt.Sprintf("u_lightSpotDirection[%d]", i)
		lightCutoff[i] = fmt.Sprintf("u_lightSpotCosCutoff[%d]", i)
		lightAmbient[i] = fmt.Sprintf("u_lightAmbient[%d]", i)
		lightDiffuse[i] = fmt.Sprintf("u_lightDiffuse[%d]", i)
		lightSpecular[i] = fmt.Sprintf("u_lightSpecular[%d]", i)
		lightAtten[i] = fmt.Sprintf("u_lightAttenuation[%d]", i)
	}
	for i := range maxClipPlanes {
		clipPlane[i] = fmt.Sprintf("u_clipPlanes[%d]", i)
	}
}

// uploadFixed pushes the emulated fixed-function state into the built-in
// program. Enabled lights are packed to the front of the uniform arrays.
func (d *Device) uploadFixed(textureUnits uint32) {
	p := d.fixed
	p.setUniform("u_useTexture0", textureUnits&1 != 0 && d.bound[0])
	if !d.dirty {
		return
	}
	p.setUniform("u_lighting", d.lighting)
	n := 0
	for _, l := range d.lights {
		if !l.on {
			continue
		}
		lp := l.params
		p.setUniform(lightPosition[n], l.position)
		p.setUniform(lightDirection[n], l.direction)
		p.setUniform(lightCutoff[n], l.cosCutoff)
		p.setUniform(lightAmbient[n], lp.Ambient)
		p.setUniform(lightDiffuse[n], lp.Diffuse)
		p.setUniform(lightSpecular[n], lp.Specular)
		p.setUniform(lightAtten[n], mgl32.Vec3{lp.ConstantAttenuation, lp.LinearAttenuation, lp.QuadraticAttenuation})
		n++
	}
	p.setUniform("u_lightCount", int32(n))

	m := d.material
	p.setUniform("u_matAmbient", m.Ambient)
	p.setUniform("u_matDiffuse", m.Diffuse)
	p.setUniform("u_matSpecular", m.Specular)
	p.setUniform("u_matEmission", m.Emission)
	p.setUniform("u_matShininess", m.Shininess)

	f := d.fogState
	p.setUniform("u_fog", d.fog)
	p.setUniform("u_fogMode", int32(f.Mode))
	p.setUniform("u_fogColor", f.Color)
	p.setUniform("u_fogDensity", f.Density)
	p.setUniform("u_fogStart", f.Start)
	p.setUniform("u_fogEnd", f.End)

	for i, eq := range d.planes {
		p.setUniform(clipPlane[i], eq)
	}
	d.dirty = false
}

func zapMesh(m *gfx.Mesh) zap.Field {
	return zap.Dict("mesh",
		zap.String("name", m.Name),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("indices", len(m.Indices)))
}
