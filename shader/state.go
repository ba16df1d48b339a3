package shader

import (
	"sync/atomic"

	"render-pipeline/gfx"
)

const (
	MaxTextureUnits = 8
	MaxLights       = 8
	MaxClipPlanes   = 6
)

var shaderIDCounter atomic.Uint64

type enableSlot struct {
	set  bool
	on   bool
	mode InheritMode
}

type stateSlot struct {
	value State
	mode  InheritMode
}

type unitSlot struct {
	unit *TextureUnit
	mode InheritMode
}

// ShaderState is the graphics state declared by a scene node, or the
// resolved state of that node after inheritance. Every slot is optional and
// carries its own InheritMode.
type ShaderState struct {
	id      uint64
	enables [gfx.NumCapabilities]enableSlot
	states  [NumStateTypes]stateSlot
	units   [MaxTextureUnits]unitSlot
	lights  []*Light
	planes  []*ClipPlane

	// InheritLights prepends the parent's resolved lights to this node's own.
	InheritLights bool
	// InheritClipPlanes does the same for clip planes.
	InheritClipPlanes bool
}

func NewShaderState() *ShaderState {
	return &ShaderState{
		id:                shaderIDCounter.Add(1),
		InheritLights:     true,
		InheritClipPlanes: true,
	}
}

// ID is unique per process; sorters use it as the shader identity.
func (s *ShaderState) ID() uint64 { return s.id }

// Enable switches capability c on with the given mode.
func (s *ShaderState) Enable(c gfx.Capability, mode InheritMode) *ShaderState {
	s.enables[c] = enableSlot{set: true, on: true, mode: mode}
	return s
}

// Disable declares capability c explicitly off. This differs from Unset: an
// explicit off still takes part in inheritance.
func (s *ShaderState) Disable(c gfx.Capability, mode InheritMode) *ShaderState {
	s.enables[c] = enableSlot{set: true, on: false, mode: mode}
	return s
}

// Unset removes any declaration for c.
func (s *ShaderState) Unset(c gfx.Capability) {
	s.enables[c] = enableSlot{}
}

// IsEnabled is true only for a declared "on" entry.
func (s *ShaderState) IsEnabled(c gfx.Capability) bool {
	e := s.enables[c]
	return e.set && e.on
}

// Declared reports whether c has an entry, on or off, and its mode.
func (s *ShaderState) Declared(c gfx.Capability) (bool, InheritMode) {
	e := s.enables[c]
	return e.set, e.mode
}

// Set installs a render-state object in its slot.
func (s *ShaderState) Set(st State, mode InheritMode) *ShaderState {
	s.states[st.Type()] = stateSlot{value: st, mode: mode}
	return s
}

func (s *ShaderState) Remove(t StateType) {
	s.states[t] = stateSlot{}
}

// Get returns the state object of type t, or nil.
func (s *ShaderState) Get(t StateType) State {
	return s.states[t].value
}

func (s *ShaderState) Mode(t StateType) InheritMode {
	return s.states[t].mode
}

// DepthWrite reports whether depth writes are on. An absent DepthMask means on.
func (s *ShaderState) DepthWrite() bool {
	if m, ok := s.states[StateDepthMask].value.(*DepthMask); ok {
		return m.Write
	}
	return true
}

// Blended reports whether blending is on.
func (s *ShaderState) Blended() bool {
	return s.IsEnabled(gfx.EnableBlend)
}

// Program returns the bound GPU program state or nil for the fixed pipeline.
func (s *ShaderState) Program() *Program {
	p, _ := s.states[StateProgram].value.(*Program)
	return p
}

func (s *ShaderState) Material() *Material {
	m, _ := s.states[StateMaterial].value.(*Material)
	return m
}

func (s *ShaderState) SetTextureUnit(i int, u *TextureUnit, mode InheritMode) *ShaderState {
	s.units[i] = unitSlot{unit: u, mode: mode}
	return s
}

func (s *ShaderState) RemoveTextureUnit(i int) {
	s.units[i] = unitSlot{}
}

func (s *ShaderState) TextureUnit(i int) *TextureUnit {
	return s.units[i].unit
}

// TextureMask has bit i set for every active texture unit.
func (s *ShaderState) TextureMask() uint32 {
	var mask uint32
	for i, slot := range s.units {
		if slot.unit.Active() {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// AddLight appends l and reports false when MaxLights is reached.
func (s *ShaderState) AddLight(l *Light) bool {
	if len(s.lights) >= MaxLights {
		return false
	}
	s.lights = append(s.lights, l)
	return true
}

func (s *ShaderState) RemoveLight(l *Light) {
	for i, x := range s.lights {
		if x == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *ShaderState) Lights() []*Light { return s.lights }

// AddClipPlane appends p and reports false when MaxClipPlanes is reached.
func (s *ShaderState) AddClipPlane(p *ClipPlane) bool {
	if len(s.planes) >= MaxClipPlanes {
		return false
	}
	s.planes = append(s.planes, p)
	return true
}

func (s *ShaderState) RemoveClipPlane(p *ClipPlane) {
	for i, x := range s.planes {
		if x == p {
			s.planes = append(s.planes[:i], s.planes[i+1:]...)
			return
		}
	}
}

func (s *ShaderState) ClipPlanes() []*ClipPlane { return s.planes }
