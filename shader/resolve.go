package shader

var emptyState ShaderState

// ResolveFrom overwrites s with the resolution of own against the parent's
// already resolved state. A nil parent resolves against nothing. s keeps its
// identity so it can be reused as a node's final state frame after frame.
func (s *ShaderState) ResolveFrom(own, parent *ShaderState) {
	if parent == nil {
		parent = &emptyState
	}

	for c := range s.enables {
		ce, pe := own.enables[c], parent.enables[c]
		switch Decide(ce.set, ce.mode, pe.set, pe.mode) {
		case Clear:
			s.enables[c] = enableSlot{}
		case Keep:
			s.enables[c] = ce
		case Inherit:
			s.enables[c] = pe
		}
	}

	for t := range s.states {
		cs, ps := own.states[t], parent.states[t]
		switch Decide(cs.value != nil, cs.mode, ps.value != nil, ps.mode) {
		case Clear:
			s.states[t] = stateSlot{}
		case Keep:
			s.states[t] = cs
		case Inherit:
			s.states[t] = ps
		}
	}

	for i := range s.units {
		cu, pu := own.units[i], parent.units[i]
		switch Decide(cu.unit != nil, cu.mode, pu.unit != nil, pu.mode) {
		case Clear:
			s.units[i] = unitSlot{}
		case Keep:
			s.units[i] = cu
		case Inherit:
			s.units[i] = pu
		}
	}

	s.lights = s.lights[:0]
	if own.InheritLights {
		s.lights = appendCapped(s.lights, parent.lights, MaxLights)
	}
	s.lights = appendCapped(s.lights, own.lights, MaxLights)

	s.planes = s.planes[:0]
	if own.InheritClipPlanes {
		s.planes = appendCapped(s.planes, parent.planes, MaxClipPlanes)
	}
	s.planes = appendCapped(s.planes, own.planes, MaxClipPlanes)

	s.InheritLights = own.InheritLights
	s.InheritClipPlanes = own.InheritClipPlanes
}

// Resolve returns a new state holding own resolved against parent.
func Resolve(own, parent *ShaderState) *ShaderState {
	s := NewShaderState()
	s.ResolveFrom(own, parent)
	return s
}

func appendCapped[T any](dst, src []T, limit int) []T {
	room := limit - len(dst)
	if room <= 0 {
		return dst
	}
	if len(src) > room {
		src = src[:room]
	}
	return append(dst, src...)
}
