package shader

import (
	"render-pipeline/gfx"
)

// Tracker mirrors what has been sent to a Device so that applying a shader
// only issues calls for slots whose value changed since the last apply.
type Tracker struct {
	dev     gfx.Device
	current *ShaderState

	known   [gfx.NumCapabilities]bool
	enabled [gfx.NumCapabilities]bool
	states  [NumStateTypes]State
	program bool
	units   [MaxTextureUnits]*TextureUnit
	bound   [MaxTextureUnits]bool

	// Applies counts Apply calls that were not no-ops.
	Applies int
	// Changes counts device calls issued by Apply.
	Changes int
}

func NewTracker(dev gfx.Device) *Tracker {
	return &Tracker{dev: dev}
}

// Reset forgets everything known about the device. The next Apply issues
// every slot.
func (t *Tracker) Reset() {
	dev := t.dev
	*t = Tracker{dev: dev}
}

func (t *Tracker) Device() gfx.Device { return t.dev }

// Current is the last applied shader.
func (t *Tracker) Current() *ShaderState { return t.current }

// Apply brings the device to state s. It returns false without touching
// the device when s is already current.
func (t *Tracker) Apply(s *ShaderState) bool {
	if s == t.current {
		return false
	}
	t.current = s
	t.Applies++

	for c := gfx.Capability(0); c < gfx.NumCapabilities; c++ {
		on := s.IsEnabled(c)
		if t.known[c] && t.enabled[c] == on {
			continue
		}
		t.dev.SetEnabled(c, on)
		t.known[c], t.enabled[c] = true, on
		t.Changes++
	}

	for st := StateType(0); st < NumStateTypes; st++ {
		v := s.states[st].value
		if v == nil {
			v = baseline.states[st].value
		}
		if st == StateProgram {
			t.applyProgram(v)
			continue
		}
		if v == t.states[st] {
			continue
		}
		v.Apply(t.dev)
		t.states[st] = v
		t.Changes++
	}

	for i := range s.units {
		u := s.units[i].unit
		if t.bound[i] && u == t.units[i] {
			continue
		}
		if !u.Active() {
			t.dev.BindTexture(i, nil, gfx.Sampler{})
		} else {
			t.dev.BindTexture(i, u.Texture, u.Sampler)
		}
		t.units[i], t.bound[i] = u, true
		t.Changes++
	}
	return true
}

func (t *Tracker) applyProgram(v State) {
	if v == nil {
		if t.program && t.states[StateProgram] == nil {
			return
		}
		t.dev.UseProgram(nil)
		t.states[StateProgram], t.program = nil, true
		t.Changes++
		return
	}
	if v == t.states[StateProgram] {
		return
	}
	v.Apply(t.dev)
	t.states[StateProgram], t.program = v, true
	t.Changes++
}
