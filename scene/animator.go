package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenAnimator moves an actor's transform between two translations. With
// PingPong it reverses at each end instead of stopping.
type TweenAnimator struct {
	From, To mgl32.Vec3
	PingPong bool
	Done     bool

	duration float32
	fn       ease.TweenFunc
	tweens   [3]*gween.Tween
	forward  bool
}

func NewTweenAnimator(from, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenAnimator {
	if fn == nil {
		fn = ease.Linear
	}
	t := &TweenAnimator{From: from, To: to, duration: duration, fn: fn, forward: true}
	t.start(from, to)
	return t
}

func (t *TweenAnimator) start(from, to mgl32.Vec3) {
	for i := range t.tweens {
		t.tweens[i] = gween.New(from[i], to[i], t.duration, t.fn)
	}
}

func (t *TweenAnimator) UpdateActor(a *Actor, lod int, now, dt float64) {
	if t.Done || a.Transform == nil {
		return
	}
	var pos mgl32.Vec3
	finished := true
	for i, tw := range t.tweens {
		v, done := tw.Update(float32(dt))
		pos[i] = v
		finished = finished && done
	}
	a.Transform.SetTranslation(pos)
	if !finished {
		return
	}
	if !t.PingPong {
		t.Done = true
		return
	}
	t.forward = !t.forward
	if t.forward {
		t.start(t.From, t.To)
	} else {
		t.start(t.To, t.From)
	}
}

// MorphAnimator cycles a MorphGeometry through its frames at FPS frames per
// second, looping.
type MorphAnimator struct {
	Geometry *MorphGeometry
	FPS      float64

	phase float64
}

func (m *MorphAnimator) UpdateActor(a *Actor, lod int, now, dt float64) {
	n := len(m.Geometry.Frames)
	if n < 2 || m.FPS <= 0 {
		return
	}
	m.phase += dt * m.FPS
	for m.phase >= float64(n) {
		m.phase -= float64(n)
	}
	i := int(m.phase)
	m.Geometry.Blend(i, (i+1)%n, float32(m.phase-float64(i)))
}
