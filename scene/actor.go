package scene

import (
	"sync/atomic"

	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/gfx"
)

var actorIDCounter atomic.Uint64

// ActorUpdater is the per-frame animation hook of an Actor. dt is the time
// since the actor's previous update, zero on the first one.
type ActorUpdater interface {
	UpdateActor(a *Actor, lod int, now, dt float64)
}

// ActorUpdaterFunc adapts a function to ActorUpdater.
type ActorUpdaterFunc func(a *Actor, lod int, now, dt float64)

func (f ActorUpdaterFunc) UpdateActor(a *Actor, lod int, now, dt float64) { f(a, lod, now, dt) }

// Actor is one placed instance of a Drawable. The transform is shared, not
// owned: several actors may reference the same one.
type Actor struct {
	Name       string
	Transform  *geom.Transform
	RenderRank int
	Enabled    bool

	Updater     ActorUpdater
	OnPreRender func(a *Actor, cam *Camera)

	id         uint64
	drawables  []Drawable
	painter    *Painter
	activeLOD  int
	lastUpdate float64
	updated    bool
	uniforms   []gfx.Uniform
}

// NewActor creates an enabled actor with d as LOD 0. d may be nil; such an
// actor is kept in the pipeline but never draws.
func NewActor(d Drawable, t *geom.Transform) *Actor {
	return &Actor{
		Transform: t,
		Enabled:   true,
		id:        actorIDCounter.Add(1),
		drawables: []Drawable{d},
	}
}

func (a *Actor) ID() uint64 { return a.id }

// Painter is the painter that owns the actor, or nil.
func (a *Actor) Painter() *Painter { return a.painter }

// SetDrawable installs d at lod, growing the LOD array as needed.
func (a *Actor) SetDrawable(lod int, d Drawable) {
	core.Check(lod >= 0, "negative LOD", zap.Int("lod", lod))
	for len(a.drawables) <= lod {
		a.drawables = append(a.drawables, nil)
	}
	a.drawables[lod] = d
}

func (a *Actor) LODCount() int { return len(a.drawables) }

func (a *Actor) Drawable(lod int) Drawable {
	core.Check(lod >= 0 && lod < len(a.drawables), "drawable LOD out of range",
		zap.Int("lod", lod), zap.Int("count", len(a.drawables)))
	if lod < 0 || lod >= len(a.drawables) {
		return nil
	}
	return a.drawables[lod]
}

func (a *Actor) ActiveLOD() int { return a.activeLOD }

// SetActiveLOD clamps lod to the available drawables.
func (a *Actor) SetActiveLOD(lod int) {
	if lod >= len(a.drawables) {
		lod = len(a.drawables) - 1
	}
	if lod < 0 {
		lod = 0
	}
	a.activeLOD = lod
}

// ActiveDrawable is the drawable at the active LOD.
func (a *Actor) ActiveDrawable() Drawable {
	return a.Drawable(a.activeLOD)
}

// LocalAABB is the active drawable's box, empty without a drawable.
func (a *Actor) LocalAABB() geom.AABB {
	d := a.ActiveDrawable()
	if d == nil {
		return geom.EmptyAABB()
	}
	return d.AABB()
}

// WorldAABB uses the transform's cached world matrix, or the local box when
// the actor has no transform.
func (a *Actor) WorldAABB() geom.AABB {
	box := a.LocalAABB()
	if a.Transform == nil {
		return box
	}
	return box.Transform(a.Transform.World())
}

// SetUniform sets a per-actor override pushed to the program of the
// actor's resolved shader.
func (a *Actor) SetUniform(name string, value any) {
	for i := range a.uniforms {
		if a.uniforms[i].Name == name {
			a.uniforms[i].Value = value
			return
		}
	}
	a.uniforms = append(a.uniforms, gfx.Uniform{Name: name, Value: value})
}

func (a *Actor) Uniforms() []gfx.Uniform { return a.uniforms }

func (a *Actor) LastUpdate() float64 { return a.lastUpdate }

// Update runs the animation hook and records lod as the LOD in use.
func (a *Actor) Update(now float64, lod int) {
	dt := 0.0
	if a.updated {
		dt = now - a.lastUpdate
	}
	a.SetActiveLOD(lod)
	if a.Updater != nil {
		a.Updater.UpdateActor(a, a.activeLOD, now, dt)
	}
	a.lastUpdate, a.updated = now, true
}
