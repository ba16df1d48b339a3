package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
)

// orbit circles the camera around the scene center. Left/right change the
// yaw, up/down the distance.
type orbit struct {
	yaw      float32 // degrees
	pitch    float32 // degrees
	distance float32
	speed    float32 // degrees per second
	auto     bool
}

func newOrbit() *orbit {
	return &orbit{yaw: -90, pitch: 25, distance: 70, speed: 60, auto: true}
}

func (o *orbit) update(w *core.Window, dt float32) {
	// Long frames would make the camera jump.
	dt = min(dt, 0.05)
	manual := false
	if w.IsKeyPressed(core.KeyLeft) {
		o.yaw -= o.speed * dt
		manual = true
	}
	if w.IsKeyPressed(core.KeyRight) {
		o.yaw += o.speed * dt
		manual = true
	}
	if w.IsKeyPressed(core.KeyUp) {
		o.distance = max(o.distance-o.distance*dt, 5)
	}
	if w.IsKeyPressed(core.KeyDown) {
		o.distance = min(o.distance+o.distance*dt, 300)
	}
	if manual {
		o.auto = false
	}
	if o.auto {
		o.yaw += 6 * dt
	}
}

func (o *orbit) eye() mgl32.Vec3 {
	yaw, pitch := mgl32.DegToRad(o.yaw), mgl32.DegToRad(o.pitch)
	return mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}.Mul(o.distance)
}

// keys turns key state into press events.
type keys struct {
	w    *core.Window
	down map[int]bool
}

func newKeys(w *core.Window) *keys {
	return &keys{w: w, down: map[int]bool{}}
}

// pressed reports whether key went down since the previous call.
func (k *keys) pressed(key int) bool {
	now := k.w.IsKeyPressed(key)
	was := k.down[key]
	k.down[key] = now
	return now && !was
}
