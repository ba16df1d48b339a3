package main

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"render-pipeline/core"
	"render-pipeline/shader"
)

// dayPalette is the sky and sun at one key time of day.
type dayPalette struct {
	t       float32 // normalized time 0..1
	sky     core.Color
	sun     core.Color
	ambient core.Color
}

// palettes is ordered by t and wraps: 0 is noon, 0.5 midnight.
var palettes = []dayPalette{
	{t: 0.00, sky: core.NewColor(0.58, 0.75, 0.95, 1), sun: core.NewColor(1.00, 0.98, 0.92, 1), ambient: core.NewColor(0.16, 0.18, 0.26, 1)},
	{t: 0.22, sky: core.NewColor(0.90, 0.52, 0.18, 1), sun: core.NewColor(1.00, 0.65, 0.25, 1), ambient: core.NewColor(0.10, 0.12, 0.20, 1)},
	{t: 0.30, sky: core.NewColor(0.50, 0.22, 0.28, 1), sun: core.NewColor(0.70, 0.40, 0.55, 1), ambient: core.NewColor(0.06, 0.07, 0.14, 1)},
	{t: 0.50, sky: core.NewColor(0.04, 0.04, 0.08, 1), sun: core.NewColor(0.30, 0.34, 0.50, 1), ambient: core.NewColor(0.03, 0.04, 0.09, 1)},
	{t: 0.70, sky: core.NewColor(0.40, 0.18, 0.24, 1), sun: core.NewColor(0.75, 0.42, 0.60, 1), ambient: core.NewColor(0.06, 0.07, 0.14, 1)},
	{t: 0.78, sky: core.NewColor(0.88, 0.45, 0.22, 1), sun: core.NewColor(1.00, 0.60, 0.28, 1), ambient: core.NewColor(0.09, 0.10, 0.17, 1)},
}

// DayNight cycles the sun light, fog color and clear color.
type DayNight struct {
	Time   float32 // 0..1
	Period float32 // seconds per full cycle
	Active bool

	sun *shader.Light
	fog *shader.Fog
}

func NewDayNight(sun *shader.Light, fog *shader.Fog) *DayNight {
	return &DayNight{Period: 120, Active: true, sun: sun, fog: fog}
}

// Update advances the cycle by dt seconds and returns the sky color.
func (dn *DayNight) Update(dt float32) core.Color {
	if dn.Active && dn.Period > 0 {
		dn.Time += dt / dn.Period
		for dn.Time >= 1 {
			dn.Time--
		}
	}
	p := dn.sample()

	// The sun circles in the XY plane, below the horizon at night.
	angle := dn.Time * 2 * math32.Pi
	dn.sun.Params.Position = mgl32.Vec4{math32.Sin(angle) * 0.6, math32.Cos(angle), 0.4, 0}
	dn.sun.Params.Diffuse = p.sun
	dn.sun.Params.Specular = p.sun
	dn.sun.Params.Ambient = p.ambient
	dn.fog.Color = p.sky
	return p.sky
}

// sample blends the two palettes around Time with a smoothstep.
func (dn *DayNight) sample() dayPalette {
	n := len(palettes)
	i := n - 1
	for j := range palettes {
		if palettes[j].t > dn.Time {
			i = j - 1
			break
		}
	}
	if i < 0 {
		i = n - 1
	}
	a, b := palettes[i], palettes[(i+1)%n]
	span := b.t - a.t
	if span <= 0 {
		span += 1
	}
	local := dn.Time - a.t
	if local < 0 {
		local += 1
	}
	f := ease.InOutQuad(local/span, 0, 1, 1)
	return dayPalette{
		t:       dn.Time,
		sky:     mix(a.sky, b.sky, f),
		sun:     mix(a.sun, b.sun, f),
		ambient: mix(a.ambient, b.ambient, f),
	}
}

func mix(a, b core.Color, f float32) core.Color {
	return core.NewColor(a.R+(b.R-a.R)*f, a.G+(b.G-a.G)*f, a.B+(b.B-a.B)*f, a.A+(b.A-a.A)*f)
}
