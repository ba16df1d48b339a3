package gfx

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/core"
)

// Texture is an image a Device can bind. Decoding is done by loaders; the
// device uploads lazily on first bind and re-uploads when Revision changes.
type Texture interface {
	Name() string
	Size() (width, height int)
	RGBA() []byte
	Revision() uint64
}

// Image is a CPU-side RGBA8 texture.
type Image struct {
	Label  string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major, top-to-bottom).
	Pixels   []byte
	revision uint64
}

func NewSolidImage(name string, c core.Color) *Image {
	return &Image{
		Label:  name,
		Width:  1,
		Height: 1,
		Pixels: []byte{to8(c.R), to8(c.G), to8(c.B), to8(c.A)},
	}
}

func to8(v float32) byte {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + 0.5)
}

func (i *Image) Name() string              { return i.Label }
func (i *Image) Size() (width, height int) { return i.Width, i.Height }
func (i *Image) RGBA() []byte              { return i.Pixels }
func (i *Image) Revision() uint64          { return i.revision }

// Touch marks the pixels as modified so devices re-upload them.
func (i *Image) Touch() { i.revision++ }

// Sampler holds per-unit sampling parameters.
type Sampler struct {
	Filter TextureFilter
	Wrap   TextureWrap
}

// Program is a compiled GPU program owned by a Device implementation.
type Program interface {
	Name() string
}

// Uniform is a named value pushed into a Program. Value holds one of
// float32, int32, mgl32.Vec2, mgl32.Vec3, mgl32.Vec4, mgl32.Mat4, core.Color.
type Uniform struct {
	Name  string
	Value any
}

// Material is the fixed-function style surface description.
type Material struct {
	Ambient   core.Color
	Diffuse   core.Color
	Specular  core.Color
	Emission  core.Color
	Shininess float32
}

func DefaultMaterial() Material {
	return Material{
		Ambient:   core.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		Diffuse:   core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1},
		Specular:  core.ColorBlack,
		Emission:  core.ColorBlack,
		Shininess: 0,
	}
}

type Fog struct {
	Mode    FogMode
	Color   core.Color
	Density float32
	Start   float32
	End     float32
}

func DefaultFog() Fog {
	return Fog{Mode: FogExp, Color: core.ColorBlack, Density: 1, Start: 0, End: 1}
}

// LightParams describes one light. Position.W == 0 means a directional light.
type LightParams struct {
	Ambient              core.Color
	Diffuse              core.Color
	Specular             core.Color
	Position             mgl32.Vec4
	SpotDirection        mgl32.Vec3
	SpotCutoff           float32 // degrees; 180 disables the cone
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32
}

func DefaultLightParams() LightParams {
	return LightParams{
		Ambient:             core.ColorBlack,
		Diffuse:             core.ColorWhite,
		Specular:            core.ColorWhite,
		Position:            mgl32.Vec4{0, 0, 1, 0},
		SpotDirection:       mgl32.Vec3{0, 0, -1},
		SpotCutoff:          180,
		ConstantAttenuation: 1,
	}
}
