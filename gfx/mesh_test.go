package gfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"render-pipeline/core"
)

func TestMeshBounds(t *testing.T) {
	_, _, ok := (&Mesh{}).Bounds()
	assert.False(t, ok)

	min, max, ok := Cube(2).Bounds()
	assert.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, min)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, max)
}

func TestCubeTopology(t *testing.T) {
	m := Cube(1)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	for _, i := range m.Indices {
		assert.Less(t, int(i), len(m.Vertices))
	}
}

func TestTouchBumpsRevision(t *testing.T) {
	m := Quad(1)
	r := m.Revision()
	m.Touch()
	assert.Equal(t, r+1, m.Revision())

	img := NewSolidImage("red", core.ColorRed)
	assert.Equal(t, []byte{255, 0, 0, 255}, img.RGBA())
	w, h := img.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestCapabilityString(t *testing.T) {
	assert.Equal(t, "DepthTest", EnableDepthTest.String())
	assert.Equal(t, "Capability(99)", Capability(99).String())
}

func TestSphere(t *testing.T) {
	m := Sphere(2, 8, 4)
	assert.Len(t, m.Vertices, 9*5)
	assert.Len(t, m.Indices, 8*4*6)
	min, max, _ := m.Bounds()
	assert.InDelta(t, -2, min[1], 1e-5)
	assert.InDelta(t, 2, max[1], 1e-5)
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, v.Position.Len(), 1e-5)
	}

	clamped := Sphere(1, 0, 0)
	assert.Len(t, clamped.Vertices, 4*3)
}

func TestPlane(t *testing.T) {
	m := Plane(4, 2, 2)
	assert.Len(t, m.Vertices, 9)
	assert.Len(t, m.Indices, 2*2*6)
	min, max, _ := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-2, 0, -1}, min)
	assert.Equal(t, mgl32.Vec3{2, 0, 1}, max)
}

func TestGrid(t *testing.T) {
	m := Grid(10, 4)
	assert.Equal(t, PrimitiveLines, m.Primitive)
	assert.Len(t, m.Vertices, 5*2*2)
	assert.Len(t, m.Indices, 5*2*2)
	min, max, _ := m.Bounds()
	assert.Equal(t, mgl32.Vec3{-5, 0, -5}, min)
	assert.Equal(t, mgl32.Vec3{5, 0, 5}, max)

	// The center lines carry the axis colors.
	assert.Equal(t, [4]float32{0.15, 0.35, 0.9, 1}, m.Vertices[8].Color)
	assert.Equal(t, [4]float32{0.8, 0.15, 0.15, 1}, m.Vertices[10].Color)
}
