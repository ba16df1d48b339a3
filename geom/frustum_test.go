package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// testFrustum looks down -Z from the origin with near 1 and far 100.
func testFrustum() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return FrustumFromMatrix(proj.Mul4(view))
}

func box(center mgl32.Vec3, half float32) AABB {
	h := mgl32.Vec3{half, half, half}
	return NewAABB(center.Sub(h), center.Add(h))
}

func TestFrustumPlanesPointInward(t *testing.T) {
	f := testFrustum()
	inside := mgl32.Vec3{0, 0, -10}
	for i, p := range f.Planes {
		assert.Greater(t, p.Distance(inside), float32(0), "plane %d", i)
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5, "plane %d not normalized", i)
	}
}

func TestFrustumCull(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name   string
		box    AABB
		culled bool
	}{
		{"inside", box(mgl32.Vec3{0, 0, -10}, 1), false},
		{"behind camera", box(mgl32.Vec3{0, 0, 10}, 1), true},
		{"beyond far plane", box(mgl32.Vec3{0, 0, -200}, 1), true},
		{"straddles far plane", box(mgl32.Vec3{0, 0, -100}, 5), false},
		{"far left", box(mgl32.Vec3{-50, 0, -10}, 1), true},
		{"far above", box(mgl32.Vec3{0, 50, -10}, 1), true},
		{"empty", EmptyAABB(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.culled, f.Cull(tt.box))
		})
	}
}

func TestFrustumContains(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.Contains(box(mgl32.Vec3{0, 0, -10}, 1)))
	assert.False(t, f.Contains(box(mgl32.Vec3{0, 0, -100}, 5)))
	assert.False(t, f.Contains(EmptyAABB()))
}

func TestPlaneIsOutside(t *testing.T) {
	p := PlaneFromPointNormal(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.True(t, p.IsOutside(box(mgl32.Vec3{0, -5, 0}, 1)))
	assert.False(t, p.IsOutside(box(mgl32.Vec3{0, -0.5, 0}, 1)))
	assert.False(t, p.IsOutside(box(mgl32.Vec3{0, 5, 0}, 1)))
}
