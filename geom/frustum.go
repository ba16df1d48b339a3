package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the half-space Normal·p + D >= 0.
// Normal points into the "inside" of whatever volume the plane bounds.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// NewPlane builds a normalized plane from the coefficients of ax+by+cz+d = 0.
func NewPlane(a, b, c, d float32) Plane {
	l := math32.Sqrt(a*a + b*b + c*c)
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: mgl32.Vec3{a / l, b / l, c / l}, D: d / l}
}

// PlaneFromPointNormal returns the plane through p facing n.
func PlaneFromPointNormal(p, n mgl32.Vec3) Plane {
	n = n.Normalize()
	return Plane{Normal: n, D: -n.Dot(p)}
}

// Distance is the signed distance from pt; positive means inside.
func (p Plane) Distance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Equation returns the plane as (a, b, c, d), the form clip-plane APIs take.
func (p Plane) Equation() mgl32.Vec4 {
	return mgl32.Vec4{p.Normal[0], p.Normal[1], p.Normal[2], p.D}
}

// IsOutside reports whether box lies strictly on the negative side.
// Only the corner furthest along the normal needs testing.
func (p Plane) IsOutside(box AABB) bool {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		if p.Normal[i] >= 0 {
			v[i] = box.Max[i]
		} else {
			v[i] = box.Min[i]
		}
	}
	return p.Distance(v) < 0
}

// isInside reports whether box lies entirely on the positive side.
func (p Plane) isInside(box AABB) bool {
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		if p.Normal[i] >= 0 {
			v[i] = box.Min[i]
		} else {
			v[i] = box.Max[i]
		}
	}
	return p.Distance(v) >= 0
}

// Frustum plane indices.
const (
	PlaneNear = iota
	PlaneFar
	PlaneLeft
	PlaneRight
	PlaneTop
	PlaneBottom
)

// Frustum holds six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the planes of a view-projection matrix
// (Gribb/Hartmann). mgl32 matrices are column-major, so clip row i is
// Row(i) of the matrix.
func FrustumFromMatrix(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	plane := func(v mgl32.Vec4) Plane { return NewPlane(v[0], v[1], v[2], v[3]) }

	var f Frustum
	f.Planes[PlaneNear] = plane(r3.Add(r2))
	f.Planes[PlaneFar] = plane(r3.Sub(r2))
	f.Planes[PlaneLeft] = plane(r3.Add(r0))
	f.Planes[PlaneRight] = plane(r3.Sub(r0))
	f.Planes[PlaneTop] = plane(r3.Sub(r1))
	f.Planes[PlaneBottom] = plane(r3.Add(r1))
	return f
}

// Cull reports whether box is entirely outside at least one plane.
// Empty boxes are never culled.
func (f *Frustum) Cull(box AABB) bool {
	if box.IsEmpty() {
		return false
	}
	for i := range f.Planes {
		if f.Planes[i].IsOutside(box) {
			return true
		}
	}
	return false
}

// Contains reports whether box is entirely inside every plane.
func (f *Frustum) Contains(box AABB) bool {
	if box.IsEmpty() {
		return false
	}
	for i := range f.Planes {
		if !f.Planes[i].isInside(box) {
			return false
		}
	}
	return true
}
