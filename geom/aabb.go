package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box. A box whose Min exceeds its Max on
// any axis is empty; the zero value is a degenerate box at the origin.
type AABB struct {
	Min, Max mgl32.Vec3
}

// EmptyAABB returns a box that contains nothing and absorbs the first point
// or box added to it.
func EmptyAABB() AABB {
	inf := math32.Inf(1)
	return AABB{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// NewAABB returns the box spanning the two corners in any order.
func NewAABB(a, b mgl32.Vec3) AABB {
	return EmptyAABB().AddPoint(a).AddPoint(b)
}

// IsEmpty reports whether the box contains no points. An empty box has no
// center and is never frustum-culled.
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// AddPoint grows the box to contain p.
func (b AABB) AddPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return b.AddPoint(o.Min).AddPoint(o.Max)
}

// Center is the midpoint of the box. Calling it on an empty box is a bug.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size is the edge length along each axis; zero for an empty box.
func (b AABB) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Volume is the product of the edge lengths.
func (b AABB) Volume() float32 {
	s := b.Size()
	return s[0] * s[1] * s[2]
}

// Radius is half the diagonal, the radius of the bounding sphere around Center.
func (b AABB) Radius() float32 {
	return b.Size().Len() * 0.5
}

// LongestAxis returns 0, 1 or 2 for X, Y or Z.
func (b AABB) LongestAxis() int {
	s := b.Size()
	axis := 0
	if s[1] > s[axis] {
		axis = 1
	}
	if s[2] > s[axis] {
		axis = 2
	}
	return axis
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// ContainsBox reports whether o lies entirely inside b.
func (b AABB) ContainsBox(o AABB) bool {
	if o.IsEmpty() {
		return true
	}
	return b.Contains(o.Min) && b.Contains(o.Max)
}

// Transform maps the box through m by transforming its 8 corners and taking
// their bounds. Empty boxes stay empty.
func (b AABB) Transform(m mgl32.Mat4) AABB {
	if b.IsEmpty() {
		return b
	}
	mn, mx := b.Min, b.Max
	corners := [8]mgl32.Vec3{
		{mn[0], mn[1], mn[2]},
		{mx[0], mn[1], mn[2]},
		{mn[0], mx[1], mn[2]},
		{mx[0], mx[1], mn[2]},
		{mn[0], mn[1], mx[2]},
		{mx[0], mn[1], mx[2]},
		{mn[0], mx[1], mx[2]},
		{mx[0], mx[1], mx[2]},
	}
	out := EmptyAABB()
	for _, c := range corners {
		out = out.AddPoint(mgl32.TransformCoordinate(c, m))
	}
	return out
}
