package gfx

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var white = [4]float32{1, 1, 1, 1}

// Sphere returns a UV sphere. segments is clamped to at least 3 and rings
// to at least 2.
func Sphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)
	m := &Mesh{Name: "Sphere"}
	for r := 0; r <= rings; r++ {
		sinPhi, cosPhi := math32.Sincos(float32(r) * math32.Pi / float32(rings))
		for s := 0; s <= segments; s++ {
			sinTheta, cosTheta := math32.Sincos(float32(s) * 2 * math32.Pi / float32(segments))
			n := mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta}
			m.Vertices = append(m.Vertices, Vertex{
				Position: n.Mul(radius),
				Normal:   n,
				UV:       mgl32.Vec2{float32(s) / float32(segments), float32(r) / float32(rings)},
				Color:    white,
			})
		}
	}
	stride := uint32(segments + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			i := uint32(r)*stride + uint32(s)
			m.Indices = append(m.Indices, i, i+stride, i+1, i+1, i+stride, i+stride+1)
		}
	}
	return m
}

// Plane returns a subdivided plane in XZ facing +Y, centered at the origin.
func Plane(width, depth float32, subdivisions int) *Mesh {
	n := max(subdivisions, 1)
	m := &Mesh{Name: "Plane"}
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			u, v := float32(x)/float32(n), float32(z)/float32(n)
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl32.Vec3{(u - 0.5) * width, 0, (v - 0.5) * depth},
				Normal:   mgl32.Vec3{0, 1, 0},
				UV:       mgl32.Vec2{u, v},
				Color:    white,
			})
		}
	}
	stride := uint32(n + 1)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			i := uint32(z)*stride + uint32(x)
			m.Indices = append(m.Indices, i, i+stride, i+1, i+1, i+stride, i+stride+1)
		}
	}
	return m
}

// Grid returns an XZ line grid spanning size. With an even number of
// divisions the center lines are colored as axes, X red and Z blue.
func Grid(size float32, divisions int) *Mesh {
	n := max(divisions, 1)
	half, step := size/2, size/float32(n)
	gray := [4]float32{0.35, 0.35, 0.35, 1}
	m := &Mesh{Name: "Grid", Primitive: PrimitiveLines}
	line := func(a, b mgl32.Vec3, c [4]float32) {
		base := uint32(len(m.Vertices))
		up := mgl32.Vec3{0, 1, 0}
		m.Vertices = append(m.Vertices,
			Vertex{Position: a, Normal: up, Color: c},
			Vertex{Position: b, Normal: up, Color: c})
		m.Indices = append(m.Indices, base, base+1)
	}
	for i := 0; i <= n; i++ {
		d := -half + float32(i)*step
		zc, xc := gray, gray
		if i == n/2 && n%2 == 0 {
			zc = [4]float32{0.15, 0.35, 0.9, 1}
			xc = [4]float32{0.8, 0.15, 0.15, 1}
		}
		line(mgl32.Vec3{d, 0, -half}, mgl32.Vec3{d, 0, half}, zc)
		line(mgl32.Vec3{-half, 0, d}, mgl32.Vec3{half, 0, d}, xc)
	}
	return m
}
