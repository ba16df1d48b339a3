package gfx

import "github.com/go-gl/mathgl/mgl32"

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Color    [4]float32
}

// Mesh holds CPU-side vertex/index data. GPU upload is managed by the Device,
// keyed by the mesh pointer and Revision.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Primitive Primitive
	revision  uint64
}

func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{Name: name, Vertices: vertices, Indices: indices}
}

func (m *Mesh) Revision() uint64 { return m.revision }

// Touch marks the vertex data as modified.
func (m *Mesh) Touch() { m.revision++ }

// Bounds returns the min/max of the vertex positions and false when the
// mesh has no vertices.
func (m *Mesh) Bounds() (min, max mgl32.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return min, max, false
	}
	min = m.Vertices[0].Position
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max, true
}

// Cube returns a unit-normal cube of edge size centered at the origin.
func Cube(size float32) *Mesh {
	s := size / 2
	faces := []struct {
		n       mgl32.Vec3
		corners [4]mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{s, -s, -s}, {-s, -s, -s}, {-s, s, -s}, {s, s, -s}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-s, s, s}, {s, s, s}, {s, s, -s}, {-s, s, -s}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-s, -s, -s}, {s, -s, -s}, {s, -s, s}, {-s, -s, s}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{s, -s, s}, {s, -s, -s}, {s, s, -s}, {s, s, s}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-s, -s, -s}, {-s, -s, s}, {-s, s, s}, {-s, s, -s}}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	m := &Mesh{Name: "Cube"}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, Vertex{Position: c, Normal: f.n, UV: uvs[i], Color: [4]float32{1, 1, 1, 1}})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}

// Quad returns a unit quad in the XY plane facing +Z.
func Quad(size float32) *Mesh {
	s := size / 2
	n := mgl32.Vec3{0, 0, 1}
	return &Mesh{
		Name: "Quad",
		Vertices: []Vertex{
			{Position: mgl32.Vec3{-s, -s, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Color: white},
			{Position: mgl32.Vec3{s, -s, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Color: white},
			{Position: mgl32.Vec3{s, s, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Color: white},
			{Position: mgl32.Vec3{-s, s, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Color: white},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}
