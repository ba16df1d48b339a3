package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"render-pipeline/geom"
	"render-pipeline/gfx"
)

// Drawable is something an Actor can show. AABB is in the drawable's local
// space. Draw is called with the device already in the actor's state.
type Drawable interface {
	AABB() geom.AABB
	Draw(dev gfx.Device, a *Actor, stream int, textureUnits uint32)
}

// Geometry draws a single mesh.
type Geometry struct {
	Mesh *gfx.Mesh

	aabb    geom.AABB
	aabbRev uint64
	cached  bool
}

func NewGeometry(m *gfx.Mesh) *Geometry {
	return &Geometry{Mesh: m}
}

// AABB is recomputed lazily after the mesh is touched.
func (g *Geometry) AABB() geom.AABB {
	if g.Mesh == nil {
		return geom.EmptyAABB()
	}
	if !g.cached || g.aabbRev != g.Mesh.Revision() {
		g.aabb = meshAABB(g.Mesh)
		g.aabbRev = g.Mesh.Revision()
		g.cached = true
	}
	return g.aabb
}

func (g *Geometry) Draw(dev gfx.Device, a *Actor, stream int, textureUnits uint32) {
	if g.Mesh == nil {
		return
	}
	dev.DrawMesh(g.Mesh, textureUnits)
}

func meshAABB(m *gfx.Mesh) geom.AABB {
	min, max, ok := m.Bounds()
	if !ok {
		return geom.EmptyAABB()
	}
	return geom.NewAABB(min, max)
}

// MorphGeometry blends between keyframe meshes sharing one topology. The
// blended result is written into an output mesh which is what gets drawn.
type MorphGeometry struct {
	Frames []*gfx.Mesh

	out  *gfx.Mesh
	aabb geom.AABB
}

// NewMorphGeometry returns nil when frames is empty or the frames do not
// share a vertex count.
func NewMorphGeometry(name string, frames []*gfx.Mesh) *MorphGeometry {
	if len(frames) == 0 {
		return nil
	}
	n := len(frames[0].Vertices)
	box := geom.EmptyAABB()
	for _, f := range frames {
		if len(f.Vertices) != n {
			return nil
		}
		box = box.Union(meshAABB(f))
	}
	out := gfx.NewMesh(name, append([]gfx.Vertex(nil), frames[0].Vertices...), frames[0].Indices)
	out.Primitive = frames[0].Primitive
	return &MorphGeometry{Frames: frames, out: out, aabb: box}
}

// AABB encloses every frame so it does not change while animating.
func (g *MorphGeometry) AABB() geom.AABB { return g.aabb }

func (g *MorphGeometry) Mesh() *gfx.Mesh { return g.out }

// Blend sets the output to frames a and b mixed by t in [0,1].
func (g *MorphGeometry) Blend(a, b int, t float32) {
	fa, fb := g.Frames[a].Vertices, g.Frames[b].Vertices
	t = mgl32.Clamp(t, 0, 1)
	for i := range g.out.Vertices {
		v := &g.out.Vertices[i]
		v.Position = lerp3(fa[i].Position, fb[i].Position, t)
		v.Normal = lerp3(fa[i].Normal, fb[i].Normal, t)
		if l := v.Normal.Len(); l > 0 {
			v.Normal = v.Normal.Mul(1 / l)
		}
	}
	g.out.Touch()
}

func (g *MorphGeometry) Draw(dev gfx.Device, a *Actor, stream int, textureUnits uint32) {
	dev.DrawMesh(g.out, textureUnits)
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
