package cull

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"render-pipeline/geom"
	"render-pipeline/gfx"
	"render-pipeline/scene"
)

func testCamera() *scene.Camera {
	cam := scene.NewCamera(scene.NewViewport(0, 0, 640, 480))
	cam.SetPerspective(60, 1, 100)
	cam.LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	cam.Activate()
	return cam
}

func cubeAt(x, y, z float32) *scene.Actor {
	return scene.NewActor(scene.NewGeometry(gfx.Cube(1)), geom.NewTransformMatrix(mgl32.Translate3D(x, y, z)))
}

func TestCullsActorBehindFarPlane(t *testing.T) {
	visible := cubeAt(0, 0, -10)
	hidden := cubeAt(0, 0, -500)

	c := NewCuller()
	c.AddStaticActor(visible)
	c.AddStaticActor(hidden)
	c.PrepareForCulling()

	out := c.ExecuteCulling(testCamera(), nil)
	assert.Equal(t, []*scene.Actor{visible}, out)
	assert.Equal(t, 1, c.Stats().Visible)
}

func TestDynamicActorsTrackTransforms(t *testing.T) {
	mover := cubeAt(0, 0, -500)
	c := NewCuller()
	c.AddDynamicActor(mover)
	cam := testCamera()

	c.PrepareForCulling()
	assert.Empty(t, c.ExecuteCulling(cam, nil))

	mover.Transform.SetTranslation(mgl32.Vec3{0, 0, -5})
	c.PrepareForCulling()
	assert.Equal(t, []*scene.Actor{mover}, c.ExecuteCulling(cam, nil))

	mover.Enabled = false
	assert.Empty(t, c.ExecuteCulling(cam, nil))
}

func TestRemovalAppliesAfterPrepare(t *testing.T) {
	a := cubeAt(0, 0, -10)
	c := NewCuller()
	c.AddStaticActor(a)
	c.PrepareForCulling()
	cam := testCamera()

	assert.True(t, c.RemoveStaticActor(a))
	assert.False(t, c.RemoveStaticActor(a))
	assert.Len(t, c.ExecuteCulling(cam, nil), 1)

	c.PrepareForCulling()
	assert.Empty(t, c.ExecuteCulling(cam, nil))
}

func TestSharedRootsComputedOnce(t *testing.T) {
	root := geom.NewTransformMatrix(mgl32.Translate3D(0, 0, -20))
	left := geom.NewTransformMatrix(mgl32.Translate3D(-2, 0, 0))
	right := geom.NewTransformMatrix(mgl32.Translate3D(2, 0, 0))
	root.AddChild(left)
	root.AddChild(right)

	a := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), left)
	b := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), right)
	d := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), root)
	loose := scene.NewActor(scene.NewGeometry(gfx.Cube(1)), nil)

	c := NewCuller()
	c.AddStaticActor(a)
	c.AddStaticActor(loose)
	c.AddDynamicActor(b)
	c.AddDynamicActor(d)
	c.PrepareForCulling()

	assert.Equal(t, 1, c.Stats().RootsUpdated)
	assert.InDelta(t, -20, right.WorldPosition().Z(), 1e-5)
	assert.InDelta(t, 2, right.WorldPosition().X(), 1e-5)
}

func TestCullingWithoutCameraPanics(t *testing.T) {
	c := NewCuller()
	c.PrepareForCulling()
	assert.Panics(t, func() { c.ExecuteCulling(nil, nil) })
}

func TestAddIsIdempotent(t *testing.T) {
	a := cubeAt(0, 0, -10)
	c := NewCuller()
	c.AddStaticActor(a)
	c.AddStaticActor(a)
	assert.Len(t, c.StaticActors(), 1)
}

func bruteForce(actors []*scene.Actor, f *geom.Frustum) map[*scene.Actor]bool {
	set := make(map[*scene.Actor]bool)
	for _, a := range actors {
		if a.Enabled && !f.Cull(a.WorldAABB()) {
			set[a] = true
		}
	}
	return set
}

func TestKdTreeMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var actors []*scene.Actor
	for i := 0; i < 500; i++ {
		x := rng.Float32()*400 - 200
		y := rng.Float32()*40 - 20
		z := rng.Float32()*400 - 200
		a := scene.NewActor(scene.NewGeometry(gfx.Cube(1+rng.Float32()*8)), geom.NewTransformMatrix(mgl32.Translate3D(x, y, z)))
		a.Enabled = i%17 != 0
		actors = append(actors, a)
	}
	// A few actors without a box are always visible.
	actors = append(actors, scene.NewActor(nil, nil))

	for _, depth := range []int{0, 3, 8, 20} {
		c := NewCuller()
		c.MaxDepth = depth
		for _, a := range actors {
			c.AddStaticActor(a)
		}
		c.PrepareForCulling()

		for _, yaw := range []float32{0, 45, 120, 200, 300} {
			cam := testCamera()
			dir := mgl32.Rotate3DY(mgl32.DegToRad(yaw)).Mul3x1(mgl32.Vec3{0, 0, -1})
			cam.LookAt(mgl32.Vec3{0, 0, 0}, dir, mgl32.Vec3{0, 1, 0})
			cam.Activate()

			out := c.ExecuteCulling(cam, nil)
			want := bruteForce(actors, cam.Frustum())

			got := make(map[*scene.Actor]bool, len(out))
			for _, a := range out {
				require.False(t, got[a], "actor emitted twice")
				got[a] = true
			}
			assert.Equal(t, want, got, "depth=%d yaw=%v", depth, yaw)
			if depth > 0 {
				assert.Greater(t, c.Tree().Nodes(), 1)
			}
		}
	}
}

func TestKdTreeStopsOnVolume(t *testing.T) {
	actors := []*scene.Actor{cubeAt(0, 0, 0), cubeAt(10, 0, 0), cubeAt(20, 0, 0)}
	for _, a := range actors {
		a.Transform.ComputeWorld()
	}
	tree := BuildKdTree(actors, 10, 1e6)
	assert.Equal(t, 1, tree.Nodes())
	assert.Equal(t, 3, tree.Len())

	tree = BuildKdTree(actors, 10, 0)
	assert.Greater(t, tree.Nodes(), 1)
	assert.InDelta(t, -0.5, tree.AABB().Min.X(), 1e-5)
	assert.InDelta(t, 20.5, tree.AABB().Max.X(), 1e-5)
}
