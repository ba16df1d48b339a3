package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"render-pipeline/geom"
)

func newTestCamera() *Camera {
	cam := NewCamera(NewViewport(0, 0, 800, 600))
	cam.SetPerspective(90, 1, 100)
	cam.LookAt(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	cam.Activate()
	return cam
}

func TestCameraFrustum(t *testing.T) {
	cam := newTestCamera()
	inside := geom.NewAABB(mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9})
	behind := geom.NewAABB(mgl32.Vec3{-1, -1, 9}, mgl32.Vec3{1, 1, 11})
	assert.False(t, cam.Frustum().Cull(inside))
	assert.True(t, cam.Frustum().Cull(behind))
}

func TestCameraFollow(t *testing.T) {
	cam := newTestCamera()
	rig := geom.NewTransformMatrix(mgl32.Translate3D(0, 0, 50))
	rig.ComputeWorld()
	cam.Follow = rig
	cam.Activate()

	assert.InDelta(t, 50, cam.Eye().Z(), 1e-4)
	// A box at the origin is now 50 units in front.
	assert.False(t, cam.Frustum().Cull(geom.NewAABB(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})))
}

func TestProjectedRadiusShrinksWithDistance(t *testing.T) {
	cam := newTestCamera()
	near := cam.ProjectedRadius(mgl32.Vec3{0, 0, -10}, 1)
	far := cam.ProjectedRadius(mgl32.Vec3{0, 0, -40}, 1)
	assert.InDelta(t, 30, near, 1e-3) // 1/10 * 1 (cot 45°) * 300
	assert.InDelta(t, near/4, far, 1e-3)

	cam.SetOrtho(10, 0.1, 100)
	assert.InDelta(t, 60, cam.ProjectedRadius(mgl32.Vec3{0, 0, -80}, 1), 1e-3)
}

func TestRenderFinishedCallbacks(t *testing.T) {
	cam := newTestCamera()
	var order []string
	cam.AddRenderFinishedCallback(5, false, func(*Camera) { order = append(order, "late") })
	cam.AddRenderFinishedCallback(1, true, func(*Camera) { order = append(order, "once") })
	id := cam.AddRenderFinishedCallback(1, false, func(*Camera) { order = append(order, "early") })

	cam.DispatchRenderFinished()
	assert.Equal(t, []string{"once", "early", "late"}, order)
	assert.Equal(t, 2, cam.RenderFinishedCallbacks())

	order = nil
	cam.RemoveRenderFinishedCallback(id)
	cam.DispatchRenderFinished()
	assert.Equal(t, []string{"late"}, order)
}
