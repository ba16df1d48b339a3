package scene

// LODEvaluator picks an actor's level of detail for a camera. It must not
// modify the actor.
type LODEvaluator interface {
	Evaluate(a *Actor, cam *Camera) int
}

// DistanceLOD selects LOD i once the distance from the camera to the
// actor's box center reaches Distances[i-1]. Distances must be ascending.
type DistanceLOD struct {
	Distances []float32
}

func (l *DistanceLOD) Evaluate(a *Actor, cam *Camera) int {
	box := a.WorldAABB()
	if box.IsEmpty() {
		return 0
	}
	d := box.Center().Sub(cam.Eye()).Len()
	lod := 0
	for _, limit := range l.Distances {
		if d < limit {
			break
		}
		lod++
	}
	return clampLOD(lod, a)
}

// PixelLOD selects LOD i once the projected bounding-sphere radius drops
// below Pixels[i-1]. Pixels must be descending.
type PixelLOD struct {
	Pixels []float32
}

func (l *PixelLOD) Evaluate(a *Actor, cam *Camera) int {
	box := a.WorldAABB()
	if box.IsEmpty() {
		return 0
	}
	r := cam.ProjectedRadius(box.Center(), box.Radius())
	lod := 0
	for _, limit := range l.Pixels {
		if r >= limit {
			break
		}
		lod++
	}
	return clampLOD(lod, a)
}

func clampLOD(lod int, a *Actor) int {
	if n := a.LODCount(); lod >= n {
		return n - 1
	}
	return lod
}
