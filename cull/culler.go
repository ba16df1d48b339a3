package cull

import (
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/geom"
	"render-pipeline/scene"
)

const (
	DefaultMaxDepth    = 16
	DefaultLimitVolume = 0
)

// Stats describe the last prepare and cull.
type Stats struct {
	Static       int
	Dynamic      int
	RootsUpdated int
	TreeNodes    int
	NodesVisited int
	Visible      int
}

// actorSet keeps insertion order for deterministic trees and output.
type actorSet struct {
	list  []*scene.Actor
	index map[*scene.Actor]struct{}
}

func (s *actorSet) add(a *scene.Actor) bool {
	if s.index == nil {
		s.index = make(map[*scene.Actor]struct{})
	}
	if _, ok := s.index[a]; ok {
		return false
	}
	s.index[a] = struct{}{}
	s.list = append(s.list, a)
	return true
}

func (s *actorSet) remove(a *scene.Actor) bool {
	if _, ok := s.index[a]; !ok {
		return false
	}
	delete(s.index, a)
	for i, x := range s.list {
		if x == a {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	return true
}

// Culler combines a k-d tree over static actors with per-frame tests of
// dynamic actors. Changes to either set take effect at the next
// PrepareForCulling.
type Culler struct {
	MaxDepth    int
	LimitVolume float32

	static  actorSet
	dynamic actorSet

	dynamicFrame []*scene.Actor
	roots        map[*geom.Transform]struct{}
	rootList     []*geom.Transform
	tree         *KdTree
	stats        Stats
	logger       *zap.Logger
}

func NewCuller() *Culler {
	return &Culler{
		MaxDepth:    DefaultMaxDepth,
		LimitVolume: DefaultLimitVolume,
		roots:       make(map[*geom.Transform]struct{}),
		tree:        &KdTree{},
		logger:      core.Log.Named("culler"),
	}
}

func (c *Culler) AddStaticActor(a *scene.Actor) { c.static.add(a) }

func (c *Culler) RemoveStaticActor(a *scene.Actor) bool { return c.static.remove(a) }

func (c *Culler) StaticActors() []*scene.Actor { return c.static.list }

func (c *Culler) AddDynamicActor(a *scene.Actor) { c.dynamic.add(a) }

func (c *Culler) RemoveDynamicActor(a *scene.Actor) bool { return c.dynamic.remove(a) }

func (c *Culler) DynamicActors() []*scene.Actor { return c.dynamic.list }

// Tree is the k-d tree built by the last PrepareForCulling.
func (c *Culler) Tree() *KdTree { return c.tree }

func (c *Culler) Stats() Stats { return c.stats }

// PrepareForCulling snapshots the dynamic actors, refreshes every transform
// hierarchy reachable from either set once, and rebuilds the k-d tree.
func (c *Culler) PrepareForCulling() {
	c.dynamicFrame = append(c.dynamicFrame[:0], c.dynamic.list...)

	clear(c.roots)
	c.rootList = c.rootList[:0]
	c.collectRoots(c.static.list)
	c.collectRoots(c.dynamicFrame)
	for _, r := range c.rootList {
		r.ComputeWorldRecursive()
	}

	c.tree = BuildKdTree(c.static.list, c.MaxDepth, c.LimitVolume)
	c.stats = Stats{
		Static:       len(c.static.list),
		Dynamic:      len(c.dynamicFrame),
		RootsUpdated: len(c.rootList),
		TreeNodes:    c.tree.Nodes(),
	}
	c.logger.Debug("culler prepared",
		zap.Int("static", c.stats.Static),
		zap.Int("dynamic", c.stats.Dynamic),
		zap.Int("roots", c.stats.RootsUpdated),
		zap.Int("nodes", c.stats.TreeNodes),
		zap.Int("depth", c.tree.Depth()))
}

func (c *Culler) collectRoots(actors []*scene.Actor) {
	for _, a := range actors {
		if a.Transform == nil {
			continue
		}
		r := a.Transform.Root()
		if _, ok := c.roots[r]; ok {
			continue
		}
		c.roots[r] = struct{}{}
		c.rootList = append(c.rootList, r)
	}
}

// ExecuteCulling replaces the contents of out with the actors visible from
// cam: dynamic actors first, then static actors in tree order. The camera
// must have been activated.
func (c *Culler) ExecuteCulling(cam *scene.Camera, out []*scene.Actor) []*scene.Actor {
	core.Check(cam != nil, "culling without a camera")
	out = out[:0]
	if cam == nil {
		return out
	}
	f := cam.Frustum()

	for _, a := range c.dynamicFrame {
		if a.Enabled && !f.Cull(a.WorldAABB()) {
			out = append(out, a)
		}
	}
	out, visited := c.tree.Collect(f, out)

	c.stats.NodesVisited = visited
	c.stats.Visible = len(out)
	return out
}
