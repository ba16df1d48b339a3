// Package cull finds the actors a camera can possibly see: static actors
// through a k-d tree rebuilt on demand, dynamic actors by testing each one.
package cull

import (
	"slices"

	"render-pipeline/geom"
	"render-pipeline/scene"
)

type kdEntry struct {
	actor  *scene.Actor
	box    geom.AABB
	center float32 // on the split axis of the node being built
}

type kdNode struct {
	box     geom.AABB // union of every box in the subtree
	entries []kdEntry
	axis    int
	split   float32
	n, p    *kdNode
}

// KdTree partitions static actors by their world boxes at build time. Each
// actor is stored exactly once: actors straddling a split plane stay at the
// node that split them.
type KdTree struct {
	root      *kdNode
	unbounded []*scene.Actor
	nodes     int
	depth     int
	size      int
}

// BuildKdTree splits at the median box center along the longest axis and
// stops at maxDepth, when a node's volume is at most limitVolume, or when a
// split would not separate anything.
func BuildKdTree(actors []*scene.Actor, maxDepth int, limitVolume float32) *KdTree {
	t := &KdTree{size: len(actors)}
	if len(actors) == 0 {
		return t
	}
	entries := make([]kdEntry, 0, len(actors))
	for _, a := range actors {
		e := kdEntry{actor: a, box: a.WorldAABB()}
		if e.box.IsEmpty() {
			// Boxless actors are never culled.
			t.unbounded = append(t.unbounded, a)
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) > 0 {
		t.root = t.build(entries, 0, maxDepth, limitVolume)
	}
	return t
}

func (t *KdTree) build(entries []kdEntry, depth, maxDepth int, limitVolume float32) *kdNode {
	t.nodes++
	t.depth = max(t.depth, depth)

	node := &kdNode{box: geom.EmptyAABB()}
	for _, e := range entries {
		node.box = node.box.Union(e.box)
	}
	if depth >= maxDepth || len(entries) < 2 || node.box.Volume() <= limitVolume {
		node.entries = entries
		return node
	}

	node.axis = node.box.LongestAxis()
	centers := make([]float32, len(entries))
	for i := range entries {
		entries[i].center = entries[i].box.Center()[node.axis]
		centers[i] = entries[i].center
	}
	slices.Sort(centers)
	node.split = centers[len(centers)/2]

	var neg, pos, stay []kdEntry
	for _, e := range entries {
		switch {
		case e.box.Min[node.axis] < node.split && e.box.Max[node.axis] > node.split:
			stay = append(stay, e)
		case e.center < node.split:
			neg = append(neg, e)
		default:
			pos = append(pos, e)
		}
	}
	if len(neg) == len(entries) || len(pos) == len(entries) || len(stay) == len(entries) {
		node.entries = entries
		return node
	}

	node.entries = stay
	if len(neg) > 0 {
		node.n = t.build(neg, depth+1, maxDepth, limitVolume)
	}
	if len(pos) > 0 {
		node.p = t.build(pos, depth+1, maxDepth, limitVolume)
	}
	return node
}

// Len is the number of actors the tree was built from.
func (t *KdTree) Len() int { return t.size }

func (t *KdTree) Nodes() int { return t.nodes }

func (t *KdTree) Depth() int { return t.depth }

// AABB bounds every bounded actor in the tree.
func (t *KdTree) AABB() geom.AABB {
	if t.root == nil {
		return geom.EmptyAABB()
	}
	return t.root.box
}

// Collect appends the enabled actors not culled by f. Subtrees whose box is
// outside f are skipped whole; subtrees fully inside f are taken without
// further tests. It returns the extended slice and the number of nodes
// visited.
func (t *KdTree) Collect(f *geom.Frustum, out []*scene.Actor) ([]*scene.Actor, int) {
	for _, a := range t.unbounded {
		if a.Enabled {
			out = append(out, a)
		}
	}
	if t.root == nil {
		return out, 0
	}
	visited := 0
	out = t.root.collect(f, out, false, &visited)
	return out, visited
}

func (n *kdNode) collect(f *geom.Frustum, out []*scene.Actor, inside bool, visited *int) []*scene.Actor {
	*visited++
	if !inside {
		if f.Cull(n.box) {
			return out
		}
		inside = f.Contains(n.box)
	}
	for _, e := range n.entries {
		if !e.actor.Enabled {
			continue
		}
		if inside || !f.Cull(e.box) {
			out = append(out, e.actor)
		}
	}
	if n.n != nil {
		out = n.n.collect(f, out, inside, visited)
	}
	if n.p != nil {
		out = n.p.collect(f, out, inside, visited)
	}
	return out
}
