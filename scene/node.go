package scene

import (
	"sync/atomic"

	"render-pipeline/shader"
)

var nodeIDCounter atomic.Uint64

// ShaderNode is an interior node of the shader tree. Its final state is the
// node's own shader resolved against its parent's final state, cached for
// one frame epoch.
type ShaderNode struct {
	Name string
	// Enabled false hides the node and its whole subtree.
	Enabled bool

	id       uint64
	shader   *shader.ShaderState
	final    *shader.ShaderState
	parent   *ShaderNode
	children []*ShaderNode
	painter  *Painter

	epoch        uint64
	against      *shader.ShaderState
	resolved     bool
	finalEnabled bool
	resolves     int
}

func NewShaderNode(name string) *ShaderNode {
	n := &ShaderNode{}
	n.init(name)
	return n
}

func (n *ShaderNode) init(name string) {
	n.id = nodeIDCounter.Add(1)
	n.Name = name
	n.Enabled = true
	n.shader = shader.NewShaderState()
	n.final = shader.NewShaderState()
}

func (n *ShaderNode) ID() uint64 { return n.id }

// Shader is the node's own declared state.
func (n *ShaderNode) Shader() *shader.ShaderState { return n.shader }

func (n *ShaderNode) SetShader(s *shader.ShaderState) {
	if s == nil {
		s = shader.NewShaderState()
	}
	n.shader = s
	n.resolved = false
}

func (n *ShaderNode) Parent() *ShaderNode { return n.parent }

func (n *ShaderNode) Children() []*ShaderNode { return n.children }

// Painter returns the painter this node belongs to, or nil for plain nodes.
func (n *ShaderNode) Painter() *Painter { return n.painter }

// AddChild reparents child under n.
func (n *ShaderNode) AddChild(child *ShaderNode) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	child.resolved = false
	n.children = append(n.children, child)
}

func (n *ShaderNode) AddPainter(p *Painter) {
	n.AddChild(&p.ShaderNode)
}

func (n *ShaderNode) RemoveChild(child *ShaderNode) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.resolved = false
			return
		}
	}
}

// Resolve computes the node's final state for epoch, resolving ancestors
// first. Repeated calls within one epoch against the same defaults return
// the cached result.
func (n *ShaderNode) Resolve(epoch uint64, defaults *shader.ShaderState) *shader.ShaderState {
	if n.resolved && n.epoch == epoch && n.against == defaults {
		return n.final
	}

	parent, parentEnabled := defaults, true
	if n.parent != nil {
		parent = n.parent.Resolve(epoch, defaults)
		parentEnabled = n.parent.finalEnabled
	}
	n.final.ResolveFrom(n.shader, parent)
	n.finalEnabled = parentEnabled && n.Enabled

	n.epoch, n.against, n.resolved = epoch, defaults, true
	n.resolves++
	return n.final
}

// Final is the state computed by the last Resolve.
func (n *ShaderNode) Final() *shader.ShaderState { return n.final }

// FinalEnabled is false when the node or any ancestor was disabled at the
// last Resolve.
func (n *ShaderNode) FinalEnabled() bool { return n.finalEnabled }

// Walk visits n and its subtree depth-first, parents before children.
func (n *ShaderNode) Walk(fn func(*ShaderNode)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// CollectActors appends every actor of every painter below n in depth-first
// order.
func (n *ShaderNode) CollectActors(out []*Actor) []*Actor {
	n.Walk(func(c *ShaderNode) {
		if c.painter != nil {
			out = append(out, c.painter.actors...)
		}
	})
	return out
}

// Find returns the first node named name.
func (n *ShaderNode) Find(name string) *ShaderNode {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
