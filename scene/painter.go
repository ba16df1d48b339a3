package scene

import (
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/shader"
)

type pass struct {
	shader *shader.ShaderState
	final  *shader.ShaderState
}

// Painter is a leaf of the shader tree owning the actors drawn with its
// state. RenderList selects the bucket its actors are sorted into.
type Painter struct {
	ShaderNode

	RenderList float32
	RenderRank int
	LOD        LODEvaluator

	actors []*Actor
	passes []pass
	finals []*shader.ShaderState
	// finalsAt is the resolve count finals was built for, -1 when stale.
	finalsAt     int
	passResolves int
}

func NewPainter(name string) *Painter {
	p := &Painter{finalsAt: -1}
	p.init(name)
	p.painter = p
	return p
}

// AddActor takes ownership of a; an actor belongs to at most one painter.
func (p *Painter) AddActor(a *Actor) {
	core.Check(a.painter == nil || a.painter == p, "actor already owned by another painter",
		zap.Uint64("actor", a.ID()), zap.String("painter", p.Name))
	if a.painter == p {
		return
	}
	a.painter = p
	p.actors = append(p.actors, a)
}

func (p *Painter) RemoveActor(a *Actor) {
	for i, x := range p.actors {
		if x == a {
			p.actors = append(p.actors[:i], p.actors[i+1:]...)
			a.painter = nil
			return
		}
	}
}

func (p *Painter) Actors() []*Actor { return p.actors }

// AddPass appends an extra draw pass. Pass states resolve against the
// painter's own final state; the painter's final state is always pass 0.
func (p *Painter) AddPass(s *shader.ShaderState) {
	p.passes = append(p.passes, pass{shader: s, final: shader.NewShaderState()})
	p.finalsAt = -1
}

func (p *Painter) ClearPasses() {
	p.passes = nil
	p.finalsAt = -1
}

// PassCount includes the implicit first pass.
func (p *Painter) PassCount() int { return 1 + len(p.passes) }

// ResolvePasses resolves the painter and its extra passes for epoch. Pass
// states are recomputed only when the painter's own final state was, so
// every actor of the painter shares one resolution per epoch. The returned
// slice is reused across calls.
func (p *Painter) ResolvePasses(epoch uint64, defaults *shader.ShaderState) []*shader.ShaderState {
	final := p.Resolve(epoch, defaults)
	if p.finalsAt == p.resolves {
		return p.finals
	}
	p.finalsAt = p.resolves
	p.passResolves++
	p.finals = append(p.finals[:0], final)
	for i := range p.passes {
		p.passes[i].final.ResolveFrom(p.passes[i].shader, final)
		p.finals = append(p.finals, p.passes[i].final)
	}
	return p.finals
}
