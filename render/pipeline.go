package render

import (
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/cull"
	"render-pipeline/geom"
	"render-pipeline/scene"
)

// Pipeline runs the frame sequence: refresh transforms, cull, compile,
// draw. Without a Culler it compiles straight from the shader tree.
type Pipeline struct {
	Root     *scene.ShaderNode
	Culler   *cull.Culler
	Compiler *Compiler
	Renderer *Renderer
	Streams  Streams

	epoch   uint64
	visible []*scene.Actor
	roots   map[*geom.Transform]struct{}
	stats   Stats
	logger  *zap.Logger
}

func NewPipeline(root *scene.ShaderNode, culler *cull.Culler) *Pipeline {
	p := &Pipeline{
		Root:     root,
		Culler:   culler,
		Compiler: NewCompiler(),
		Renderer: NewRenderer(),
		roots:    make(map[*geom.Transform]struct{}),
		logger:   core.Log.Named("pipeline"),
	}
	if culler != nil {
		// The culler hands over an explicit list each frame.
		p.Compiler.Extraction = ExtractNever
	}
	return p
}

// Epoch is the number of frames rendered so far.
func (p *Pipeline) Epoch() uint64 { return p.epoch }

func (p *Pipeline) Stats() Stats { return p.stats }

// RenderFrame draws one frame of cam on stream at wall-clock time now.
func (p *Pipeline) RenderFrame(cam *scene.Camera, stream int, now float64) Stats {
	core.Check(cam != nil, "frame without a camera")
	ctx := p.Streams.Get(stream)
	if cam == nil || ctx == nil {
		return Stats{}
	}
	p.epoch++

	var actors []*scene.Actor
	if p.Culler != nil {
		p.Culler.PrepareForCulling()
	} else {
		actors = p.Compiler.Extract(p.Root)
		p.updateTransforms(actors)
	}

	if cam.Follow != nil {
		cam.Follow.ComputeWorldPath()
	}
	cam.Activate()

	frame := Frame{Camera: cam, Epoch: p.epoch, Now: now, Defaults: ctx.Defaults()}
	if p.Culler != nil {
		p.visible = p.Culler.ExecuteCulling(cam, p.visible)
		actors = p.visible
	}
	lists := p.Compiler.CompileActors(actors, frame)
	p.Renderer.Render(ctx, cam, lists)

	p.stats = p.Compiler.Stats()
	rs := p.Renderer.Stats()
	p.stats.ShaderApplies = rs.ShaderApplies
	p.stats.StateChanges = rs.StateChanges
	p.stats.TransformChanges = rs.TransformChanges
	p.stats.LightBinds = rs.LightBinds
	p.stats.PlaneBinds = rs.PlaneBinds
	p.stats.DrawCalls = rs.DrawCalls

	if ce := p.logger.Check(zap.DebugLevel, "frame"); ce != nil {
		ce.Write(append(p.stats.fields(), zap.Uint64("epoch", p.epoch), zap.Int("stream", stream))...)
	}
	return p.stats
}

func (p *Pipeline) updateTransforms(actors []*scene.Actor) {
	clear(p.roots)
	for _, a := range actors {
		if a.Transform == nil {
			continue
		}
		r := a.Transform.Root()
		if _, ok := p.roots[r]; ok {
			continue
		}
		p.roots[r] = struct{}{}
		r.ComputeWorldRecursive()
	}
}
