package render

import "go.uber.org/zap"

// Stats counts what one frame did.
type Stats struct {
	// Compiler
	Candidates int
	Disabled   int
	Culled     int
	Suppressed int
	Tokens     int
	Passes     int
	Buckets    int

	// Renderer
	ShaderApplies    int
	StateChanges     int
	TransformChanges int
	LightBinds       int
	PlaneBinds       int
	DrawCalls        int
}

func (s Stats) fields() []zap.Field {
	return []zap.Field{
		zap.Int("candidates", s.Candidates),
		zap.Int("disabled", s.Disabled),
		zap.Int("culled", s.Culled),
		zap.Int("suppressed", s.Suppressed),
		zap.Int("tokens", s.Tokens),
		zap.Int("passes", s.Passes),
		zap.Int("buckets", s.Buckets),
		zap.Int("shader_applies", s.ShaderApplies),
		zap.Int("state_changes", s.StateChanges),
		zap.Int("transform_changes", s.TransformChanges),
		zap.Int("light_binds", s.LightBinds),
		zap.Int("plane_binds", s.PlaneBinds),
		zap.Int("draw_calls", s.DrawCalls),
	}
}
