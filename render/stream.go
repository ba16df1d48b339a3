package render

import (
	"go.uber.org/zap"

	"render-pipeline/core"
	"render-pipeline/gfx"
	"render-pipeline/scene"
	"render-pipeline/shader"
)

// MaxStreams is the number of independent render streams.
const MaxStreams = 8

// StreamContext is the per-stream state: the device it draws to, what has
// been applied to that device, the stream's default shader state and the
// camera currently drawing.
type StreamContext struct {
	ID      int
	Device  gfx.Device
	Tracker *shader.Tracker
	Camera  *scene.Camera

	defaults *shader.ShaderState
	active   bool
}

// Defaults is the root parent state of the stream, created on first use.
func (s *StreamContext) Defaults() *shader.ShaderState {
	if s.defaults == nil {
		s.defaults = shader.NewDefaultState()
	}
	return s.defaults
}

// SetDefaults replaces the stream's default state.
func (s *StreamContext) SetDefaults(d *shader.ShaderState) { s.defaults = d }

func (s *StreamContext) Active() bool { return s.active }

// Streams is the fixed set of stream slots.
type Streams struct {
	slots [MaxStreams]StreamContext
}

func validStream(id int) bool { return id >= 0 && id < MaxStreams }

// Init binds stream id to dev. Re-initializing an active stream resets it.
func (s *Streams) Init(id int, dev gfx.Device) *StreamContext {
	core.Check(validStream(id), "stream out of range", zap.Int("stream", id))
	core.Check(dev != nil, "stream without device", zap.Int("stream", id))
	if !validStream(id) {
		return nil
	}
	s.slots[id] = StreamContext{
		ID:      id,
		Device:  dev,
		Tracker: shader.NewTracker(dev),
		active:  true,
	}
	return &s.slots[id]
}

// Teardown releases the stream's state.
func (s *Streams) Teardown(id int) {
	if !validStream(id) {
		return
	}
	s.slots[id] = StreamContext{}
}

// Get returns an initialized stream.
func (s *Streams) Get(id int) *StreamContext {
	core.Check(validStream(id) && s.slots[id].active, "stream not initialized", zap.Int("stream", id))
	if !validStream(id) || !s.slots[id].active {
		return nil
	}
	return &s.slots[id]
}
