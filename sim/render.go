package sim

import (
	"sync/atomic"
)

// Surface is the drawing target of one frame.
// Implementations resolve texture keys themselves and treat unknown or
// unloaded keys as no-ops.
type Surface interface {
	// Clear wipes the frame
	Clear()

	// Draw places a texture with its top-left corner at (x, y), rotated by
	// angle degrees around its centre
	Draw(tex TextureID, x, y, angle float64)

	// Present finishes the frame
	Present()
}

// RenderPass draws the background and the current snapshot once per frame.
// It never holds the registry lock while drawing. Frame is called from one
// goroutine; the counters may be read from any.
type RenderPass struct {
	registry   *Registry
	background TextureID

	// lastGeneration is the generation drawn by the previous frame
	lastGeneration atomic.Uint64
	frames         atomic.Uint64
}

// NewRenderPass creates a render pass over registry
func NewRenderPass(registry *Registry, background TextureID) *RenderPass {
	return &RenderPass{
		registry:   registry,
		background: background,
	}
}

// Frame renders one frame onto s and returns the snapshot it drew.
// When no update happened since the previous frame the same snapshot is drawn again.
func (p *RenderPass) Frame(s Surface) Snapshot {
	s.Clear()
	s.Draw(p.background, 0, 0, 0)

	snap := p.registry.Snapshot()
	for i := range snap.Entities {
		snap.Entities[i].Render(s)
	}
	s.Present()

	p.lastGeneration.Store(snap.Generation)
	p.frames.Add(1)
	return snap
}

// Frames returns the number of frames rendered
func (p *RenderPass) Frames() uint64 {
	return p.frames.Load()
}

// LastGeneration returns the generation drawn by the latest frame
func (p *RenderPass) LastGeneration() uint64 {
	return p.lastGeneration.Load()
}
