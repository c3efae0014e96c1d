package wavefront

import (
	"sync/atomic"
	"time"
)

// Statistics captured after a wave.
type WaveStats struct {
	Wave int

	// Queue occupancy at the end of the wave.
	ActiveQueue int
	HitBgQueue  int

	// Number of slots in each state.
	States [numRayStates]int
}

// Get the number of slots in a state.
func (ws WaveStats) Count(state RayState) int {
	return ws.States[state]
}

// Tracer statistics for a single tile.
type Stats struct {
	// The traced tile.
	Tile Tile

	// Number of waves until all slots became inactive.
	Waves int

	// Number of samples flushed to the output, including zero samples
	// written for degenerate camera rays.
	SamplesWritten uint64

	// Number of degenerate camera rays.
	DegenerateRays uint64

	// Number of times a slot claimed a new work unit.
	Regenerated uint64

	// Accumulated time per pipeline stage.
	StageTime map[string]time.Duration

	// Per-wave statistics. Only populated when CaptureWaveStats is set.
	WaveLog []WaveStats

	// Total time for tracing the tile.
	RenderTime time.Duration
}

// Counters updated concurrently by the stages.
type counters struct {
	samplesWritten atomic.Uint64
	degenerateRays atomic.Uint64
	regenerated    atomic.Uint64
	badTransitions atomic.Uint64
}

func (c *counters) reset() {
	c.samplesWritten.Store(0)
	c.degenerateRays.Store(0)
	c.regenerated.Store(0)
	c.badTransitions.Store(0)
}
