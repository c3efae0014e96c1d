package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// Number of blocks traced and the percentage of total frame area they represent.
	Blocks       int
	FramePercent float32

	// Total number of waves and samples for the traced blocks.
	Waves          int
	SamplesWritten uint64

	// Render time for assigned blocks
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration
}
