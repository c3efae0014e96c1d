package tracer

import (
	"context"
	"time"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block origin and dimensions.
	BlockX uint32
	BlockY uint32
	BlockW uint32
	BlockH uint32

	// Render samples [StartSample, StartSample + SamplesPerPixel).
	StartSample     uint32
	SamplesPerPixel uint32
}

// Number of pixels covered by the block.
func (br *BlockRequest) Pixels() uint32 {
	return br.BlockW * br.BlockH
}

// Tracer statistics.
type Stats struct {
	// The rendered block dimensions.
	BlockW uint32
	BlockH uint32

	// Number of pipeline waves needed to complete the block.
	Waves int

	// Number of samples written to the output.
	SamplesWritten uint64

	// The time for rendering this block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Trace a block and block until it is complete.
	Trace(ctx context.Context, blockReq *BlockRequest) (*Stats, error)
}
