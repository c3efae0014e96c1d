package film

import (
	"math"
	"sync/atomic"

	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/achilleasa/splitpath/types"
)

// A per-sample output buffer for a single tile. The buffer holds
// tileW * tileH * parallelSamples * passStride floats; each (pixel, sample
// slot) pair owns one record with four channels per enabled pass. Samples
// that share a record are accumulated with lock-free atomic adds.
type Buffer struct {
	passes          PassFlag
	passStride      uint32
	tile            wavefront.Tile
	parallelSamples uint32

	// Float channels stored as IEEE-754 bits.
	data []atomic.Uint32

	// Number of samples written to each record.
	writes []atomic.Uint32
}

// Allocate an empty buffer for the given passes.
func NewBuffer(passes PassFlag) *Buffer {
	passes |= PassCombined
	return &Buffer{
		passes:     passes,
		passStride: passes.Stride(),
	}
}

// Get the enabled passes.
func (b *Buffer) Passes() PassFlag {
	return b.passes
}

// Get the number of floats per sample record.
func (b *Buffer) PassStride() uint32 {
	return b.passStride
}

// Get the tile the buffer is currently bound to.
func (b *Buffer) Tile() wavefront.Tile {
	return b.tile
}

// Get the number of sample records per pixel.
func (b *Buffer) ParallelSamples() uint32 {
	return b.parallelSamples
}

// Bind the buffer to a tile and clear its contents. Implements wavefront.Output.
func (b *Buffer) Reset(tile wavefront.Tile, parallelSamples uint32) error {
	if parallelSamples == 0 {
		parallelSamples = 1
	}
	records := int(tile.W * tile.H * parallelSamples)
	size := records * int(b.passStride)

	if cap(b.data) >= size {
		b.data = b.data[:size]
		for i := range b.data {
			b.data[i].Store(0)
		}
	} else {
		b.data = make([]atomic.Uint32, size)
	}
	if cap(b.writes) >= records {
		b.writes = b.writes[:records]
		for i := range b.writes {
			b.writes[i].Store(0)
		}
	} else {
		b.writes = make([]atomic.Uint32, records)
	}

	b.tile = tile
	b.parallelSamples = parallelSamples
	return nil
}

// Get the record index for a pixel and a sample slot.
func (b *Buffer) record(tileX, tileY, sampleSlot uint32) uint32 {
	return (tileX+tileY*b.tile.W)*b.parallelSamples + sampleSlot
}

// Accumulate a sample. Implements wavefront.Output.
func (b *Buffer) WriteSample(unit wavefront.WorkUnit, L types.Vec4, radiance *wavefront.PathRadiance) {
	record := b.record(unit.TileX, unit.TileY, unit.SampleSlot%b.parallelSamples)
	base := record * b.passStride

	b.addFloat4(base, L)
	if radiance != nil {
		if offset, ok := b.passes.Offset(PassBackground); ok {
			b.addFloat4(base+offset, radiance.Background.Vec4(0))
		}
		if offset, ok := b.passes.Offset(PassEmission); ok {
			b.addFloat4(base+offset, radiance.Emission.Vec4(0))
		}
	}
	b.writes[record].Add(1)
}

func (b *Buffer) addFloat4(offset uint32, v types.Vec4) {
	for c := uint32(0); c < channelsPerPass; c++ {
		if v[c] != 0 {
			atomicAddFloat32(&b.data[offset+c], v[c])
		}
	}
}

// Get the sum of all samples written to a pixel for a pass.
func (b *Buffer) Sum(tileX, tileY uint32, pass PassFlag) (types.Vec4, error) {
	offset, ok := b.passes.Offset(pass)
	if !ok {
		return types.Vec4{}, ErrPassDisabled
	}

	var sum types.Vec4
	for slot := uint32(0); slot < b.parallelSamples; slot++ {
		base := b.record(tileX, tileY, slot)*b.passStride + offset
		for c := uint32(0); c < channelsPerPass; c++ {
			sum[c] += math.Float32frombits(b.data[base+c].Load())
		}
	}
	return sum, nil
}

// Get the number of samples written to a pixel.
func (b *Buffer) Samples(tileX, tileY uint32) uint32 {
	var samples uint32
	for slot := uint32(0); slot < b.parallelSamples; slot++ {
		samples += b.writes[b.record(tileX, tileY, slot)].Load()
	}
	return samples
}

func atomicAddFloat32(addr *atomic.Uint32, delta float32) {
	for {
		old := addr.Load()
		sum := math.Float32bits(math.Float32frombits(old) + delta)
		if addr.CompareAndSwap(old, sum) {
			return
		}
	}
}
