package wavefront

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// The policy used for assigning (pixel, sample) pairs to ray slots.
type WorkPolicy uint8

const (
	// Slots claim work from a set of shared atomic counters and steal from
	// each other once their own counter is exhausted.
	WorkStealing WorkPolicy = iota

	// Each slot owns a fixed pixel and a fixed subset of its samples.
	StaticPartition
)

// Implements Stringer.
func (p WorkPolicy) String() string {
	switch p {
	case WorkStealing:
		return "work-stealing"
	case StaticPartition:
		return "static"
	default:
		return fmt.Sprintf("work-policy(%d)", uint8(p))
	}
}

// Parse a work policy name.
func ParseWorkPolicy(name string) (WorkPolicy, error) {
	switch strings.ToLower(name) {
	case "work-stealing", "stealing", "ws":
		return WorkStealing, nil
	case "static", "static-partition":
		return StaticPartition, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWorkPolicy, name)
}

// A rectangular region of the frame and the range of samples to render for
// each of its pixels.
type Tile struct {
	// Tile origin and dimensions in frame pixels.
	X, Y uint32
	W, H uint32

	// Render samples [StartSample, StartSample + NumSamples).
	StartSample uint32
	NumSamples  uint32
}

// Get the number of pixels in the tile.
func (t Tile) NumPixels() uint32 {
	return t.W * t.H
}

// Get the total number of (pixel, sample) pairs in the tile.
func (t Tile) TotalWork() uint32 {
	return t.W * t.H * t.NumSamples
}

// A claimed (pixel, sample) pair.
type WorkUnit struct {
	// Index of the pair within the tile's work range.
	Index uint32

	// Pixel index within the tile and its coordinates.
	Pixel        uint32
	TileX, TileY uint32

	// Pixel coordinates in the frame.
	X, Y uint32

	// Absolute sample number.
	Sample uint32

	// Output buffer sample slot used for storing the pair's contribution.
	SampleSlot uint32
}

// Map a work index to a (pixel, sample) pair. Consecutive indices visit all
// pixels of the tile before moving to the next sample.
func (t Tile) WorkUnit(index, parallelSamples uint32) WorkUnit {
	numPixels := t.NumPixels()
	pixel := index % numPixels
	sampleOffset := index / numPixels
	tileX, tileY := pixel%t.W, pixel/t.W
	return WorkUnit{
		Index:      index,
		Pixel:      pixel,
		TileX:      tileX,
		TileY:      tileY,
		X:          t.X + tileX,
		Y:          t.Y + tileY,
		Sample:     t.StartSample + sampleOffset,
		SampleSlot: sampleOffset % parallelSamples,
	}
}

// The WorkDistributor interface is implemented by all work assignment policies.
// Next may be called concurrently for different slots but never concurrently
// for the same slot.
type WorkDistributor interface {
	// Prepare for distributing the work of a new tile.
	Reset(tile Tile) error

	// Claim the next work unit for a slot. Returns false when no more work
	// is available to this slot.
	Next(rayIndex int) (WorkUnit, bool)

	// The number of output sample slots reserved per pixel.
	ParallelSamples() uint32
}

// Create the distributor for a policy.
func NewWorkDistributor(policy WorkPolicy, poolSize, numWorkPools int) (WorkDistributor, error) {
	switch policy {
	case WorkStealing:
		return newWorkStealingPool(poolSize, numWorkPools), nil
	case StaticPartition:
		return newStaticPartition(poolSize), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownWorkPolicy, policy)
}

// Each slot owns pixel rayIndex / parallelSamples and renders every
// parallelSamples-th sample of it, starting at offset rayIndex % parallelSamples.
type staticPartition struct {
	tile            Tile
	parallelSamples uint32

	// Number of units claimed by each slot. Only touched by the owning slot.
	claimed []uint32
}

func newStaticPartition(poolSize int) *staticPartition {
	return &staticPartition{claimed: make([]uint32, poolSize)}
}

func (sp *staticPartition) Reset(tile Tile) error {
	numPixels := tile.NumPixels()
	if numPixels == 0 {
		return ErrInvalidTile
	}
	parallelSamples := uint32(len(sp.claimed)) / numPixels
	if parallelSamples == 0 {
		return fmt.Errorf("%w: %d slots for %d pixels", ErrPoolTooSmall, len(sp.claimed), numPixels)
	}
	if tile.NumSamples > 0 && parallelSamples > tile.NumSamples {
		parallelSamples = tile.NumSamples
	}

	sp.tile = tile
	sp.parallelSamples = parallelSamples
	for i := range sp.claimed {
		sp.claimed[i] = 0
	}
	return nil
}

func (sp *staticPartition) Next(rayIndex int) (WorkUnit, bool) {
	pixel := uint32(rayIndex) / sp.parallelSamples
	if pixel >= sp.tile.NumPixels() {
		return WorkUnit{}, false
	}

	sampleOffset := uint32(rayIndex)%sp.parallelSamples + sp.claimed[rayIndex]*sp.parallelSamples
	if sampleOffset >= sp.tile.NumSamples {
		return WorkUnit{}, false
	}
	sp.claimed[rayIndex]++

	return sp.tile.WorkUnit(sampleOffset*sp.tile.NumPixels()+pixel, sp.parallelSamples), true
}

func (sp *staticPartition) ParallelSamples() uint32 {
	return sp.parallelSamples
}

// A shared counter over a contiguous range of work indices.
type WorkPoolEntry struct {
	begin uint32
	size  uint32

	// Number of indices handed out so far. May exceed size once the entry
	// is exhausted.
	claimed atomic.Uint32

	_ [52]byte
}

// Get the number of indices in the entry that have not been claimed yet.
func (e *WorkPoolEntry) Remaining() uint32 {
	claimed := e.claimed.Load()
	if claimed >= e.size {
		return 0
	}
	return e.size - claimed
}

// Splits the tile's work range across a set of pool entries. Each slot has a
// home entry; once it is exhausted the slot steals from the other entries.
type workStealingPool struct {
	tile            Tile
	parallelSamples uint32
	poolSize        int
	entries         []WorkPoolEntry
}

func newWorkStealingPool(poolSize, numWorkPools int) *workStealingPool {
	if numWorkPools <= 0 {
		numWorkPools = 1
	}
	if numWorkPools > poolSize {
		numWorkPools = poolSize
	}
	return &workStealingPool{
		poolSize: poolSize,
		entries:  make([]WorkPoolEntry, numWorkPools),
	}
}

func (ws *workStealingPool) Reset(tile Tile) error {
	numPixels := tile.NumPixels()
	if numPixels == 0 {
		return ErrInvalidTile
	}

	ws.tile = tile
	ws.parallelSamples = uint32(ws.poolSize) / numPixels
	if ws.parallelSamples == 0 {
		ws.parallelSamples = 1
	}
	if tile.NumSamples > 0 && ws.parallelSamples > tile.NumSamples {
		ws.parallelSamples = tile.NumSamples
	}

	total := tile.TotalWork()
	numEntries := uint32(len(ws.entries))
	share := (total + numEntries - 1) / numEntries
	for i := range ws.entries {
		begin := min(uint32(i)*share, total)
		end := min(begin+share, total)
		ws.entries[i].begin = begin
		ws.entries[i].size = end - begin
		ws.entries[i].claimed.Store(0)
	}
	return nil
}

func (ws *workStealingPool) Next(rayIndex int) (WorkUnit, bool) {
	numEntries := len(ws.entries)
	home := rayIndex % numEntries
	for i := 0; i < numEntries; i++ {
		entry := &ws.entries[(home+i)%numEntries]
		if entry.claimed.Load() >= entry.size {
			continue
		}
		if index := entry.claimed.Add(1) - 1; index < entry.size {
			return ws.tile.WorkUnit(entry.begin+index, ws.parallelSamples), true
		}
	}
	return WorkUnit{}, false
}

func (ws *workStealingPool) ParallelSamples() uint32 {
	return ws.parallelSamples
}

// Get the number of unclaimed work units across all entries.
func (ws *workStealingPool) Remaining() uint32 {
	var remaining uint32
	for i := range ws.entries {
		remaining += ws.entries[i].Remaining()
	}
	return remaining
}
