package wavefront

import "sync/atomic"

// Cursor into a path's pseudo-random stream.
type RNG struct {
	state uint32
}

// Advance the stream and return a uniformly distributed value in [0, 1).
func (r *RNG) Float() float32 {
	r.state = r.state*747796405 + 2891336453
	word := ((r.state >> ((r.state >> 28) + 4)) ^ r.state) * 277803737
	word = (word >> 22) ^ word
	return float32(word>>8) / float32(1<<24)
}

// Get the raw stream position.
func (r RNG) State() uint32 {
	return r.state
}

// Per-pixel random number state. Streams are derived from the seed, the pixel
// and the sample number so the result of a render does not depend on which
// slot happens to trace a given sample. When a stream is finalized its last
// position is stored back into the pixel state.
type RNGState struct {
	seed   uint32
	frameW uint32
	state  []atomic.Uint32
}

// Allocate random number state for a frame.
func NewRNGState(frameW, frameH, seed uint32) *RNGState {
	return &RNGState{
		seed:   seed,
		frameW: frameW,
		state:  make([]atomic.Uint32, frameW*frameH),
	}
}

// Create the stream for a (pixel, sample) pair.
func (rs *RNGState) InitStream(unit WorkUnit) RNG {
	pixel := unit.Y*rs.frameW + unit.X
	return RNG{state: hash32(hash32(pixel^rs.seed) + unit.Sample)}
}

// Store the final stream position for the pixel that owns the unit.
func (rs *RNGState) FinalizeStream(unit WorkUnit, rng RNG) {
	pixel := unit.Y*rs.frameW + unit.X
	if int(pixel) < len(rs.state) {
		rs.state[pixel].Store(rng.state)
	}
}

// Get the last finalized stream position for a pixel.
func (rs *RNGState) Last(x, y uint32) uint32 {
	return rs.state[y*rs.frameW+x].Load()
}

func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}
