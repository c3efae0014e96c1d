package wavefront

import (
	"sync/atomic"

	"github.com/achilleasa/splitpath/types"
)

// The data needed to resume integration of a single path.
type Slot struct {
	Ray          Ray
	Isect        Intersection
	Throughput   types.Vec3
	Radiance     PathRadiance
	Transparency float32
	Path         PathState
	RNG          RNG
	Work         WorkUnit
}

// A fixed-capacity pool of ray slots. Slot fields are not synchronized; a
// slot may only be touched by the stage that owns it through queue
// membership. The state tag is accessed atomically.
type RayPool struct {
	slots  []Slot
	states []atomic.Uint32

	// Number of slots in the RayInactive state.
	inactive atomic.Int64

	// Optional callback invoked for every state change.
	observer func(rayIndex int, from, to RayState)
}

// Allocate a pool with the given capacity. All slots start inactive.
func NewRayPool(capacity int) *RayPool {
	pool := &RayPool{
		slots:  make([]Slot, capacity),
		states: make([]atomic.Uint32, capacity),
	}
	for i := range pool.states {
		pool.states[i].Store(uint32(RayInactive))
	}
	pool.inactive.Store(int64(capacity))
	return pool
}

// Get the number of slots in the pool.
func (p *RayPool) Capacity() int {
	return len(p.slots)
}

// Get a pointer to the slot at the given index.
func (p *RayPool) Slot(rayIndex int) *Slot {
	return &p.slots[rayIndex]
}

// Get the state of a slot.
func (p *RayPool) State(rayIndex int) RayState {
	return RayState(p.states[rayIndex].Load())
}

// Check whether a slot is in the given state.
func (p *RayPool) IsState(rayIndex int, state RayState) bool {
	return p.State(rayIndex) == state
}

// Set the state of a slot.
func (p *RayPool) SetState(rayIndex int, state RayState) {
	prev := RayState(p.states[rayIndex].Swap(uint32(state)))
	p.transitioned(rayIndex, prev, state)
}

// Atomically move a slot from state old to state new. Returns false if the
// slot was not in state old.
func (p *RayPool) CompareAndSwapState(rayIndex int, old, new RayState) bool {
	if !p.states[rayIndex].CompareAndSwap(uint32(old), uint32(new)) {
		return false
	}
	p.transitioned(rayIndex, old, new)
	return true
}

// Force every slot into a state without notifying the observer. Used when a
// new tile starts, possibly after an interrupted one.
func (p *RayPool) Reset(state RayState) {
	for i := range p.states {
		p.states[i].Store(uint32(state))
	}
	if state == RayInactive {
		p.inactive.Store(int64(len(p.states)))
	} else {
		p.inactive.Store(0)
	}
}

// Get the number of inactive slots.
func (p *RayPool) NumInactive() int {
	return int(p.inactive.Load())
}

// Count slots per state.
func (p *RayPool) Histogram() [numRayStates]int {
	var hist [numRayStates]int
	for i := range p.states {
		if s := p.State(i); s < numRayStates {
			hist[s]++
		}
	}
	return hist
}

func (p *RayPool) transitioned(rayIndex int, from, to RayState) {
	if from == to {
		return
	}
	if to == RayInactive {
		p.inactive.Add(1)
	} else if from == RayInactive {
		p.inactive.Add(-1)
	}
	if p.observer != nil {
		p.observer(rayIndex, from, to)
	}
}
