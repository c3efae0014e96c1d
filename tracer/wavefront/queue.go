package wavefront

import (
	"fmt"
	"sync/atomic"
)

type QueueID uint8

const (
	// Slots that are active or were regenerated in the current wave.
	QueueActiveAndRegenerated QueueID = iota

	// Slots that hit the background, must flush their radiance or need a
	// new work unit.
	QueueHitBgBuffUpdateToRegen

	NumQueues
)

// Marks an unused queue entry.
const EmptySlot = -1

// Implements Stringer.
func (q QueueID) String() string {
	switch q {
	case QueueActiveAndRegenerated:
		return "active-and-regenerated"
	case QueueHitBgBuffUpdateToRegen:
		return "hitbg-buffupdate-toregen"
	default:
		return fmt.Sprintf("queue(%d)", uint8(q))
	}
}

// A set of compaction queues. Each queue holds ray slot indices in a backing
// array sized to the ray pool capacity, so a slot can never be appended to a
// full queue as long as it appears in at most one queue at a time.
type QueueSet struct {
	capacity int
	data     [NumQueues][]int32
	index    [NumQueues]atomic.Int32
}

// Allocate a queue set for the given pool.
func NewQueueSet(pool *RayPool) *QueueSet {
	qs := &QueueSet{capacity: pool.Capacity()}
	for q := range qs.data {
		qs.data[q] = make([]int32, qs.capacity)
		for i := range qs.data[q] {
			qs.data[q][i] = EmptySlot
		}
	}
	return qs
}

// Get the number of entries each queue can hold.
func (qs *QueueSet) Capacity() int {
	return qs.capacity
}

// Zero the occupancy counter of a queue. Must be called before any lane
// enqueues to or dequeues from the queue in the current wave.
func (qs *QueueSet) Reset(q QueueID) {
	qs.index[q].Store(0)
}

// Reset all queues and clear their backing arrays.
func (qs *QueueSet) ResetAll() {
	for q := range qs.data {
		qs.index[q].Store(0)
		for i := range qs.data[q] {
			qs.data[q][i] = EmptySlot
		}
	}
}

// Get the number of entries appended to a queue since its last reset.
func (qs *QueueSet) Occupancy(q QueueID) int {
	return int(qs.index[q].Load())
}

// Atomically append a slot index to a queue and return its position.
func (qs *QueueSet) Enqueue(q QueueID, rayIndex int) (int, error) {
	pos, err := qs.Reserve(q, 1)
	if err != nil {
		return 0, err
	}
	qs.data[q][pos] = int32(rayIndex)
	return pos, nil
}

// Atomically reserve n consecutive entries and return the first position.
func (qs *QueueSet) Reserve(q QueueID, n int) (int, error) {
	end := int(qs.index[q].Add(int32(n)))
	if end > qs.capacity {
		return 0, fmt.Errorf("%w: queue %s needs %d entries; capacity is %d", ErrQueueOverflow, q, end, qs.capacity)
	}
	return end - n, nil
}

// Map a local lane index to the slot index stored at that position and mark
// the entry as consumed. Returns EmptySlot for unused entries.
func (qs *QueueSet) Dequeue(q QueueID, localIndex int) int {
	if localIndex < 0 || localIndex >= qs.capacity {
		return EmptySlot
	}
	rayIndex := int(qs.data[q][localIndex])
	qs.data[q][localIndex] = EmptySlot
	return rayIndex
}

// Like Dequeue but leaves the entry in place.
func (qs *QueueSet) Peek(q QueueID, localIndex int) int {
	if localIndex < 0 || localIndex >= qs.capacity {
		return EmptySlot
	}
	return int(qs.data[q][localIndex])
}

// Verify that no slot index appears in the live region of more than one
// queue, or more than once in the same queue. Must not be called while a
// stage is running.
func (qs *QueueSet) CheckExclusive() error {
	owner := make([]int8, qs.capacity)
	for q := QueueID(0); q < NumQueues; q++ {
		occupancy := qs.Occupancy(q)
		for pos := 0; pos < occupancy && pos < qs.capacity; pos++ {
			rayIndex := qs.data[q][pos]
			if rayIndex == EmptySlot {
				continue
			}
			if owner[rayIndex] != 0 {
				return fmt.Errorf("%w: slot %d found in queue %s and queue %s", ErrQueueExclusivity, rayIndex, QueueID(owner[rayIndex]-1), q)
			}
			owner[rayIndex] = int8(q) + 1
		}
	}
	return nil
}

// Collects the enqueue requests of a single lane group and commits them to
// the shared queues with one atomic reservation per queue. This keeps the
// contention on the global occupancy counters proportional to the number of
// lane groups rather than the number of lanes.
type LocalQueue struct {
	qs      *QueueSet
	pending [NumQueues][]int32
}

// Create a local queue for a lane group.
func NewLocalQueue(qs *QueueSet) *LocalQueue {
	return &LocalQueue{qs: qs}
}

// Record a slot index for a queue. The entry becomes visible to other
// stages after Commit.
func (lq *LocalQueue) Enqueue(q QueueID, rayIndex int) {
	lq.pending[q] = append(lq.pending[q], int32(rayIndex))
}

// Publish all pending entries and clear the local buffers.
func (lq *LocalQueue) Commit() error {
	for q := range lq.pending {
		n := len(lq.pending[q])
		if n == 0 {
			continue
		}
		base, err := lq.qs.Reserve(QueueID(q), n)
		if err != nil {
			return err
		}
		copy(lq.qs.data[q][base:base+n], lq.pending[q])
		lq.pending[q] = lq.pending[q][:0]
	}
	return nil
}
