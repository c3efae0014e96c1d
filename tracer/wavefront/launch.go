package wavefront

import "golang.org/x/sync/errgroup"

// A group of consecutive lanes executed by a single goroutine. Slot indices
// enqueued by the group's lanes are collected locally and published with one
// reservation per queue once the whole group has finished.
type laneGroup struct {
	id    int
	local *LocalQueue
}

func (g *laneGroup) enqueue(q QueueID, rayIndex int) {
	g.local.Enqueue(q, rayIndex)
}

// A stage body executed once per lane.
type kernelFn func(g *laneGroup, globalID int)

// Run kernel for every global id in [0, globalSize) using at most NumLanes
// concurrent lane groups. All lanes have finished and all local enqueues
// have been committed when launch returns.
func (tr *Tracer) launch(globalSize int, kernel kernelFn) error {
	if globalSize <= 0 {
		return nil
	}

	groupSize := tr.cfg.LaneGroupSize
	numGroups := (globalSize + groupSize - 1) / groupSize

	var eg errgroup.Group
	eg.SetLimit(tr.cfg.NumLanes)
	for groupID := 0; groupID < numGroups; groupID++ {
		eg.Go(func() error {
			g := &laneGroup{id: groupID, local: NewLocalQueue(tr.queues)}
			begin := groupID * groupSize
			end := min(begin+groupSize, globalSize)
			for globalID := begin; globalID < end; globalID++ {
				kernel(g, globalID)
			}
			return g.local.Commit()
		})
	}
	return eg.Wait()
}

// Get the number of lanes needed by a stage that reads the active queue.
func (tr *Tracer) activeGlobalSize() int {
	if !tr.cfg.UseQueues {
		return tr.pool.Capacity()
	}
	return tr.queues.Occupancy(QueueActiveAndRegenerated)
}

// Map a lane to the slot it processes in a stage that reads the active
// queue without draining it.
func (tr *Tracer) activeRayIndex(globalID int) int {
	if !tr.cfg.UseQueues {
		return globalID
	}
	return tr.queues.Peek(QueueActiveAndRegenerated, globalID)
}
