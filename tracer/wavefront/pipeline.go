package wavefront

import "time"

// An alias for functions that can be used as part of the tracing pipeline.
type PipelineStage func(tr *Tracer) (time.Duration, error)

// The list of pluggable stages that move paths through the ray pool.
type Pipeline struct {
	// Reset the ray pool and the queues. This stage is executed once per
	// tile before the first wave.
	Reset PipelineStage

	// The stages executed, in order, once per wave. Each stage runs to
	// completion before the next one starts.
	Wave []PipelineStage
}

func DefaultPipeline() *Pipeline {
	return &Pipeline{
		Reset: DataInit(),
		Wave: []PipelineStage{
			SceneIntersect(),
			LampEmission(),
			QueueEnqueue(),
			BackgroundBufferUpdate(),
			ShadeSurface(),
		},
	}
}

// Mark every slot as needing work and empty all queues. The first wave's
// buffer update stage claims the initial work units.
func DataInit() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(dataInit, func() error {
			tr.queues.ResetAll()
			err := tr.launch(tr.pool.Capacity(), func(_ *laneGroup, rayIndex int) {
				*tr.pool.Slot(rayIndex) = Slot{}
			})
			tr.pool.Reset(RayToRegenerate)
			return err
		})
	}
}

// Intersect active and freshly regenerated rays with the scene. Rays that
// miss all geometry move to the RayHitBackground state.
func SceneIntersect() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(sceneIntersect, func() error {
			return tr.launch(tr.activeGlobalSize(), func(_ *laneGroup, globalID int) {
				if rayIndex := tr.activeRayIndex(globalID); rayIndex != EmptySlot {
					tr.intersectSlot(rayIndex)
				}
			})
		})
	}
}

// Accumulate indirect lamp emission for active paths. This stage never
// changes slot states or queue contents.
func LampEmission() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(lampEmission, func() error {
			if !tr.cfg.LampMIS || tr.collab.Lamps == nil {
				return nil
			}
			return tr.launch(tr.activeGlobalSize(), func(_ *laneGroup, globalID int) {
				if rayIndex := tr.activeRayIndex(globalID); rayIndex != EmptySlot {
					tr.accumulateLampEmission(rayIndex)
				}
			})
		})
	}
}

// Rebuild both queues from the slot states. The hit-background queue is
// already empty here; BackgroundBufferUpdate resets it once per wave.
func QueueEnqueue() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(queueEnqueue, func() error {
			tr.queues.Reset(QueueActiveAndRegenerated)
			return tr.launch(tr.pool.Capacity(), func(g *laneGroup, rayIndex int) {
				switch tr.pool.State(rayIndex) {
				case RayActive, RayRegenerated:
					g.enqueue(QueueActiveAndRegenerated, rayIndex)
				case RayHitBackground, RayUpdateBuffer, RayToRegenerate:
					g.enqueue(QueueHitBgBuffUpdateToRegen, rayIndex)
				}
			})
		})
	}
}

// Drain the hit-background/update-buffer/to-regenerate queue: shade the
// background, flush completed samples and claim new work. Regenerated slots
// are appended to the active queue.
func BackgroundBufferUpdate() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(backgroundBufferUpdate, func() error {
			globalSize := tr.queues.Occupancy(QueueHitBgBuffUpdateToRegen)
			tr.queues.Reset(QueueHitBgBuffUpdateToRegen)
			return tr.launch(globalSize, func(g *laneGroup, globalID int) {
				rayIndex := tr.queues.Dequeue(QueueHitBgBuffUpdateToRegen, globalID)
				if rayIndex == EmptySlot {
					return
				}
				if tr.updateBuffer(rayIndex) {
					g.enqueue(QueueActiveAndRegenerated, rayIndex)
				}
			})
		})
	}
}

// Shade surface hits and set up the continuation rays. Terminated paths move
// to the RayUpdateBuffer state.
func ShadeSurface() PipelineStage {
	return func(tr *Tracer) (time.Duration, error) {
		return tr.timed(shadeSurface, func() error {
			return tr.launch(tr.activeGlobalSize(), func(_ *laneGroup, globalID int) {
				if rayIndex := tr.activeRayIndex(globalID); rayIndex != EmptySlot {
					tr.shadeSlot(rayIndex)
				}
			})
		})
	}
}
