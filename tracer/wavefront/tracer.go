package wavefront

import (
	"context"
	"fmt"
	"time"

	"github.com/achilleasa/splitpath/log"
	"github.com/achilleasa/splitpath/tracer"
)

// A wavefront path tracer. The tracer keeps a fixed pool of in-flight paths
// and advances all of them one stage at a time; slots whose paths terminate
// are refilled with new work until the tile is exhausted.
type Tracer struct {
	logger log.Logger

	// The tracer id.
	id string

	cfg      Config
	collab   Collaborators
	pipeline *Pipeline

	pool   *RayPool
	queues *QueueSet
	work   WorkDistributor

	// The tile being traced and the current wave.
	tile Tile
	wave int

	counters  counters
	stageTime [numStages]time.Duration
	waveLog   []WaveStats

	// Statistics for the last traced tile.
	stats *Stats
}

// Create a new wavefront tracer. A nil pipeline selects DefaultPipeline.
func NewTracer(id string, cfg Config, collab Collaborators, pipeline *Pipeline) (*Tracer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := collab.validate(); err != nil {
		return nil, err
	}
	if pipeline == nil {
		pipeline = DefaultPipeline()
	}

	work, err := NewWorkDistributor(cfg.WorkPolicy, cfg.PoolSize, cfg.NumWorkPools)
	if err != nil {
		return nil, err
	}

	pool := NewRayPool(cfg.PoolSize)
	tr := &Tracer{
		logger:   log.New(LoggerModule(id)),
		id:       id,
		cfg:      cfg,
		collab:   collab,
		pipeline: pipeline,
		pool:     pool,
		queues:   NewQueueSet(pool),
		work:     work,
		stats:    &Stats{},
	}

	if cfg.Debug&CheckStateTransitions == CheckStateTransitions {
		pool.observer = func(rayIndex int, from, to RayState) {
			if !IsValidTransition(from, to) {
				tr.counters.badTransitions.Add(1)
				tr.logger.Errorf("slot %d: invalid transition %s -> %s in wave %d", rayIndex, from, to, tr.wave)
			}
		}
	}

	tr.logger.Infof("ray pool: %d slots, %d lanes (group size %d), %s work policy", cfg.PoolSize, cfg.NumLanes, cfg.LaneGroupSize, cfg.WorkPolicy)
	return tr, nil
}

// Get the name of the logger module used by the tracer with the given id.
func LoggerModule(id string) string {
	return fmt.Sprintf("wavefront tracer (%s)", id)
}

// Get tracer id.
func (tr *Tracer) Id() string {
	return tr.id
}

// Release tracer resources.
func (tr *Tracer) Close() {
	tr.pool = nil
	tr.queues = nil
}

// Get the ray pool.
func (tr *Tracer) Pool() *RayPool {
	return tr.pool
}

// Get the queue set.
func (tr *Tracer) Queues() *QueueSet {
	return tr.queues
}

// Retrieve statistics for the last traced tile.
func (tr *Tracer) LastStats() *Stats {
	return tr.stats
}

// Trace a block and report statistics in the format expected by the renderer.
func (tr *Tracer) Trace(ctx context.Context, blockReq *tracer.BlockRequest) (*tracer.Stats, error) {
	stats, err := tr.TraceTile(ctx, Tile{
		X:           blockReq.BlockX,
		Y:           blockReq.BlockY,
		W:           blockReq.BlockW,
		H:           blockReq.BlockH,
		StartSample: blockReq.StartSample,
		NumSamples:  blockReq.SamplesPerPixel,
	})
	if err != nil {
		return nil, err
	}

	return &tracer.Stats{
		BlockW:         blockReq.BlockW,
		BlockH:         blockReq.BlockH,
		Waves:          stats.Waves,
		SamplesWritten: stats.SamplesWritten,
		RenderTime:     stats.RenderTime,
	}, nil
}

// Trace all samples of a tile. The call returns once every slot in the pool
// has become inactive.
func (tr *Tracer) TraceTile(ctx context.Context, tile Tile) (*Stats, error) {
	if tile.W == 0 || tile.H == 0 {
		return nil, ErrInvalidTile
	}

	start := time.Now()
	if err := tr.reset(tile); err != nil {
		return nil, err
	}

	if _, err := tr.pipeline.Reset(tr); err != nil {
		return nil, err
	}

	for tr.wave = 0; !tr.terminated(); tr.wave++ {
		if tr.cfg.MaxWaves > 0 && tr.wave >= tr.cfg.MaxWaves {
			return nil, fmt.Errorf("%w: %d waves", ErrWaveLimitExceeded, tr.wave)
		}

		// Waves are never interrupted half-way.
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
		default:
		}

		for _, stage := range tr.pipeline.Wave {
			if tr.cfg.Debug&CheckQueueExclusivity == CheckQueueExclusivity {
				if err := tr.queues.CheckExclusive(); err != nil {
					return nil, fmt.Errorf("wave %d: %w", tr.wave, err)
				}
			}
			if _, err := stage(tr); err != nil {
				return nil, fmt.Errorf("wave %d: %w", tr.wave, err)
			}
		}

		if n := tr.counters.badTransitions.Load(); n != 0 {
			return nil, fmt.Errorf("%w: %d transitions in wave %d", ErrInvalidTransition, n, tr.wave)
		}
		tr.captureWave()
	}

	tr.stats = &Stats{
		Tile:           tile,
		Waves:          tr.wave,
		SamplesWritten: tr.counters.samplesWritten.Load(),
		DegenerateRays: tr.counters.degenerateRays.Load(),
		Regenerated:    tr.counters.regenerated.Load(),
		StageTime:      make(map[string]time.Duration, numStages),
		WaveLog:        tr.waveLog,
		RenderTime:     time.Since(start),
	}
	for st := stageType(0); st < numStages; st++ {
		tr.stats.StageTime[st.String()] = tr.stageTime[st]
	}

	tr.logger.Noticef("traced tile %dx%d@(%d, %d) with %d samples in %d waves (%s)", tile.W, tile.H, tile.X, tile.Y, tile.NumSamples, tr.stats.Waves, tr.stats.RenderTime)
	return tr.stats, nil
}

func (tr *Tracer) reset(tile Tile) error {
	if err := tr.work.Reset(tile); err != nil {
		return err
	}
	if err := tr.collab.Output.Reset(tile, tr.work.ParallelSamples()); err != nil {
		return err
	}

	tr.tile = tile
	tr.wave = 0
	tr.counters.reset()
	tr.stageTime = [numStages]time.Duration{}
	tr.waveLog = nil
	return nil
}

// The tile is complete when every slot is inactive and nothing is left in
// the active queue.
func (tr *Tracer) terminated() bool {
	return tr.pool.NumInactive() == tr.pool.Capacity() &&
		tr.queues.Occupancy(QueueActiveAndRegenerated) == 0
}

// Run a stage body and account its execution time.
func (tr *Tracer) timed(st stageType, fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	tr.stageTime[st] += elapsed
	return elapsed, err
}

func (tr *Tracer) captureWave() {
	capture := tr.cfg.Debug&CaptureWaveStats == CaptureWaveStats
	logWave := tr.cfg.Debug&LogWaves == LogWaves && log.IsEnabledFor(LoggerModule(tr.id), log.Debug)
	if !capture && !logWave {
		return
	}

	ws := WaveStats{
		Wave:        tr.wave,
		ActiveQueue: tr.queues.Occupancy(QueueActiveAndRegenerated),
		HitBgQueue:  tr.queues.Occupancy(QueueHitBgBuffUpdateToRegen),
		States:      tr.pool.Histogram(),
	}
	if capture {
		tr.waveLog = append(tr.waveLog, ws)
	}
	if logWave {
		tr.logger.Debugf(
			"wave %d: active queue %d, hitbg queue %d, active %d, inactive %d, update-buffer %d, to-regenerate %d",
			ws.Wave, ws.ActiveQueue, ws.HitBgQueue,
			ws.Count(RayActive), ws.Count(RayInactive), ws.Count(RayUpdateBuffer), ws.Count(RayToRegenerate),
		)
	}
}
