package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/splitpath/film"
	"github.com/achilleasa/splitpath/log"
	"github.com/achilleasa/splitpath/scene"
	"github.com/achilleasa/splitpath/tracer"
	"github.com/achilleasa/splitpath/tracer/wavefront"
	"golang.org/x/sync/errgroup"
)

type Renderer interface {
	// Render frame.
	Render(ctx context.Context) error

	// Get the accumulated frame.
	Frame() *film.Frame

	// Shutdown renderer and any attached tracer.
	Close()

	// Get render statistics.
	Stats() FrameStats
}

// A tracer together with the tile buffer it writes to.
type tracerBinding struct {
	tracer tracer.Tracer
	output *film.Buffer
	stat   TracerStat
}

type defaultRenderer struct {
	logger log.Logger

	opts      Options
	scheduler tracer.BlockScheduler
	tracers   []*tracerBinding
	frame     *film.Frame
	rngState  *wavefront.RNGState
	stats     FrameStats
}

// Create a renderer that traces the scene with a set of wavefront tracers.
func NewDefault(sc *scene.Scene, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrame
	}
	if opts.NumTracers <= 0 {
		return nil, ErrNoTracers
	}

	r := &defaultRenderer{
		logger:   log.New("renderer"),
		opts:     opts,
		frame:    film.NewFrame(opts.FrameW, opts.FrameH, opts.Passes),
		rngState: wavefront.NewRNGState(opts.FrameW, opts.FrameH, opts.Seed),
	}

	if opts.CenterFirst {
		r.scheduler = tracer.CenterScheduler(opts.TileW, opts.TileH)
	} else {
		r.scheduler = tracer.RowScheduler(opts.TileW, opts.TileH)
	}

	for index := 0; index < opts.NumTracers; index++ {
		id := fmt.Sprintf("wf-%d", index)
		output := film.NewBuffer(opts.Passes)
		tr, err := wavefront.NewTracer(id, opts.Tracer, sc.Collaborators(output, r.rngState), nil)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, &tracerBinding{
			tracer: tr,
			output: output,
			stat:   TracerStat{Id: id},
		})
	}

	r.logger.Infof("attached %d wavefront tracers", len(r.tracers))
	return r, nil
}

// Render a frame. Tiles are handed out to the tracers as they become idle.
func (r *defaultRenderer) Render(ctx context.Context) error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	start := time.Now()
	blocks := r.scheduler.Schedule(r.opts.FrameW, r.opts.FrameH)
	r.frame.Clear()

	blockCh := make(chan tracer.BlockRequest, len(blocks))
	for _, block := range blocks {
		block.StartSample = r.opts.StartSample
		block.SamplesPerPixel = r.opts.SamplesPerPixel
		blockCh <- block
	}
	close(blockCh)

	totalPixels := float32(r.opts.FrameW * r.opts.FrameH)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, binding := range r.tracers {
		binding.stat = TracerStat{Id: binding.tracer.Id()}
		eg.Go(func() error {
			for block := range blockCh {
				trStats, err := binding.tracer.Trace(egCtx, &block)
				if err != nil {
					return err
				}
				if err = r.frame.Merge(binding.output); err != nil {
					return err
				}

				binding.stat.Blocks++
				binding.stat.FramePercent += 100.0 * float32(block.Pixels()) / totalPixels
				binding.stat.Waves += trStats.Waves
				binding.stat.SamplesWritten += trStats.SamplesWritten
				binding.stat.RenderTime += trStats.RenderTime
			}
			return nil
		})
	}

	err := eg.Wait()
	if errors.Is(err, wavefront.ErrInterrupted) {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	} else if err != nil {
		return err
	}

	r.stats = FrameStats{RenderTime: time.Since(start)}
	for _, binding := range r.tracers {
		r.stats.Tracers = append(r.stats.Tracers, binding.stat)
	}
	r.logger.Noticef("rendered %dx%d frame (%d blocks) in %s", r.opts.FrameW, r.opts.FrameH, len(blocks), r.stats.RenderTime)
	return nil
}

func (r *defaultRenderer) Frame() *film.Frame {
	return r.frame
}

func (r *defaultRenderer) Close() {
	for _, binding := range r.tracers {
		binding.tracer.Close()
	}
	r.tracers = nil
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
