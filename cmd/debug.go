package cmd

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/achilleasa/splitpath/film"
	"github.com/achilleasa/splitpath/log"
	"github.com/achilleasa/splitpath/scene"
	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

const debugTracerId = "wf-debug"

// Trace the whole frame as a single tile with a single tracer and display
// per-wave queue occupancy and ray state counts.
func Debug(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := parseOptions(ctx)
	if err != nil {
		return err
	}
	cfg := opts.Tracer
	cfg.Debug |= wavefront.CaptureWaveStats | wavefront.CheckQueueExclusivity | wavefront.CheckStateTransitions
	if ctx.Bool("log-waves") {
		cfg.Debug |= wavefront.LogWaves
		log.SetModuleLevel(wavefront.LoggerModule(debugTracerId), log.Debug)
	}

	sc := scene.Default(opts.FrameW, opts.FrameH, ctx.String("camera"))
	output := film.NewBuffer(opts.Passes)
	rngState := wavefront.NewRNGState(opts.FrameW, opts.FrameH, opts.Seed)

	tr, err := wavefront.NewTracer(debugTracerId, cfg, sc.Collaborators(output, rngState), nil)
	if err != nil {
		return err
	}
	defer tr.Close()

	stats, err := tr.TraceTile(context.Background(), wavefront.Tile{
		W:           opts.FrameW,
		H:           opts.FrameH,
		StartSample: opts.StartSample,
		NumSamples:  opts.SamplesPerPixel,
	})
	if err != nil {
		return err
	}

	displayWaveStats(stats)
	displayStageStats(stats)

	if out := ctx.String("out"); out != "" {
		frame := film.NewFrame(opts.FrameW, opts.FrameH, opts.Passes)
		if err = frame.Merge(output); err != nil {
			return err
		}
		return saveFrame(frame, out, float32(ctx.Float64("exposure")))
	}
	return nil
}

func displayWaveStats(stats *wavefront.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	header := []string{"Wave", "Active queue", "Hit bg queue"}
	for state := wavefront.RayActive; state <= wavefront.RayToRegenerate; state++ {
		header = append(header, state.String())
	}
	table.SetHeader(header)

	for _, ws := range stats.WaveLog {
		row := []string{
			fmt.Sprintf("%d", ws.Wave),
			fmt.Sprintf("%d", ws.ActiveQueue),
			fmt.Sprintf("%d", ws.HitBgQueue),
		}
		for state := wavefront.RayActive; state <= wavefront.RayToRegenerate; state++ {
			row = append(row, fmt.Sprintf("%d", ws.Count(state)))
		}
		table.Append(row)
	}

	table.Render()
	logger.Noticef("wave statistics\n%s", buf.String())
}

func displayStageStats(stats *wavefront.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Stage", "Time"})

	stages := make([]string, 0, len(stats.StageTime))
	for name := range stats.StageTime {
		stages = append(stages, name)
	}
	sort.Strings(stages)
	for _, name := range stages {
		table.Append([]string{name, stats.StageTime[name].String()})
	}
	table.SetFooter([]string{"TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("traced %d samples (%d degenerate) in %d waves\n%s", stats.SamplesWritten, stats.DegenerateRays, stats.Waves, buf.String())
}
