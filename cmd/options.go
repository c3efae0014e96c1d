package cmd

import (
	"fmt"

	"github.com/achilleasa/splitpath/film"
	"github.com/achilleasa/splitpath/renderer"
	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/urfave/cli"
)

// Flags shared by the render and debug commands.
var TracerFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "width",
		Value: 512,
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Value: 512,
		Usage: "frame height",
	},
	cli.IntFlag{
		Name:  "spp",
		Value: 16,
		Usage: "samples per pixel",
	},
	cli.IntFlag{
		Name:  "start-sample",
		Value: 0,
		Usage: "number of the first sample",
	},
	cli.IntFlag{
		Name:  "num-bounces",
		Value: 8,
		Usage: "max number of bounces",
	},
	cli.IntFlag{
		Name:  "pool-size",
		Value: 64 * 1024,
		Usage: "number of concurrently resident paths per tracer",
	},
	cli.IntFlag{
		Name:  "lanes",
		Value: 0,
		Usage: "number of lanes per tracer; 0 uses all available CPUs",
	},
	cli.IntFlag{
		Name:  "lane-group-size",
		Value: 64,
		Usage: "number of consecutive slots processed by a lane group",
	},
	cli.StringFlag{
		Name:  "work-policy",
		Value: wavefront.WorkStealing.String(),
		Usage: "work assignment policy (work-stealing, static)",
	},
	cli.IntFlag{
		Name:  "work-pools",
		Value: 0,
		Usage: "number of work stealing pool entries; 0 uses one per lane",
	},
	cli.IntFlag{
		Name:  "regenerate-retries",
		Value: 1,
		Usage: "work units a slot may claim per wave after a degenerate camera ray",
	},
	cli.BoolFlag{
		Name:  "transparent",
		Usage: "render the background as transparent",
	},
	cli.BoolFlag{
		Name:  "no-lamp-mis",
		Usage: "disable multiple importance sampling against lamps",
	},
	cli.BoolFlag{
		Name:  "no-queues",
		Usage: "visit every pool slot instead of iterating the active queue",
	},
	cli.Float64Flag{
		Name:  "clamp-direct",
		Value: 0,
		Usage: "clamp direct radiance components; 0 disables clamping",
	},
	cli.Float64Flag{
		Name:  "clamp-indirect",
		Value: 0,
		Usage: "clamp indirect radiance components; 0 disables clamping",
	},
	cli.StringSliceFlag{
		Name:  "pass",
		Value: &cli.StringSlice{},
		Usage: "additional output pass (background, emission, all)",
	},
	cli.StringFlag{
		Name:  "camera",
		Value: "perspective",
		Usage: "camera model (perspective, fisheye)",
	},
	cli.IntFlag{
		Name:  "seed",
		Value: 0,
		Usage: "random number seed",
	},
	cli.BoolFlag{
		Name:  "check",
		Usage: "verify queue exclusivity and state transitions after every stage",
	},
}

// Build renderer options from the command line flags.
func parseOptions(ctx *cli.Context) (renderer.Options, error) {
	passes, err := film.ParsePasses(ctx.StringSlice("pass"))
	if err != nil {
		return renderer.Options{}, err
	}

	policy, err := wavefront.ParseWorkPolicy(ctx.String("work-policy"))
	if err != nil {
		return renderer.Options{}, err
	}

	if ctx.Int("width") <= 0 || ctx.Int("height") <= 0 {
		return renderer.Options{}, fmt.Errorf("invalid frame dimensions %dx%d", ctx.Int("width"), ctx.Int("height"))
	}

	cfg := wavefront.DefaultConfig()
	cfg.PoolSize = ctx.Int("pool-size")
	if lanes := ctx.Int("lanes"); lanes > 0 {
		cfg.NumLanes = lanes
	}
	cfg.LaneGroupSize = ctx.Int("lane-group-size")
	cfg.WorkPolicy = policy
	cfg.NumWorkPools = ctx.Int("work-pools")
	cfg.MaxBounces = uint32(ctx.Int("num-bounces"))
	cfg.MaxRegenerateRetries = ctx.Int("regenerate-retries")
	cfg.TransparentBackground = ctx.Bool("transparent")
	cfg.BackgroundPass = passes&film.PassBackground != 0
	cfg.LampMIS = !ctx.Bool("no-lamp-mis")
	cfg.UseQueues = !ctx.Bool("no-queues")
	cfg.SampleClampDirect = float32(ctx.Float64("clamp-direct"))
	cfg.SampleClampIndirect = float32(ctx.Float64("clamp-indirect"))
	if ctx.Bool("check") {
		cfg.Debug |= wavefront.CheckQueueExclusivity | wavefront.CheckStateTransitions
	}

	return renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		StartSample:     uint32(ctx.Int("start-sample")),
		Seed:            uint32(ctx.Int("seed")),
		Passes:          passes,
		Tracer:          cfg,
	}, nil
}
