package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/achilleasa/splitpath/film"
	"github.com/achilleasa/splitpath/renderer"
	"github.com/achilleasa/splitpath/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := parseOptions(ctx)
	if err != nil {
		return err
	}
	opts.TileW = uint32(ctx.Int("tile-width"))
	opts.TileH = uint32(ctx.Int("tile-height"))
	opts.CenterFirst = ctx.Bool("center-first")
	opts.NumTracers = ctx.Int("tracers")
	opts.Exposure = float32(ctx.Float64("exposure"))

	sc := scene.Default(opts.FrameW, opts.FrameH, ctx.String("camera"))

	r, err := renderer.NewDefault(sc, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %dx%d frame at %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	if err = r.Render(renderCtx); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	return saveFrame(r.Frame(), ctx.String("out"), opts.Exposure)
}

// Save the combined pass to imgFile and every other enabled pass to a file
// with the pass name appended to the base name.
func saveFrame(frame *film.Frame, imgFile string, exposure float32) error {
	ext := filepath.Ext(imgFile)
	base := strings.TrimSuffix(imgFile, ext)

	for _, pass := range []film.PassFlag{film.PassCombined, film.PassBackground, film.PassEmission} {
		if frame.Passes()&pass == 0 {
			continue
		}

		passFile := imgFile
		if pass != film.PassCombined {
			passFile = fmt.Sprintf("%s-%s%s", base, pass, ext)
		}

		if err := frame.SavePNG(passFile, pass, exposure); err != nil {
			return err
		}
		logger.Noticef("saved %s pass to %s", pass, passFile)
	}

	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Blocks", "% of frame", "Waves", "Samples", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Blocks),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Waves),
			fmt.Sprintf("%d", stat.SamplesWritten),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
