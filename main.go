package main

import (
	"os"

	"github.com/achilleasa/splitpath/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "splitpath"
	app.Usage = "render scenes with a wavefront path tracer"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render scene",
			Description: `
Split the frame into tiles and render them using a set of wavefront tracers.
Each tracer keeps a fixed pool of in-flight paths and advances them in waves
until every sample of its tile has been written to the output buffer.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "tile-width",
					Value: 64,
					Usage: "tile width; 0 uses the frame width",
				},
				cli.IntFlag{
					Name:  "tile-height",
					Value: 64,
					Usage: "tile height; 0 uses the frame height",
				},
				cli.BoolFlag{
					Name:  "center-first",
					Usage: "render tiles closest to the frame center first",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: 1,
					Usage: "number of tracers processing tiles concurrently",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, cmd.TracerFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "debug",
			Usage: "trace the frame as a single tile and display per-wave statistics",
			Flags: append([]cli.Flag{
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "",
					Usage: "optional image filename for the traced frame",
				},
				cli.BoolFlag{
					Name:  "log-waves",
					Usage: "log queue occupancy and ray state counts after every wave",
				},
			}, cmd.TracerFlags...),
			Action: cmd.Debug,
		},
		{
			Name:  "scene",
			Usage: "display the built-in scene",
			Flags: []cli.Flag{
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
				cli.StringFlag{
					Name:  "camera",
					Value: "perspective",
					Usage: "camera model (perspective, fisheye)",
				},
			},
			Action: cmd.DescribeScene,
		},
	}

	app.Run(os.Args)
}
