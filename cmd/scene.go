package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/splitpath/scene"
	"github.com/achilleasa/splitpath/types"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display the contents of the built-in scene.
func DescribeScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc := scene.Default(uint32(ctx.Int("width")), uint32(ctx.Int("height")), ctx.String("camera"))

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Object", "Center", "Radius", "Albedo", "Emission"})
	for index, sphere := range sc.Geometry.Spheres {
		mat := sc.Geometry.Materials[sphere.Material]
		table.Append([]string{
			fmt.Sprintf("sphere %d", index),
			fmtVec(sphere.Center),
			fmt.Sprintf("%.2f", sphere.Radius),
			fmtVec(mat.Albedo),
			fmtVec(mat.Emission),
		})
	}
	for index, lamp := range sc.Lamps {
		table.Append([]string{
			fmt.Sprintf("lamp %d", index),
			fmtVec(lamp.Center),
			fmt.Sprintf("%.2f", lamp.Radius),
			"-",
			fmtVec(lamp.Emission),
		})
	}

	table.Render()
	logger.Noticef("scene information:\n%s", buf.String())
	return nil
}

func fmtVec(v types.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}
