package renderer

import (
	"github.com/achilleasa/splitpath/film"
	"github.com/achilleasa/splitpath/tracer/wavefront"
)

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Tile dims. Zero selects the full frame width/height.
	TileW uint32
	TileH uint32

	// Visit tiles from the frame center outwards instead of row by row.
	CenterFirst bool

	// Number of samples and the first sample number.
	SamplesPerPixel uint32
	StartSample     uint32

	// Seed for the per-pixel random number state.
	Seed uint32

	// Exposure for tonemapping.
	Exposure float32

	// Output passes.
	Passes film.PassFlag

	// Number of wavefront tracers that process tiles concurrently.
	NumTracers int

	// Wavefront scheduler configuration shared by all tracers.
	Tracer wavefront.Config
}
