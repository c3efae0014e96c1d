package film

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/achilleasa/splitpath/types"
)

func TestBufferConcurrentWrites(t *testing.T) {
	buf := NewBuffer(PassEmission)
	tile := wavefront.Tile{W: 2, H: 2, NumSamples: 64}
	if err := buf.Reset(tile, 4); err != nil {
		t.Fatal(err)
	}

	radiance := &wavefront.PathRadiance{Emission: types.XYZ(0.25, 0, 0)}
	var wg sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for index := uint32(worker); index < tile.TotalWork(); index += 8 {
				unit := tile.WorkUnit(index, 4)
				buf.WriteSample(unit, types.XYZW(1, 0.5, 0, 1), radiance)
			}
		}(worker)
	}
	wg.Wait()

	for y := uint32(0); y < 2; y++ {
		for x := uint32(0); x < 2; x++ {
			if got := buf.Samples(x, y); got != 64 {
				t.Fatalf("expected 64 samples for pixel (%d, %d); got %d", x, y, got)
			}

			sum, err := buf.Sum(x, y, PassCombined)
			if err != nil {
				t.Fatal(err)
			}
			exp := types.XYZW(64, 32, 0, 64)
			if sum != exp {
				t.Fatalf("expected combined sum for pixel (%d, %d) to be %v; got %v", x, y, exp, sum)
			}

			sum, err = buf.Sum(x, y, PassEmission)
			if err != nil {
				t.Fatal(err)
			}
			if sum[0] != 16 {
				t.Fatalf("expected emission sum for pixel (%d, %d) to be 16; got %f", x, y, sum[0])
			}
		}
	}

	if _, err := buf.Sum(0, 0, PassBackground); !errors.Is(err, ErrPassDisabled) {
		t.Fatalf("expected to get ErrPassDisabled; got %v", err)
	}
}

func TestBufferDegenerateSample(t *testing.T) {
	buf := NewBuffer(allPasses)
	tile := wavefront.Tile{W: 1, H: 1, NumSamples: 1}
	buf.Reset(tile, 1)

	buf.WriteSample(tile.WorkUnit(0, 1), types.Vec4{}, nil)
	if buf.Samples(0, 0) != 1 {
		t.Fatalf("expected degenerate sample to be counted; got %d", buf.Samples(0, 0))
	}
	for _, pass := range []PassFlag{PassCombined, PassBackground, PassEmission} {
		sum, _ := buf.Sum(0, 0, pass)
		if sum != (types.Vec4{}) {
			t.Fatalf("expected %s pass to be empty; got %v", pass, sum)
		}
	}
}

func TestBufferResetClears(t *testing.T) {
	buf := NewBuffer(PassCombined)
	tile := wavefront.Tile{W: 2, H: 1, NumSamples: 2}
	buf.Reset(tile, 2)
	buf.WriteSample(tile.WorkUnit(1, 2), types.XYZW(1, 1, 1, 1), nil)

	buf.Reset(tile, 2)
	if buf.Samples(1, 0) != 0 {
		t.Fatalf("expected reset to clear sample counts; got %d", buf.Samples(1, 0))
	}
	sum, _ := buf.Sum(1, 0, PassCombined)
	if sum != (types.Vec4{}) {
		t.Fatalf("expected reset to clear data; got %v", sum)
	}
}

func TestFrameMerge(t *testing.T) {
	frame := NewFrame(4, 2, PassBackground)

	for _, tile := range []wavefront.Tile{
		{X: 0, Y: 0, W: 2, H: 2, NumSamples: 2},
		{X: 2, Y: 0, W: 2, H: 2, NumSamples: 2},
	} {
		buf := NewBuffer(PassBackground)
		buf.Reset(tile, 1)
		for index := uint32(0); index < tile.TotalWork(); index++ {
			unit := tile.WorkUnit(index, 1)
			L := types.XYZW(float32(unit.X), float32(unit.Y), 0, 1)
			buf.WriteSample(unit, L, &wavefront.PathRadiance{Background: types.XYZ(0, 0, 1)})
		}
		if err := frame.Merge(buf); err != nil {
			t.Fatal(err)
		}
	}

	for y := uint32(0); y < 2; y++ {
		for x := uint32(0); x < 4; x++ {
			if frame.Samples(x, y) != 2 {
				t.Fatalf("expected 2 samples for pixel (%d, %d); got %d", x, y, frame.Samples(x, y))
			}
			v, err := frame.Pixel(x, y, PassCombined)
			if err != nil {
				t.Fatal(err)
			}
			exp := types.XYZW(float32(x), float32(y), 0, 1)
			if v != exp {
				t.Fatalf("expected pixel (%d, %d) to be %v; got %v", x, y, exp, v)
			}
			bg, _ := frame.Pixel(x, y, PassBackground)
			if bg[2] != 1 {
				t.Fatalf("expected background pass for pixel (%d, %d) to be 1; got %f", x, y, bg[2])
			}
		}
	}

	outside := NewBuffer(PassCombined)
	outside.Reset(wavefront.Tile{X: 3, Y: 0, W: 2, H: 1, NumSamples: 1}, 1)
	if err := frame.Merge(outside); !errors.Is(err, ErrTileOutOfFrame) {
		t.Fatalf("expected to get ErrTileOutOfFrame; got %v", err)
	}

	if _, err := frame.Pixel(0, 0, PassEmission); !errors.Is(err, ErrPassDisabled) {
		t.Fatalf("expected to get ErrPassDisabled; got %v", err)
	}
}

func TestFrameSavePNG(t *testing.T) {
	frame := NewFrame(2, 1, PassCombined)
	tile := wavefront.Tile{W: 2, H: 1, NumSamples: 1}
	buf := NewBuffer(PassCombined)
	buf.Reset(tile, 1)
	buf.WriteSample(tile.WorkUnit(0, 1), types.XYZW(1, 1, 1, 1), nil)
	buf.WriteSample(tile.WorkUnit(1, 1), types.XYZW(0, 0, 0, 0), nil)
	if err := frame.Merge(buf); err != nil {
		t.Fatal(err)
	}

	imgFile := filepath.Join(t.TempDir(), "frame.png")
	if err := frame.SavePNG(imgFile, PassCombined, 1.0); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(imgFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	im, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if im.Bounds().Dx() != 2 || im.Bounds().Dy() != 1 {
		t.Fatalf("expected image dims to be 2x1; got %dx%d", im.Bounds().Dx(), im.Bounds().Dy())
	}

	_, _, _, a := im.At(1, 0).RGBA()
	if a != 0 {
		t.Fatalf("expected transparent pixel to have zero alpha; got %d", a)
	}
	r, _, _, a := im.At(0, 0).RGBA()
	if a != 0xffff || r == 0 {
		t.Fatalf("expected opaque lit pixel; got r=%d a=%d", r, a)
	}
}
