package film

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/achilleasa/splitpath/types"
)

// Accumulates resolved tile buffers into a full frame. Tiles never overlap so
// buffers for different tiles may be merged concurrently.
type Frame struct {
	W, H   uint32
	passes PassFlag

	// Per-pixel sums for each enabled pass.
	data []float32

	// Per-pixel sample counts.
	samples []uint32
}

// Allocate a frame.
func NewFrame(frameW, frameH uint32, passes PassFlag) *Frame {
	passes |= PassCombined
	return &Frame{
		W:       frameW,
		H:       frameH,
		passes:  passes,
		data:    make([]float32, frameW*frameH*passes.Stride()),
		samples: make([]uint32, frameW*frameH),
	}
}

// Get the enabled passes.
func (f *Frame) Passes() PassFlag {
	return f.passes
}

// Clear accumulated samples.
func (f *Frame) Clear() {
	for i := range f.data {
		f.data[i] = 0
	}
	for i := range f.samples {
		f.samples[i] = 0
	}
}

// Add the contents of a tile buffer to the frame.
func (f *Frame) Merge(b *Buffer) error {
	tile := b.Tile()
	if tile.X+tile.W > f.W || tile.Y+tile.H > f.H {
		return ErrTileOutOfFrame
	}

	stride := f.passes.Stride()
	for ty := uint32(0); ty < tile.H; ty++ {
		for tx := uint32(0); tx < tile.W; tx++ {
			pixel := (tile.Y+ty)*f.W + tile.X + tx
			f.samples[pixel] += b.Samples(tx, ty)

			for pass := PassCombined; pass <= PassEmission; pass <<= 1 {
				dstOffset, ok := f.passes.Offset(pass)
				if !ok {
					continue
				}
				sum, err := b.Sum(tx, ty, pass)
				if err != nil {
					// Pass not rendered by this buffer.
					continue
				}
				base := pixel*stride + dstOffset
				for c := 0; c < channelsPerPass; c++ {
					f.data[base+uint32(c)] += sum[c]
				}
			}
		}
	}
	return nil
}

// Get the number of samples accumulated for a pixel.
func (f *Frame) Samples(x, y uint32) uint32 {
	return f.samples[y*f.W+x]
}

// Get the average value of a pixel for a pass.
func (f *Frame) Pixel(x, y uint32, pass PassFlag) (types.Vec4, error) {
	offset, ok := f.passes.Offset(pass)
	if !ok {
		return types.Vec4{}, ErrPassDisabled
	}

	pixel := y*f.W + x
	samples := f.samples[pixel]
	if samples == 0 {
		return types.Vec4{}, nil
	}

	base := pixel*f.passes.Stride() + offset
	v := types.Vec4{f.data[base], f.data[base+1], f.data[base+2], f.data[base+3]}
	return v.Mul(1.0 / float32(samples)), nil
}

// Tonemap a pass into an 8-bit image using the simple Reinhard operator
// followed by gamma correction. Alpha is taken from the combined pass.
func (f *Frame) Image(pass PassFlag, exposure float32) (*image.RGBA, error) {
	if _, ok := f.passes.Offset(pass); !ok {
		return nil, ErrPassDisabled
	}

	im := image.NewRGBA(image.Rect(0, 0, int(f.W), int(f.H)))
	for y := uint32(0); y < f.H; y++ {
		for x := uint32(0); x < f.W; x++ {
			v, _ := f.Pixel(x, y, pass)
			alpha := float32(1.0)
			if pass == PassCombined {
				alpha = clamp01(v[3])
			}
			im.SetRGBA(int(x), int(y), color.RGBA{
				R: toByte(reinhard(v[0], exposure) * alpha),
				G: toByte(reinhard(v[1], exposure) * alpha),
				B: toByte(reinhard(v[2], exposure) * alpha),
				A: toByte(alpha),
			})
		}
	}
	return im, nil
}

// Tonemap a pass and write it to a png file.
func (f *Frame) SavePNG(imgFile string, pass PassFlag, exposure float32) error {
	im, err := f.Image(pass, exposure)
	if err != nil {
		return err
	}

	out, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, im)
}

func reinhard(v, exposure float32) float32 {
	v *= exposure
	if v <= 0 {
		return 0
	}
	v = v / (1.0 + v)
	return float32(math.Pow(float64(v), 1.0/2.2))
}

func clamp01(v float32) float32 {
	return float32(math.Min(1.0, math.Max(0.0, float64(v))))
}

func toByte(v float32) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}
