package scene

import (
	"math"

	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/achilleasa/splitpath/types"
)

// Camera basis shared by all camera models.
type frame struct {
	eye                  types.Vec3
	right, up, forward   types.Vec3
	frameW, frameH       uint32
	invFrameW, invFrameH float32
}

func newFrame(eye, lookAt, up types.Vec3, frameW, frameH uint32) frame {
	forward := lookAt.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()
	return frame{
		eye:       eye,
		right:     right,
		up:        right.Cross(forward),
		forward:   forward,
		frameW:    frameW,
		frameH:    frameH,
		invFrameW: 1.0 / float32(frameW),
		invFrameH: 1.0 / float32(frameH),
	}
}

// Get the jittered position of a sample in normalized device coordinates.
func (f *frame) ndc(x, y uint32, rng *wavefront.RNG) (float32, float32) {
	u := (float32(x) + rng.Float()) * f.invFrameW
	v := (float32(y) + rng.Float()) * f.invFrameH
	return 2.0*u - 1.0, 1.0 - 2.0*v
}

// A perspective camera. Implements wavefront.Camera.
type PinholeCamera struct {
	frame
	tanHalfFov float32
	aspect     float32
}

// Create a perspective camera with the given vertical field of view in degrees.
func NewPinholeCamera(eye, lookAt, up types.Vec3, fovY float32, frameW, frameH uint32) *PinholeCamera {
	return &PinholeCamera{
		frame:      newFrame(eye, lookAt, up, frameW, frameH),
		tanHalfFov: float32(math.Tan(float64(fovY) * math.Pi / 360.0)),
		aspect:     float32(frameW) / float32(frameH),
	}
}

func (c *PinholeCamera) GenerateRay(x, y, _ uint32, rng *wavefront.RNG) wavefront.Ray {
	px, py := c.ndc(x, y, rng)
	dir := c.forward.
		Add(c.right.Mul(px * c.aspect * c.tanHalfFov)).
		Add(c.up.Mul(py * c.tanHalfFov)).
		Normalize()
	return wavefront.Ray{Origin: c.eye, Direction: dir, T: math.MaxFloat32}
}

// An equidistant fisheye camera. Samples that fall outside the image circle
// produce zero length rays.
type FisheyeCamera struct {
	frame
	fov float32
}

// Create a fisheye camera with the given field of view in degrees.
func NewFisheyeCamera(eye, lookAt, up types.Vec3, fov float32, frameW, frameH uint32) *FisheyeCamera {
	return &FisheyeCamera{
		frame: newFrame(eye, lookAt, up, frameW, frameH),
		fov:   fov * math.Pi / 180.0,
	}
}

func (c *FisheyeCamera) GenerateRay(x, y, _ uint32, rng *wavefront.RNG) wavefront.Ray {
	px, py := c.ndc(x, y, rng)
	if c.frameW > c.frameH {
		px *= float32(c.frameW) / float32(c.frameH)
	} else {
		py *= float32(c.frameH) / float32(c.frameW)
	}

	r := float32(math.Sqrt(float64(px*px + py*py)))
	if r > 1.0 {
		return wavefront.Ray{Origin: c.eye}
	}

	theta := float64(r * c.fov * 0.5)
	phi := math.Atan2(float64(py), float64(px))
	sinTheta := float32(math.Sin(theta))
	dir := c.forward.Mul(float32(math.Cos(theta))).
		Add(c.right.Mul(sinTheta * float32(math.Cos(phi)))).
		Add(c.up.Mul(sinTheta * float32(math.Sin(phi)))).
		Normalize()
	return wavefront.Ray{Origin: c.eye, Direction: dir, T: math.MaxFloat32}
}
