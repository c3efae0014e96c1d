package wavefront

import (
	"math"

	"github.com/achilleasa/splitpath/types"
)

// A ray segment.
type Ray struct {
	Origin    types.Vec3
	Direction types.Vec3

	// Maximum distance along the ray. Camera rays with a zero length are
	// degenerate and never enter path iteration.
	T float32

	// Shutter time.
	Time float32
}

// Get the point at distance t along the ray.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Closest intersection of a ray with the scene.
type Intersection struct {
	// Distance to the hit point.
	T float32

	Position types.Vec3
	Normal   types.Vec3

	// Scene-specific ids passed back to the shader.
	Object   uint32
	Material uint32
}

type PathFlag uint32

const (
	// The path has not scattered yet.
	PathCameraRay PathFlag = 1 << iota

	// The last bounce sampled a delta distribution; MIS does not apply.
	PathSingular
)

// Integrator state for a path.
type PathState struct {
	Flags  PathFlag
	Bounce uint32

	// The absolute sample number for this path.
	Sample uint32

	// Distance travelled since the last non-transparent bounce. Lamp MIS
	// reconstructs the full segment from this value.
	RayT float32

	// Pdf of the direction sampled at the last bounce. Together with
	// PathSingular it is consumed by Lamps implementations that apply MIS.
	RayPdf float32
}

// Accumulated radiance for a path, split by contribution type.
type PathRadiance struct {
	// Contributions seen directly by the camera ray.
	Direct types.Vec3

	// Contributions collected after at least one bounce.
	Indirect types.Vec3

	// Per-pass breakdown.
	Background types.Vec3
	Emission   types.Vec3
}

// Clear all accumulated radiance.
func (L *PathRadiance) Reset() {
	*L = PathRadiance{}
}

func (L *PathRadiance) accum(contrib types.Vec3, bounce uint32) {
	if bounce == 0 {
		L.Direct = L.Direct.Add(contrib)
	} else {
		L.Indirect = L.Indirect.Add(contrib)
	}
}

// Accumulate surface or lamp emission weighted by the path throughput.
func (L *PathRadiance) AccumEmission(throughput, emission types.Vec3, bounce uint32) {
	contrib := throughput.MulVec(emission)
	L.Emission = L.Emission.Add(contrib)
	L.accum(contrib, bounce)
}

// Accumulate background radiance weighted by the path throughput.
func (L *PathRadiance) AccumBackground(throughput, background types.Vec3, bounce uint32) {
	contrib := throughput.MulVec(background)
	L.Background = L.Background.Add(contrib)
	L.accum(contrib, bounce)
}

// Record background radiance in the background pass only. Used for camera
// rays when the background is rendered transparent.
func (L *PathRadiance) AccumBackgroundPass(throughput, background types.Vec3) {
	L.Background = L.Background.Add(throughput.MulVec(background))
}

// Clamp the direct and indirect contributions and return their sum. A clamp
// value of zero disables clamping. Non-finite sums are discarded.
func (L *PathRadiance) ClampAndSum(clampDirect, clampIndirect float32) types.Vec3 {
	direct := clampRadiance(L.Direct, clampDirect)
	indirect := clampRadiance(L.Indirect, clampIndirect)
	sum := direct.Add(indirect)

	for _, c := range sum {
		if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
			return types.Vec3{}
		}
	}
	return sum
}

func clampRadiance(v types.Vec3, limit float32) types.Vec3 {
	if limit <= 0 {
		return v
	}
	if m := v.MaxComponent(); m > limit {
		return v.Mul(limit / m)
	}
	return v
}
