package wavefront

import (
	"math"
	"sync"

	"github.com/achilleasa/splitpath/types"
)

// A scene without geometry.
type missScene struct{}

func (missScene) Intersect(_ *Ray) (Intersection, bool) {
	return Intersection{}, false
}

// Camera rays (which start at the origin) hit a surface at distance 1;
// every other ray escapes.
type cameraHitScene struct{}

func (cameraHitScene) Intersect(ray *Ray) (Intersection, bool) {
	if !ray.Origin.IsZero() {
		return Intersection{}, false
	}
	return Intersection{T: 1, Position: ray.At(1), Normal: types.XYZ(0, 0, -1)}, true
}

// Camera rays hit a surface at distance 1. Continuation rays hit a second
// surface at distance secondHit or escape if secondHit is zero.
type twoHitScene struct {
	secondHit float32
}

func (s twoHitScene) Intersect(ray *Ray) (Intersection, bool) {
	if ray.Origin.IsZero() {
		return Intersection{T: 1, Position: ray.At(1), Normal: types.XYZ(0, 0, -1)}, true
	}
	if s.secondHit == 0 {
		return Intersection{}, false
	}
	return Intersection{T: s.secondHit, Position: ray.At(s.secondHit), Normal: types.XYZ(0, 0, -1)}, true
}

type constBackground struct {
	radiance types.Vec3
}

func (b constBackground) Evaluate(_ *Ray, _ *PathState) types.Vec3 {
	return b.radiance
}

type constLamps struct {
	emission types.Vec3
}

func (l constLamps) IndirectEmission(_ *Ray, _ *PathState) (types.Vec3, bool) {
	return l.emission, true
}

// A lamp on the z axis that is visible when it lies within the segment
// [origin, origin + T*dir] of a ray travelling along +z. The segments and
// path states it was queried with are recorded.
type axisLamp struct {
	sync.Mutex
	z        float32
	emission types.Vec3
	rays     []Ray
	paths    []PathState
}

func (l *axisLamp) IndirectEmission(ray *Ray, path *PathState) (types.Vec3, bool) {
	l.Lock()
	l.rays = append(l.rays, *ray)
	l.paths = append(l.paths, *path)
	l.Unlock()

	start := float64(ray.Origin[2])
	end := start + float64(ray.T)*float64(ray.Direction[2])
	if float64(l.z) <= start || float64(l.z) > end {
		return types.Vec3{}, false
	}
	return l.emission, true
}

// Scatters every hit towards +z from a point off the origin.
type bounceShader struct {
	emission types.Vec3
	absorb   bool
	singular bool
	pdf      float32
}

func (s bounceShader) Shade(ray *Ray, isect *Intersection, _ *PathState, _ *RNG) ShadeResult {
	pdf := s.pdf
	if pdf == 0 {
		pdf = 1
	}
	return ShadeResult{
		Emission: s.emission,
		Absorbed: s.absorb,
		Next: Ray{
			Origin:    types.XYZ(0, 0, 1),
			Direction: types.XYZ(0, 0, 1),
			T:         math.MaxFloat32,
		},
		Weight:   types.Splat3(1),
		Pdf:      pdf,
		Singular: s.singular,
	}
}

// Generates rays from the origin towards +z. Pixels listed in degenerate
// produce zero length rays; allDegenerate applies to every pixel.
type testCamera struct {
	degenerate    map[[2]uint32]bool
	allDegenerate bool
}

func (c testCamera) GenerateRay(x, y, _ uint32, _ *RNG) Ray {
	if c.allDegenerate || c.degenerate[[2]uint32{x, y}] {
		return Ray{}
	}
	return Ray{Direction: types.XYZ(0, 0, 1), T: math.MaxFloat32}
}

type recordedSample struct {
	unit     WorkUnit
	L        types.Vec4
	radiance *PathRadiance
}

// Records every written sample.
type recordingOutput struct {
	sync.Mutex
	tile            Tile
	parallelSamples uint32
	samples         []recordedSample
}

func (o *recordingOutput) Reset(tile Tile, parallelSamples uint32) error {
	o.Lock()
	defer o.Unlock()
	o.tile = tile
	o.parallelSamples = parallelSamples
	o.samples = nil
	return nil
}

func (o *recordingOutput) WriteSample(unit WorkUnit, L types.Vec4, radiance *PathRadiance) {
	o.Lock()
	defer o.Unlock()
	rec := recordedSample{unit: unit, L: L}
	if radiance != nil {
		copied := *radiance
		rec.radiance = &copied
	}
	o.samples = append(o.samples, rec)
}

// Count the number of writes for each (pixel, sample) pair.
func (o *recordingOutput) writesPerUnit() map[[2]uint32]int {
	o.Lock()
	defer o.Unlock()
	counts := make(map[[2]uint32]int)
	for _, s := range o.samples {
		counts[[2]uint32{s.unit.Pixel, s.unit.Sample}]++
	}
	return counts
}

func testCollaborators(output Output) Collaborators {
	return Collaborators{
		Scene:      missScene{},
		Background: constBackground{radiance: types.XYZ(0.5, 0.5, 0.5)},
		Shader:     bounceShader{},
		Camera:     testCamera{},
		Output:     output,
		RNG:        NewRNGState(64, 64, 0),
	}
}

func testConfig(poolSize int, policy WorkPolicy) Config {
	cfg := DefaultConfig()
	cfg.PoolSize = poolSize
	cfg.NumLanes = 4
	cfg.LaneGroupSize = 2
	cfg.WorkPolicy = policy
	cfg.Debug = CheckQueueExclusivity | CheckStateTransitions
	return cfg
}
