package wavefront

import (
	"fmt"

	"github.com/achilleasa/splitpath/types"
)

// Scene geometry queries. A query that fails to converge must report a miss.
type Scene interface {
	Intersect(ray *Ray) (Intersection, bool)
}

// Evaluates the radiance arriving from the background along a ray.
type Background interface {
	Evaluate(ray *Ray, path *PathState) types.Vec3
}

// Evaluates emission from lamps that lie on a ray segment. The returned
// radiance must already include the MIS weight for the path.
type Lamps interface {
	IndirectEmission(ray *Ray, path *PathState) (types.Vec3, bool)
}

// The result of shading a surface hit.
type ShadeResult struct {
	// Radiance emitted by the surface towards the ray origin.
	Emission types.Vec3

	// True if the path should terminate at this surface.
	Absorbed bool

	// The continuation ray and the throughput weight for it.
	Next   Ray
	Weight types.Vec3
	Pdf    float32

	// True if Next was sampled from a delta distribution.
	Singular bool
}

// Evaluates surface shading at an intersection.
type Shader interface {
	Shade(ray *Ray, isect *Intersection, path *PathState, rng *RNG) ShadeResult
}

// Generates camera rays. A zero length ray marks a degenerate sample.
type Camera interface {
	GenerateRay(x, y, sample uint32, rng *RNG) Ray
}

// Receives per-sample radiance.
type Output interface {
	// Prepare storage for a tile.
	Reset(tile Tile, parallelSamples uint32) error

	// Add the contribution of a completed sample. L holds the clamped
	// radiance sum in RGB and the coverage in alpha. Radiance is nil for
	// degenerate samples.
	WriteSample(unit WorkUnit, L types.Vec4, radiance *PathRadiance)
}

// Random stream lifecycle hooks.
type RNGSource interface {
	InitStream(unit WorkUnit) RNG
	FinalizeStream(unit WorkUnit, rng RNG)
}

// The external services used by the stage pipeline. Lamps is optional.
type Collaborators struct {
	Scene      Scene
	Background Background
	Lamps      Lamps
	Shader     Shader
	Camera     Camera
	Output     Output
	RNG        RNGSource
}

func (c *Collaborators) validate() error {
	missing := func(name string) error {
		return fmt.Errorf("%w: %s", ErrMissingCollaborator, name)
	}
	switch {
	case c.Scene == nil:
		return missing("scene")
	case c.Background == nil:
		return missing("background")
	case c.Shader == nil:
		return missing("shader")
	case c.Camera == nil:
		return missing("camera")
	case c.Output == nil:
		return missing("output")
	case c.RNG == nil:
		return missing("rng")
	}
	return nil
}
