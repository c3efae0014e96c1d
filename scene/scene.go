// Package scene provides a small analytic scene used to drive the wavefront
// tracer: spheres with diffuse emissive materials, a gradient sky, spherical
// lamps and perspective/fisheye cameras.
package scene

import (
	"math"

	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/achilleasa/splitpath/types"
)

// Offset applied to continuation rays to avoid self-intersection.
const rayEpsilon = 1e-4

// A diffuse material with optional emission.
type Material struct {
	Albedo   types.Vec3
	Emission types.Vec3
}

type Sphere struct {
	Center   types.Vec3
	Radius   float32
	Material uint32
}

// Get the distance to the closest intersection in (tMin, tMax).
func (s *Sphere) intersect(ray *wavefront.Ray, tMin, tMax float32) (float32, bool) {
	oc := ray.Origin.Sub(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 || a == 0 {
		return 0, false
	}

	sqrtDisc := float32(math.Sqrt(float64(disc)))
	for _, t := range [2]float32{(-halfB - sqrtDisc) / a, (-halfB + sqrtDisc) / a} {
		if t > tMin && t < tMax {
			return t, true
		}
	}
	return 0, false
}

// A list of spheres. Implements wavefront.Scene and wavefront.Shader.
type Spheres struct {
	Spheres   []Sphere
	Materials []Material
}

// Find the closest sphere hit along the ray.
func (sc *Spheres) Intersect(ray *wavefront.Ray) (wavefront.Intersection, bool) {
	closest := ray.T
	hitIndex := -1
	for index := range sc.Spheres {
		if t, ok := sc.Spheres[index].intersect(ray, rayEpsilon, closest); ok {
			closest = t
			hitIndex = index
		}
	}
	if hitIndex < 0 {
		return wavefront.Intersection{}, false
	}

	sphere := &sc.Spheres[hitIndex]
	pos := ray.At(closest)
	return wavefront.Intersection{
		T:        closest,
		Position: pos,
		Normal:   pos.Sub(sphere.Center).Mul(1.0 / sphere.Radius),
		Object:   uint32(hitIndex),
		Material: sphere.Material,
	}, true
}

// Shade a hit using a Lambertian BSDF with cosine-weighted sampling.
func (sc *Spheres) Shade(ray *wavefront.Ray, isect *wavefront.Intersection, path *wavefront.PathState, rng *wavefront.RNG) wavefront.ShadeResult {
	if int(isect.Material) >= len(sc.Materials) {
		return wavefront.ShadeResult{Absorbed: true}
	}
	mat := &sc.Materials[isect.Material]

	normal := isect.Normal
	frontFacing := normal.Dot(ray.Direction) < 0
	if !frontFacing {
		normal = normal.Mul(-1)
	}

	res := wavefront.ShadeResult{}
	if frontFacing {
		res.Emission = mat.Emission
	}
	if mat.Albedo.IsZero() {
		res.Absorbed = true
		return res
	}

	dir, pdf := sampleCosineHemisphere(normal, rng.Float(), rng.Float())
	if pdf <= 0 {
		res.Absorbed = true
		return res
	}

	// cos/pi terms of the BSDF and the pdf cancel out.
	res.Weight = mat.Albedo
	res.Pdf = pdf
	res.Next = wavefront.Ray{
		Origin:    isect.Position.Add(normal.Mul(rayEpsilon)),
		Direction: dir,
		T:         math.MaxFloat32,
		Time:      ray.Time,
	}
	return res
}

func sampleCosineHemisphere(normal types.Vec3, u1, u2 float32) (types.Vec3, float32) {
	r := float32(math.Sqrt(float64(u1)))
	phi := 2.0 * math.Pi * float64(u2)
	x := r * float32(math.Cos(phi))
	y := r * float32(math.Sin(phi))
	z := float32(math.Sqrt(math.Max(0, 1.0-float64(u1))))

	tangent, bitangent := orthonormalBasis(normal)
	dir := tangent.Mul(x).Add(bitangent.Mul(y)).Add(normal.Mul(z)).Normalize()
	return dir, z / math.Pi
}

func orthonormalBasis(n types.Vec3) (types.Vec3, types.Vec3) {
	var axis types.Vec3
	if math.Abs(float64(n[0])) > 0.9 {
		axis = types.XYZ(0, 1, 0)
	} else {
		axis = types.XYZ(1, 0, 0)
	}
	tangent := axis.Cross(n).Normalize()
	return tangent, n.Cross(tangent)
}

// A vertical gradient background. Implements wavefront.Background.
type Sky struct {
	Horizon types.Vec3
	Zenith  types.Vec3
}

func (sk *Sky) Evaluate(ray *wavefront.Ray, _ *wavefront.PathState) types.Vec3 {
	t := 0.5 * (ray.Direction.Normalize()[1] + 1.0)
	return sk.Horizon.Mul(1.0 - t).Add(sk.Zenith.Mul(t))
}

// A spherical lamp that is not part of the scene geometry and can only be
// reached by indirect rays.
type SphereLamp struct {
	Sphere
	Emission types.Vec3
}

// A set of lamps. Implements wavefront.Lamps.
type Lamps []SphereLamp

// Return the emission of the closest lamp on the ray segment.
func (l Lamps) IndirectEmission(ray *wavefront.Ray, path *wavefront.PathState) (types.Vec3, bool) {
	closest := ray.T
	hitIndex := -1
	for index := range l {
		if t, ok := l[index].intersect(ray, rayEpsilon, closest); ok {
			closest = t
			hitIndex = index
		}
	}
	if hitIndex < 0 {
		return types.Vec3{}, false
	}
	return l[hitIndex].Emission, true
}
