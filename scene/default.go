package scene

import (
	"github.com/achilleasa/splitpath/tracer/wavefront"
	"github.com/achilleasa/splitpath/types"
)

// Camera models supported by Default.
const (
	Perspective = "perspective"
	Fisheye     = "fisheye"
)

// A complete set of scene collaborators.
type Scene struct {
	Geometry *Spheres
	Sky      *Sky
	Lamps    Lamps
	Camera   wavefront.Camera
}

// Bind the scene to the wavefront collaborator set. The output sink and the
// random number source are supplied by the caller.
func (s *Scene) Collaborators(output wavefront.Output, rng wavefront.RNGSource) wavefront.Collaborators {
	collab := wavefront.Collaborators{
		Scene:      s.Geometry,
		Background: s.Sky,
		Shader:     s.Geometry,
		Camera:     s.Camera,
		Output:     output,
		RNG:        rng,
	}
	if len(s.Lamps) != 0 {
		collab.Lamps = s.Lamps
	}
	return collab
}

// Build the default scene: a diffuse ground, three spheres, one of them
// emissive, and a lamp above the scene.
func Default(frameW, frameH uint32, cameraModel string) *Scene {
	eye := types.XYZ(0, 1, 4)
	lookAt := types.XYZ(0, 0.5, 0)
	up := types.XYZ(0, 1, 0)

	var camera wavefront.Camera
	switch cameraModel {
	case Fisheye:
		camera = NewFisheyeCamera(eye, lookAt, up, 180, frameW, frameH)
	default:
		camera = NewPinholeCamera(eye, lookAt, up, 45, frameW, frameH)
	}

	return &Scene{
		Geometry: &Spheres{
			Spheres: []Sphere{
				{Center: types.XYZ(0, -1000, 0), Radius: 1000, Material: 0},
				{Center: types.XYZ(-1.2, 0.5, 0), Radius: 0.5, Material: 1},
				{Center: types.XYZ(0, 0.5, 0), Radius: 0.5, Material: 2},
				{Center: types.XYZ(1.2, 0.5, 0), Radius: 0.5, Material: 3},
			},
			Materials: []Material{
				{Albedo: types.XYZ(0.5, 0.5, 0.5)},
				{Albedo: types.XYZ(0.8, 0.3, 0.3)},
				{Albedo: types.XYZ(0.2, 0.2, 0.2), Emission: types.XYZ(4, 3, 2)},
				{Albedo: types.XYZ(0.3, 0.3, 0.8)},
			},
		},
		Sky: &Sky{
			Horizon: types.XYZ(1.0, 1.0, 1.0),
			Zenith:  types.XYZ(0.5, 0.7, 1.0),
		},
		Lamps: Lamps{
			{Sphere: Sphere{Center: types.XYZ(0, 4, 1), Radius: 0.75}, Emission: types.XYZ(10, 10, 10)},
		},
		Camera: camera,
	}
}
