package scene

import (
	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
)

// NewDefaultScene creates a sphere resting on a floor, lit by one point light
func NewDefaultScene() *Scene {
	s := &Scene{}

	red := geometry.Material{
		Ka: 0.2, Kd: 0.8, Ks: 0.5, Pc: 32,
		Ac: core.NewVec3(1, 0.2, 0.2),
		Dc: core.NewVec3(1, 0.2, 0.2),
		Sc: core.NewVec3(1, 1, 1),
	}
	grey := geometry.Material{
		Ka: 0.2, Kd: 0.6, Ks: 0.1, Pc: 4,
		Ac: core.NewVec3(0.6, 0.6, 0.6),
		Dc: core.NewVec3(0.6, 0.6, 0.6),
		Sc: core.NewVec3(1, 1, 1),
	}

	s.AddPrimitive(geometry.NewSphere(core.NewVec3(0, 0, -3), 1, red))

	// Floor at y=-1, corners wound so the normal points up
	s.AddPrimitive(geometry.NewRectangle(
		core.NewVec3(-10, -1, 0),
		core.NewVec3(10, -1, 0),
		core.NewVec3(10, -1, -20),
		core.NewVec3(-10, -1, -20),
		grey,
	))

	s.AddLight(lights.NewPoint(
		core.NewVec3(0, 5, 0),
		core.NewVec3(1, 1, 1),
		core.NewVec3(1, 1, 1),
	))

	s.AddOutput(Output{
		Filename:   "default.ppm",
		Width:      400,
		Height:     225, // 16:9 aspect ratio
		FOV:        60,
		Up:         core.NewVec3(0, 1, 0),
		LookAt:     core.NewVec3(0, 0, -1),
		Center:     core.NewVec3(0, 0, 0),
		Ambient:    core.NewVec3(0.5, 0.5, 0.5),
		Background: core.NewVec3(0.1, 0.1, 0.2),
	})

	return s
}
