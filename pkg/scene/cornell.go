package scene

import (
	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
)

// NewCornellScene creates a Cornell box with rectangle walls, two spheres and a ceiling area light
func NewCornellScene() *Scene {
	s := &Scene{}

	matte := func(c core.Vec3) geometry.Material {
		return geometry.Material{
			Ka: 0.1, Kd: 0.9, Ks: 0.0, Pc: 1,
			Ac: c, Dc: c, Sc: core.NewVec3(1, 1, 1),
		}
	}
	white := matte(core.NewVec3(0.73, 0.73, 0.73))
	red := matte(core.NewVec3(0.65, 0.05, 0.05))
	green := matte(core.NewVec3(0.12, 0.45, 0.15))

	// Cornell box dimensions (standard 555x555x555 units).
	// Every wall is wound so its normal points into the box.
	boxSize := 555.0
	v := func(x, y, z float64) core.Vec3 { return core.NewVec3(x, y, z) }

	floor := geometry.NewRectangle(v(0, 0, 0), v(0, 0, boxSize), v(boxSize, 0, boxSize), v(boxSize, 0, 0), white)
	ceiling := geometry.NewRectangle(v(0, boxSize, 0), v(boxSize, boxSize, 0), v(boxSize, boxSize, boxSize), v(0, boxSize, boxSize), white)
	backWall := geometry.NewRectangle(v(0, 0, boxSize), v(0, boxSize, boxSize), v(boxSize, boxSize, boxSize), v(boxSize, 0, boxSize), white)
	// The camera looks down +Z, so +X is on the left of the image
	leftWall := geometry.NewRectangle(v(boxSize, 0, 0), v(boxSize, 0, boxSize), v(boxSize, boxSize, boxSize), v(boxSize, boxSize, 0), red)
	rightWall := geometry.NewRectangle(v(0, 0, 0), v(0, boxSize, 0), v(0, boxSize, boxSize), v(0, 0, boxSize), green)

	for _, wall := range []geometry.Primitive{floor, ceiling, backWall, leftWall, rightWall} {
		s.AddPrimitive(wall)
	}

	shiny := geometry.Material{
		Ka: 0.1, Kd: 0.5, Ks: 0.8, Pc: 64,
		Ac: v(0.8, 0.8, 0.9), Dc: v(0.8, 0.8, 0.9), Sc: v(1, 1, 1),
	}
	s.AddPrimitive(geometry.NewSphere(v(370, 82.5, 169), 82.5, shiny))
	s.AddPrimitive(geometry.NewSphere(v(185, 90, 351), 90, white))

	// Ceiling light (smaller quad in the center of the ceiling)
	lightSize := 130.0
	lo := (boxSize - lightSize) / 2.0
	hi := lo + lightSize
	s.AddLight(lights.NewArea(
		v(lo, boxSize-1, lo), v(hi, boxSize-1, lo), v(hi, boxSize-1, hi), v(lo, boxSize-1, hi),
		v(0.8, 0.8, 0.8),
		v(0.3, 0.3, 0.3),
	))

	s.AddOutput(Output{
		Filename:   "cornell.ppm",
		Width:      400,
		Height:     400, // Square aspect ratio for Cornell box
		FOV:        40,
		Up:         v(0, 1, 0),
		LookAt:     v(0, 0, 1),
		Center:     v(278, 278, -800),
		Ambient:    v(0.3, 0.3, 0.3),
		Background: v(0, 0, 0),
	})

	return s
}
