package lights

import "github.com/df07/phong-raytracer/pkg/core"

// Area is a planar quad light given by four corners in winding order
type Area struct {
	Intensities
	P1, P2, P3, P4 core.Vec3
}

// NewArea creates a new quad area light
func NewArea(p1, p2, p3, p4, id, is core.Vec3) *Area {
	return &Area{
		Intensities: Intensities{Diffuse: id, Specular: is},
		P1:          p1,
		P2:          p2,
		P3:          p3,
		P4:          p4,
	}
}

// Corners returns the four corners in winding order
func (a *Area) Corners() [4]core.Vec3 {
	return [4]core.Vec3{a.P1, a.P2, a.P3, a.P4}
}

// Centroid returns the average of the four corners, used as the point surrogate when shading
func (a *Area) Centroid() core.Vec3 {
	return a.P1.Add(a.P2).Add(a.P3).Add(a.P4).Multiply(0.25)
}

// Normal returns the unit normal (P2-P1)x(P3-P1)
func (a *Area) Normal() core.Vec3 {
	return a.P2.Subtract(a.P1).Cross(a.P3.Subtract(a.P1)).Normalize()
}

func (a *Area) Type() LightType { return LightTypeArea }
func (a *Area) light()          {}
