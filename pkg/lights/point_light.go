package lights

import "github.com/df07/phong-raytracer/pkg/core"

// Point is an infinitesimal light at a fixed position
type Point struct {
	Intensities
	Center core.Vec3
}

// NewPoint creates a new point light
func NewPoint(center, id, is core.Vec3) *Point {
	return &Point{
		Intensities: Intensities{Diffuse: id, Specular: is},
		Center:      center,
	}
}

func (p *Point) Type() LightType { return LightTypePoint }
func (p *Point) light()          {}
