package lights

import "github.com/df07/phong-raytracer/pkg/core"

type LightType string

const (
	LightTypePoint LightType = "point"
	LightTypeArea  LightType = "area"
)

// Light is a source of diffuse and specular illumination. The set of
// implementations is closed: *Point and *Area.
type Light interface {
	Type() LightType

	// Intensity returns the diffuse (id) and specular (is) intensities
	Intensity() (id, is core.Vec3)

	light()
}

// Intensities holds the two intensity triples shared by every light
type Intensities struct {
	Diffuse  core.Vec3 // id
	Specular core.Vec3 // is
}

func (i Intensities) Intensity() (core.Vec3, core.Vec3) {
	return i.Diffuse, i.Specular
}
