package geometry

import (
	"fmt"

	"github.com/df07/phong-raytracer/pkg/core"
)

// Material holds the Blinn-Phong reflection coefficients and surface colors of a primitive
type Material struct {
	Ka, Kd, Ks float64   // Ambient, diffuse and specular reflection coefficients
	Pc         float64   // Phong exponent
	Ac, Dc, Sc core.Vec3 // Ambient, diffuse and specular surface colors (unclamped)
}

// Validate reports coefficients outside [0, inf)
func (m Material) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{{"ka", m.Ka}, {"kd", m.Kd}, {"ks", m.Ks}, {"pc", m.Pc}} {
		if c.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %g", c.name, c.value)
		}
	}
	return nil
}
