package geometry

import (
	"math"

	"github.com/df07/phong-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	material Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		material: material,
	}
}

// Intersect solves |O + tD - C|^2 = r^2 and returns the smallest non-negative root.
// A ray starting inside the sphere reports the exit point.
func (s *Sphere) Intersect(ray core.Ray, _ CullMode) (float64, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < 0 {
		root = (-halfB + sqrtD) / a
		if root < 0 {
			// Sphere lies entirely behind the ray origin
			return 0, false
		}
	}

	return root, true
}

// Normal returns the outward normal (from center to point)
func (s *Sphere) Normal(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

func (s *Sphere) Material() Material { return s.material }
func (s *Sphere) Kind() Kind         { return KindSphere }
func (s *Sphere) primitive()         {}
