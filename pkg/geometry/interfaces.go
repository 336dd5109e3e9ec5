package geometry

import (
	"fmt"

	"github.com/df07/phong-raytracer/pkg/core"
)

// Kind identifies the concrete primitive variant
type Kind int

const (
	KindSphere Kind = iota
	KindTriangle
	KindRectangle
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	case KindRectangle:
		return "rectangle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// CullMode selects whether planar primitives reject rays that strike their back face
type CullMode int

const (
	// CullBack rejects rays hitting the face opposite to the (p2-p1)x(p3-p1) normal
	CullBack CullMode = iota
	// CullNone accepts hits on both faces
	CullNone
)

// Primitive is a renderable surface. The set of implementations is closed:
// *Sphere, *Triangle and *Rectangle.
type Primitive interface {
	// Intersect returns the ray parameter of the nearest surface crossing.
	// It keeps no state, so one primitive may be tested from many goroutines.
	Intersect(ray core.Ray, cull CullMode) (float64, bool)

	// Normal returns the unit outward geometric normal at a surface point
	Normal(point core.Vec3) core.Vec3

	Material() Material
	Kind() Kind

	primitive()
}

// Hit describes the nearest intersection found along a ray
type Hit struct {
	Primitive Primitive
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit normal facing against the ray
	FrontFace bool      // Whether the outward normal already faced the ray
}

// SetFaceNormal orients the normal against the incoming ray direction
func (h *Hit) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
