package geometry

import (
	"github.com/df07/phong-raytracer/pkg/core"
)

// determinantEpsilon bounds |det| below which a ray is treated as parallel to a triangle
const determinantEpsilon = 1e-8

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	P1, P2, P3 core.Vec3 // The three vertices
	edge1      core.Vec3 // P2 - P1
	edge2      core.Vec3 // P3 - P1
	normal     core.Vec3 // Cached unit normal
	material   Material
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(p1, p2, p3 core.Vec3, material Material) *Triangle {
	t := &Triangle{
		P1:       p1,
		P2:       p2,
		P3:       p3,
		material: material,
	}
	t.edge1 = p2.Subtract(p1)
	t.edge2 = p3.Subtract(p1)
	t.normal = t.edge1.Cross(t.edge2).Normalize()
	return t
}

// Intersect tests the ray against the triangle using the Möller-Trumbore algorithm.
//
// With CullBack the test is one-sided: a negative determinant means the ray
// strikes the back face and is rejected. The returned t is not range-checked;
// it can be negative when the triangle lies behind the ray origin.
func (t *Triangle) Intersect(ray core.Ray, cull CullMode) (float64, bool) {
	pvec := ray.Direction.Cross(t.edge2)
	det := t.edge1.Dot(pvec)

	if cull == CullBack {
		if det < determinantEpsilon {
			return 0, false
		}
	} else if det > -determinantEpsilon && det < determinantEpsilon {
		// Ray lies in the plane of the triangle
		return 0, false
	}

	invDet := 1.0 / det
	tvec := ray.Origin.Subtract(t.P1)
	u := tvec.Dot(pvec) * invDet
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	qvec := tvec.Cross(t.edge1)
	v := ray.Direction.Dot(qvec) * invDet
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	return t.edge2.Dot(qvec) * invDet, true
}

// Normal returns the triangle's face normal; the point is ignored
func (t *Triangle) Normal(core.Vec3) core.Vec3 {
	return t.normal
}

func (t *Triangle) Material() Material { return t.material }
func (t *Triangle) Kind() Kind         { return KindTriangle }
func (t *Triangle) primitive()         {}
