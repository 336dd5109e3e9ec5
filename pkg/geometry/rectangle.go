package geometry

import (
	"github.com/df07/phong-raytracer/pkg/core"
)

// Rectangle is a planar quad given by four coplanar corners in winding order.
// It is intersected as the two triangles (P1,P2,P3) and (P1,P3,P4).
type Rectangle struct {
	P1, P2, P3, P4 core.Vec3
	first, second  *Triangle
	normal         core.Vec3
	material       Material
}

// NewRectangle creates a rectangle from four corners
func NewRectangle(p1, p2, p3, p4 core.Vec3, material Material) *Rectangle {
	return &Rectangle{
		P1:       p1,
		P2:       p2,
		P3:       p3,
		P4:       p4,
		first:    NewTriangle(p1, p2, p3, material),
		second:   NewTriangle(p1, p3, p4, material),
		normal:   p2.Subtract(p1).Cross(p3.Subtract(p1)).Normalize(),
		material: material,
	}
}

// Intersect hits if either constituent triangle hits, reporting the smaller t
func (r *Rectangle) Intersect(ray core.Ray, cull CullMode) (float64, bool) {
	t1, hit1 := r.first.Intersect(ray, cull)
	t2, hit2 := r.second.Intersect(ray, cull)

	switch {
	case hit1 && hit2:
		return min(t1, t2), true
	case hit1:
		return t1, true
	case hit2:
		return t2, true
	default:
		return 0, false
	}
}

// Normal returns the face normal computed from the first three corners
func (r *Rectangle) Normal(core.Vec3) core.Vec3 {
	return r.normal
}

// Triangles returns the two triangles the rectangle is decomposed into
func (r *Rectangle) Triangles() (*Triangle, *Triangle) {
	return r.first, r.second
}

func (r *Rectangle) Material() Material { return r.material }
func (r *Rectangle) Kind() Kind         { return KindRectangle }
func (r *Rectangle) primitive()         {}
