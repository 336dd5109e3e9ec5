package geometry

import (
	"math"

	"github.com/df07/phong-raytracer/pkg/core"
)

// Nearest scans every primitive and returns the hit with the smallest
// non-negative t. Ties keep the earliest primitive in the slice.
func Nearest(primitives []Primitive, ray core.Ray, cull CullMode) (Hit, bool) {
	closestSoFar := math.Inf(1)
	var closest Primitive

	for _, p := range primitives {
		t, ok := p.Intersect(ray, cull)
		if !ok || t < 0 {
			continue
		}
		if t < closestSoFar {
			closestSoFar = t
			closest = p
		}
	}

	if closest == nil {
		return Hit{}, false
	}

	hit := Hit{
		Primitive: closest,
		T:         closestSoFar,
		Point:     ray.At(closestSoFar),
	}
	hit.SetFaceNormal(ray, closest.Normal(hit.Point))
	return hit, true
}
