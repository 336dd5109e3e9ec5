package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/phong-raytracer/pkg/core"
)

const transformEpsilon = 1e-9

var (
	// ErrNotAffine is returned for matrices whose bottom row is not (0, 0, 0, 1)
	ErrNotAffine = errors.New("transform is not affine")
	// ErrNonUniformScale is returned when a sphere would be turned into an ellipsoid
	ErrNonUniformScale = errors.New("sphere transform must be a similarity (rotation, uniform scale, translation)")
)

// MatrixFromRows builds a matrix from 16 values given in row-major order
func MatrixFromRows(values [16]float64) mgl64.Mat4 {
	row := func(i int) mgl64.Vec4 {
		return mgl64.Vec4{values[4*i], values[4*i+1], values[4*i+2], values[4*i+3]}
	}
	return mgl64.Mat4FromRows(row(0), row(1), row(2), row(3))
}

// ApplyTransform bakes an affine transform into a primitive's geometry and
// returns the transformed copy. The input primitive is not modified.
func ApplyTransform(p Primitive, m mgl64.Mat4) (Primitive, error) {
	if !m.Row(3).ApproxEqualThreshold(mgl64.Vec4{0, 0, 0, 1}, transformEpsilon) {
		return nil, ErrNotAffine
	}

	switch prim := p.(type) {
	case *Sphere:
		scale, err := uniformScale(m)
		if err != nil {
			return nil, err
		}
		return NewSphere(transformPoint(m, prim.Center), prim.Radius*scale, prim.material), nil
	case *Triangle:
		return NewTriangle(
			transformPoint(m, prim.P1),
			transformPoint(m, prim.P2),
			transformPoint(m, prim.P3),
			prim.material,
		), nil
	case *Rectangle:
		return NewRectangle(
			transformPoint(m, prim.P1),
			transformPoint(m, prim.P2),
			transformPoint(m, prim.P3),
			transformPoint(m, prim.P4),
			prim.material,
		), nil
	default:
		return nil, fmt.Errorf("cannot transform primitive of type %T", p)
	}
}

func transformPoint(m mgl64.Mat4, p core.Vec3) core.Vec3 {
	v := mgl64.TransformCoordinate(mgl64.Vec3{p.X, p.Y, p.Z}, m)
	return core.NewVec3(v[0], v[1], v[2])
}

// uniformScale returns s when the linear part of m is s times a rotation
func uniformScale(m mgl64.Mat4) (float64, error) {
	linear := m.Mat3()
	c0, c1, c2 := linear.Col(0), linear.Col(1), linear.Col(2)

	s := c0.Len()
	if s < transformEpsilon {
		return 0, ErrNonUniformScale
	}

	tolerance := 1e-6 * s
	if math.Abs(c1.Len()-s) > tolerance || math.Abs(c2.Len()-s) > tolerance {
		return 0, ErrNonUniformScale
	}
	// Columns must also be orthogonal, otherwise the map shears
	if math.Abs(c0.Dot(c1)) > tolerance*s || math.Abs(c0.Dot(c2)) > tolerance*s || math.Abs(c1.Dot(c2)) > tolerance*s {
		return 0, ErrNonUniformScale
	}

	return s, nil
}
