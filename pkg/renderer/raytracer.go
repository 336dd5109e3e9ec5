package renderer

import (
	"math"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
	"github.com/df07/phong-raytracer/pkg/scene"
)

// Raytracer shades primary rays for one output. It holds no mutable state,
// so a single instance is shared by every worker.
type Raytracer struct {
	scene  *scene.Scene
	camera *Camera
	output scene.Output
	cull   geometry.CullMode
}

// NewRaytracer creates a raytracer for one output of the scene
func NewRaytracer(s *scene.Scene, out scene.Output) (*Raytracer, error) {
	camera, err := NewCamera(out)
	if err != nil {
		return nil, err
	}
	return &Raytracer{
		scene:  s,
		camera: camera,
		output: out,
		cull:   out.CullMode(),
	}, nil
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// RayColor returns the color seen along a ray and whether anything was hit.
// A miss yields the background color with no ambient or light contribution.
func (rt *Raytracer) RayColor(ray core.Ray) (core.Color, bool) {
	hit, isHit := geometry.Nearest(rt.scene.Primitives, ray, rt.cull)
	if !isHit {
		return core.ColorFromVec3(rt.output.Background), false
	}
	return core.ColorFromVec3(rt.Shade(ray, hit)), true
}

// Shade evaluates the Blinn-Phong model at a hit. The result is not clamped.
func (rt *Raytracer) Shade(ray core.Ray, hit geometry.Hit) core.Vec3 {
	m := hit.Primitive.Material()
	normal := hit.Normal

	// Ambient seeds the color
	color := m.Ac.MultiplyVec(rt.output.Ambient).Multiply(m.Ka)

	toEye := ray.Direction.Negate().Normalize()

	for _, light := range rt.scene.Lights {
		diffuse, specular := light.Intensity()
		toLight := lightPosition(light).Subtract(hit.Point).Normalize()
		halfway := toLight.Add(toEye).Normalize()

		cosTheta := math.Max(0, normal.Dot(toLight))
		blinn := math.Min(math.Max(normal.Dot(halfway), 0), 1)

		color = color.
			Add(m.Dc.MultiplyVec(diffuse).Multiply(m.Kd * cosTheta)).
			Add(m.Sc.MultiplyVec(specular).Multiply(m.Ks * math.Pow(blinn, m.Pc)))
	}

	return color
}

// lightPosition returns the point a light shines from. Area lights act as a
// point light at their centroid.
func lightPosition(light lights.Light) core.Vec3 {
	switch l := light.(type) {
	case *lights.Point:
		return l.Center
	case *lights.Area:
		return l.Centroid()
	default:
		panic("renderer: unknown light type " + string(light.Type()))
	}
}

// RenderLine traces every pixel of row y into buffer
func (rt *Raytracer) RenderLine(y int, buffer []float64) RenderStats {
	var stats RenderStats
	width := rt.output.Width

	for x := 0; x < width; x++ {
		color, isHit := rt.RayColor(rt.camera.GetRay(x, y))
		color.Write(buffer, core.PixelOffset(x, y, width))

		stats.Rays++
		if isHit {
			stats.Hits++
		} else {
			stats.Misses++
		}
	}

	return stats
}
