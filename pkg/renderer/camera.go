package renderer

import (
	"fmt"
	"math"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/scene"
)

// Camera generates primary rays through the pixel centers of an output's image plane
type Camera struct {
	center core.Vec3 // Eye position
	right  core.Vec3 // Unit vector along increasing columns
	up     core.Vec3 // Unit up, as given by the output
	corner core.Vec3 // Top-left corner of the image plane
	delta  float64   // World-space size of one pixel
	width  int
	height int
}

// NewCamera builds the view basis for an output. The image plane sits one
// unit along lookat; fov is the vertical field of view in degrees.
func NewCamera(out scene.Output) (*Camera, error) {
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera: %w", err)
	}

	lookAt := out.LookAt.Normalize()
	up := out.Up.Normalize()
	right := lookAt.Cross(up).Normalize()

	halfHeight := math.Tan(out.FOV * math.Pi / 180.0 / 2.0)
	planeCenter := out.Center.Add(lookAt)
	topCenter := planeCenter.Add(up.Multiply(halfHeight))
	delta := 2.0 * halfHeight / float64(out.Height)
	corner := topCenter.Subtract(right.Multiply(float64(out.Width) / 2.0 * delta))

	return &Camera{
		center: out.Center,
		right:  right,
		up:     up,
		corner: corner,
		delta:  delta,
		width:  out.Width,
		height: out.Height,
	}, nil
}

// GetRay returns the ray from the eye through the center of pixel (x, y),
// x being the column and y the row counted from the top. The direction is
// not normalized.
func (c *Camera) GetRay(x, y int) core.Ray {
	target := c.corner.
		Add(c.right.Multiply(float64(x)*c.delta + c.delta/2)).
		Subtract(c.up.Multiply(float64(y)*c.delta + c.delta/2))

	return core.NewRay(c.center, target.Subtract(c.center))
}

// Center returns the eye position
func (c *Camera) Center() core.Vec3 { return c.center }

// Right returns the unit vector pointing along increasing columns
func (c *Camera) Right() core.Vec3 { return c.right }

// PixelSize returns the world-space edge length of a pixel on the image plane
func (c *Camera) PixelSize() float64 { return c.delta }

// Size returns the image resolution
func (c *Camera) Size() (width, height int) { return c.width, c.height }
