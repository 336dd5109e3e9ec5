package scene

import (
	"errors"
	"fmt"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
)

// ErrNoOutputs is returned when a scene declares nothing to render
var ErrNoOutputs = errors.New("scene has no outputs")

const (
	// MaxImageSide is the largest accepted output width or height
	MaxImageSide = 16384
	// MaxPixels bounds width*height; the pixel buffer takes 24 bytes per pixel
	MaxPixels = 1 << 25
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Primitives []geometry.Primitive // Objects in the scene, in declaration order
	Lights     []lights.Light       // Lights in the scene
	Outputs    []Output             // Images to render from this geometry
}

// AddPrimitive appends a primitive; declaration order decides nearest-hit ties
func (s *Scene) AddPrimitive(p geometry.Primitive) {
	s.Primitives = append(s.Primitives, p)
}

// AddLight appends a light
func (s *Scene) AddLight(l lights.Light) {
	s.Lights = append(s.Lights, l)
}

// AddOutput appends a render target
func (s *Scene) AddOutput(o Output) {
	s.Outputs = append(s.Outputs, o)
}

// Validate checks the scene-wide invariants
func (s *Scene) Validate() error {
	if len(s.Outputs) == 0 {
		return ErrNoOutputs
	}
	for i, o := range s.Outputs {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("output[%d] %q: %w", i, o.Filename, err)
		}
	}
	return nil
}

// Output describes one image to render
type Output struct {
	Filename   string
	Width      int
	Height     int
	FOV        float64   // Vertical field of view in degrees
	Up         core.Vec3 // Camera up, not necessarily unit length
	LookAt     core.Vec3 // Viewing direction, not necessarily unit length
	Center     core.Vec3 // Camera position
	Ambient    core.Vec3 // Scene ambient intensity (ai)
	Background core.Vec3 // Background color (bkc)

	// Optional parameters
	RaysPerPixel  []int // One value (rays) or two (stratified grid)
	SpeedUp       int   // 0 or 1
	AntiAliasing  bool
	TwoSideRender bool
	GlobalIllum   bool
}

// Validate checks the output parameters the camera depends on
func (o Output) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Width > MaxImageSide || o.Height > MaxImageSide {
		return fmt.Errorf("size %dx%d exceeds the %d pixel side limit", o.Width, o.Height, MaxImageSide)
	}
	if o.Width*o.Height > MaxPixels {
		return fmt.Errorf("size %dx%d exceeds the %d pixel limit", o.Width, o.Height, MaxPixels)
	}
	if o.FOV <= 0 || o.FOV >= 180 {
		return fmt.Errorf("fov must be in (0, 180) degrees, got %g", o.FOV)
	}
	if o.LookAt.IsZero() {
		return errors.New("lookat must be non-zero")
	}
	if o.Up.IsZero() {
		return errors.New("up must be non-zero")
	}
	if o.LookAt.Normalize().Cross(o.Up.Normalize()).Length() < 1e-9 {
		return errors.New("lookat and up must not be parallel")
	}
	if o.SpeedUp < 0 || o.SpeedUp > 1 {
		return fmt.Errorf("speedup must be 0 or 1, got %d", o.SpeedUp)
	}
	return nil
}

// CullMode returns the face culling the output's two-sided flag selects
func (o Output) CullMode() geometry.CullMode {
	if o.TwoSideRender {
		return geometry.CullNone
	}
	return geometry.CullBack
}
