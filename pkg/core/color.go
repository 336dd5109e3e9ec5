package core

// Color is an RGB triple whose channels always lie in [0, 1].
// Every constructor and setter clamps, so writing a Color never needs to.
type Color struct {
	r, g, b float64
}

// NewColor creates a color, clamping each channel into [0, 1]
func NewColor(red, green, blue float64) Color {
	return Color{r: clamp01(red), g: clamp01(green), b: clamp01(blue)}
}

// ColorFromVec3 creates a color from an unclamped accumulator
func ColorFromVec3(v Vec3) Color {
	return NewColor(v.X, v.Y, v.Z)
}

func (c Color) Red() float64   { return c.r }
func (c Color) Green() float64 { return c.g }
func (c Color) Blue() float64  { return c.b }

// SetRed sets the red channel, clamped into [0, 1]
func (c *Color) SetRed(red float64) { c.r = clamp01(red) }

// SetGreen sets the green channel, clamped into [0, 1]
func (c *Color) SetGreen(green float64) { c.g = clamp01(green) }

// SetBlue sets the blue channel, clamped into [0, 1]
func (c *Color) SetBlue(blue float64) { c.b = clamp01(blue) }

// Vec3 returns the channels as a vector
func (c Color) Vec3() Vec3 {
	return Vec3{X: c.r, Y: c.g, Z: c.b}
}

// Write stores the three channels at buffer[pos:pos+3]
func (c Color) Write(buffer []float64, pos int) {
	buffer[pos] = c.r
	buffer[pos+1] = c.g
	buffer[pos+2] = c.b
}

func clamp01(x float64) float64 {
	// NaN compares false against both bounds and would otherwise survive
	if x != x || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// NewPixelBuffer allocates a row-major RGB buffer of 3*width*height channels
func NewPixelBuffer(width, height int) []float64 {
	return make([]float64, 3*width*height)
}

// PixelOffset returns the buffer index of the red channel of pixel (x, y)
func PixelOffset(x, y, width int) int {
	return 3 * (y*width + x)
}
