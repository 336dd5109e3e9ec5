package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewColor_Clamps(t *testing.T) {
	tests := []struct {
		name             string
		r, g, b          float64
		expectR, expectG float64
		expectB          float64
	}{
		{"in range", 0.2, 0.5, 0.9, 0.2, 0.5, 0.9},
		{"red above one", 1.7, 0.5, 0.5, 1.0, 0.5, 0.5},
		{"red below zero", -0.3, 0.5, 0.5, 0.0, 0.5, 0.5},
		{"all out of range", 3, -2, 1.0001, 1, 0, 1},
		{"NaN becomes zero", math.NaN(), 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewColor(tt.r, tt.g, tt.b)
			assert.Equal(t, tt.expectR, c.Red())
			assert.Equal(t, tt.expectG, c.Green())
			assert.Equal(t, tt.expectB, c.Blue())
		})
	}
}

func TestColor_SettersClamp(t *testing.T) {
	var c Color
	c.SetRed(2)
	c.SetGreen(-1)
	c.SetBlue(0.25)

	assert.Equal(t, NewVec3(1, 0, 0.25), c.Vec3())
}

func TestColor_Write(t *testing.T) {
	buffer := NewPixelBuffer(2, 2)
	assert.Len(t, buffer, 12)

	ColorFromVec3(NewVec3(1.5, 0.5, -4)).Write(buffer, PixelOffset(1, 1, 2))

	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0.5, 0}, buffer)
}
