package renderer

import (
	"time"

	"github.com/google/uuid"
)

// RenderStats contains statistics about one render
type RenderStats struct {
	RenderID uuid.UUID     // Identifies the render in logs
	Width    int           // Image width in pixels
	Height   int           // Image height in pixels
	Workers  int           // Number of workers that shared the scanlines
	Rays     int           // Primary rays traced, one per pixel
	Hits     int           // Rays that hit a primitive
	Misses   int           // Rays that took the background color
	Duration time.Duration // Wall time of the render
}

// Add accumulates the per-ray counters of another stats value
func (s *RenderStats) Add(other RenderStats) {
	s.Rays += other.Rays
	s.Hits += other.Hits
	s.Misses += other.Misses
}

// Coverage returns the fraction of rays that hit geometry
func (s RenderStats) Coverage() float64 {
	if s.Rays == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Rays)
}
