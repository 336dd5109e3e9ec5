package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/scene"
)

// Config contains rendering configuration
type Config struct {
	Workers int // Number of parallel workers (0 = use CPU count)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Workers: 0, // Auto-detect CPU count
	}
}

// Renderer produces the pixel buffer of one scene output
type Renderer struct {
	output    scene.Output
	config    Config
	raytracer *Raytracer
	logger    *zap.Logger
}

// NewRenderer prepares a render of out, which must be one of the scene's outputs
func NewRenderer(s *scene.Scene, out scene.Output, config Config, logger *zap.Logger) (*Renderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	raytracer, err := NewRaytracer(s, out)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		output:    out,
		config:    config,
		raytracer: raytracer,
		logger:    logger,
	}, nil
}

// Render traces every pixel and returns the row-major RGB buffer with values
// in [0, 1]. The buffer does not depend on the number of workers.
func (r *Renderer) Render(ctx context.Context) ([]float64, RenderStats, error) {
	width, height := r.output.Width, r.output.Height
	stats := RenderStats{
		RenderID: uuid.New(),
		Width:    width,
		Height:   height,
	}
	logger := r.logger.With(
		zap.String("render_id", stats.RenderID.String()),
		zap.String("output", r.output.Filename))

	r.warnUnimplemented(logger)

	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("render cancelled: %w", err)
	}

	start := time.Now()
	buffer := core.NewPixelBuffer(width, height)

	pool := NewWorkerPool(ctx, r.raytracer, buffer, height, r.config.Workers)
	stats.Workers = pool.GetNumWorkers()
	logger.Debug("render started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("workers", stats.Workers))

	pool.Start()
	for y := 0; y < height; y++ {
		pool.SubmitTask(LineTask{Row: y})
	}

	var renderErr error
	for i := 0; i < height; i++ {
		result, ok := pool.GetResult()
		if !ok {
			renderErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if renderErr == nil {
				renderErr = result.Error
			}
			continue
		}
		stats.Add(result.Stats)
	}
	pool.Stop()

	stats.Duration = time.Since(start)
	if renderErr != nil {
		logger.Warn("render aborted", zap.Error(renderErr))
		return nil, stats, fmt.Errorf("render failed: %w", renderErr)
	}

	logger.Info("render finished",
		zap.Int("rays", stats.Rays),
		zap.Int("hits", stats.Hits),
		zap.Int("misses", stats.Misses),
		zap.Duration("duration", stats.Duration))

	return buffer, stats, nil
}

// warnUnimplemented reports optional output parameters that are parsed but not rendered
func (r *Renderer) warnUnimplemented(logger *zap.Logger) {
	out := r.output
	if out.AntiAliasing {
		logger.Warn("antialiasing is not implemented, rendering one ray per pixel")
	}
	if out.GlobalIllum {
		logger.Warn("global illumination is not implemented, rendering local shading only")
	}
	if out.SpeedUp != 0 {
		logger.Warn("speedup is not implemented, ignoring", zap.Int("speedup", out.SpeedUp))
	}
	rays := 1
	for _, n := range out.RaysPerPixel {
		rays *= n
	}
	if rays > 1 {
		logger.Warn("multiple rays per pixel are not implemented, rendering one ray per pixel",
			zap.Ints("raysperpixel", out.RaysPerPixel))
	}
}
