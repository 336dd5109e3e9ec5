package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/encoders"
	"github.com/df07/phong-raytracer/pkg/loaders"
	"github.com/df07/phong-raytracer/pkg/logger"
	"github.com/df07/phong-raytracer/pkg/renderer"
	"github.com/df07/phong-raytracer/pkg/scene"
)

const scenesDir = "scenes"

func main() {
	// Parse command line flags
	sceneName := flag.String("scene", "default", "Built-in scene ('default', 'cornell'), a scene name from scenes/, or a path to a JSON scene")
	workers := flag.Int("workers", 0, "Number of parallel workers (0 = use CPU count)")
	outDir := flag.String("outdir", "output", "Directory the rendered images are written to")
	debug := flag.Bool("debug", false, "Enable debug logging")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Phong Raytracer")
		fmt.Println("Usage: phong-raytracer [options] [scene.json]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Every output of the scene is written to <outdir>/<filename>;")
		fmt.Println("the filename extension (.ppm, .png, .bmp) selects the format.")
		return
	}

	if *list {
		if err := listScenes(); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// A positional argument overrides -scene
	if flag.NArg() > 0 {
		*sceneName = flag.Arg(0)
	}

	log, err := logger.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	config := renderer.DefaultConfig()
	config.Workers = *workers

	if err := run(ctx, *sceneName, *outDir, config, log); err != nil {
		log.Error("render failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

// run loads the scene and renders every output into outDir
func run(ctx context.Context, sceneName, outDir string, config renderer.Config, log *zap.Logger) error {
	s, err := createScene(sceneName, log)
	if err != nil {
		return err
	}

	files, err := renderScene(ctx, s, outDir, config, log)
	if err != nil {
		return err
	}
	for _, file := range files {
		fmt.Printf("Render saved as %s\n", file)
	}
	return nil
}

// createScene resolves a scene name to a loaded, validated scene
func createScene(sceneName string, log *zap.Logger) (*scene.Scene, error) {
	s, err := loaders.LoadNamedScene(sceneName, scenesDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene %q: %w", sceneName, err)
	}
	log.Info("scene loaded",
		zap.String("scene", sceneName),
		zap.Int("primitives", len(s.Primitives)),
		zap.Int("lights", len(s.Lights)),
		zap.Int("outputs", len(s.Outputs)))
	return s, nil
}

// renderScene renders each output independently and returns the written file paths
func renderScene(ctx context.Context, s *scene.Scene, outDir string, config renderer.Config, log *zap.Logger) ([]string, error) {
	var files []string

	for i, out := range s.Outputs {
		filename, err := outputPath(outDir, out.Filename)
		if err != nil {
			return files, fmt.Errorf("output[%d]: %w", i, err)
		}
		if _, err := encoders.FormatFromFilename(filename); err != nil {
			return files, fmt.Errorf("output[%d]: %w", i, err)
		}

		r, err := renderer.NewRenderer(s, out, config, log)
		if err != nil {
			return files, fmt.Errorf("output[%d]: %w", i, err)
		}

		buffer, stats, err := r.Render(ctx)
		if err != nil {
			return files, fmt.Errorf("output[%d]: %w", i, err)
		}

		if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
			return files, fmt.Errorf("error creating output directory: %w", err)
		}
		if err := encoders.WriteFile(filename, buffer, out.Width, out.Height); err != nil {
			return files, fmt.Errorf("output[%d]: %w", i, err)
		}

		log.Info("image written",
			zap.String("render_id", stats.RenderID.String()),
			zap.String("file", filename),
			zap.Duration("duration", stats.Duration))
		files = append(files, filename)
	}

	return files, nil
}

// outputPath joins a scene-supplied filename to outDir, refusing names that
// are absolute or climb out of it
func outputPath(outDir, filename string) (string, error) {
	if !filepath.IsLocal(filename) {
		return "", fmt.Errorf("output filename %q must be a relative path inside the output directory", filename)
	}
	return filepath.Join(outDir, filename), nil
}

func listScenes() error {
	scenes, err := scene.ListScenes(scenesDir)
	if err != nil {
		return err
	}
	fmt.Println("Available scenes:")
	for _, info := range scenes {
		if info.FilePath != "" {
			fmt.Printf("  %-16s %s (%s)\n", info.ID, info.Type, info.FilePath)
		} else {
			fmt.Printf("  %-16s %s\n", info.ID, info.Type)
		}
	}
	return nil
}
