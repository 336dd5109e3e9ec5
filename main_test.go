package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/renderer"
	"github.com/df07/phong-raytracer/pkg/scene"
)

func TestCreateScene(t *testing.T) {
	tests := []struct {
		name        string
		sceneType   string
		expectError bool
	}{
		// Built-in scenes
		{"default scene", "default", false},
		{"cornell scene", "cornell", false},

		// JSON scenes (by name)
		{"spheres JSON", "spheres", false},
		{"cornell-box JSON", "cornell-box", false},

		// JSON scenes (by path)
		{"direct JSON path", "scenes/spheres.json", false},

		// Invalid scenes
		{"unknown scene", "nonexistent", true},
		{"invalid JSON path", "scenes/nonexistent.json", true},
		{"empty scene name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sceneObj, err := createScene(tt.sceneType, zap.NewNop())

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene type '%s', but got none", tt.sceneType)
				}
				if sceneObj != nil {
					t.Errorf("Expected nil scene for invalid scene type '%s', got %T", tt.sceneType, sceneObj)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error for scene type '%s': %v", tt.sceneType, err)
			}
			if len(sceneObj.Outputs) == 0 {
				t.Errorf("Scene '%s' should have at least one output", tt.sceneType)
			}
			for _, out := range sceneObj.Outputs {
				if out.Width <= 0 || out.Height <= 0 {
					t.Errorf("Output size should be positive, got %dx%d", out.Width, out.Height)
				}
			}
		})
	}
}

func TestBundledScenesLoad(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		t.Fatalf("Failed to list scenes: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("Expected bundled JSON scenes")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			if _, err := createScene(file, zap.NewNop()); err != nil {
				t.Errorf("Failed to load %s: %v", file, err)
			}
		})
	}
}

func TestRenderScene(t *testing.T) {
	s := &scene.Scene{}
	base := scene.Output{
		Width:      6,
		Height:     4,
		FOV:        60,
		Up:         core.NewVec3(0, 1, 0),
		LookAt:     core.NewVec3(0, 0, -1),
		Background: core.NewVec3(1, 0, 0),
	}
	for _, name := range []string{"a.ppm", "nested/b.png", "c.bmp"} {
		out := base
		out.Filename = name
		s.AddOutput(out)
	}

	outDir := t.TempDir()
	files, err := renderScene(context.Background(), s, outDir, renderer.Config{Workers: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("renderScene failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}

	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			t.Errorf("Expected %s to exist: %v", file, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "a.ppm"))
	if err != nil {
		t.Fatalf("Failed to read ppm: %v", err)
	}
	header := "P6\n6 4\n255\n"
	if string(data[:len(header)]) != header {
		t.Errorf("Expected header %q, got %q", header, data[:len(header)])
	}
	if data[len(header)] != 255 || data[len(header)+1] != 0 {
		t.Errorf("Expected red background pixel, got %v", data[len(header):len(header)+3])
	}
}

func TestRenderSceneRejectsUnknownExtension(t *testing.T) {
	s := scene.NewDefaultScene()
	s.Outputs[0].Filename = "render.tiff"

	files, err := renderScene(context.Background(), s, t.TempDir(), renderer.DefaultConfig(), zap.NewNop())
	if err == nil {
		t.Error("Expected error for unknown image extension")
	}
	if len(files) != 0 {
		t.Errorf("Expected no files written, got %v", files)
	}
}

func TestRenderSceneRejectsEscapingFilenames(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"parent directory", "../escape.ppm"},
		{"nested parent", "nested/../../escape.ppm"},
		{"absolute path", filepath.Join(string(filepath.Separator), "tmp", "escape.ppm")},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			outDir := filepath.Join(root, "output")

			s := scene.NewDefaultScene()
			s.Outputs[0].Filename = tt.filename

			files, err := renderScene(context.Background(), s, outDir, renderer.DefaultConfig(), zap.NewNop())
			if err == nil {
				t.Fatalf("Expected error for filename %q", tt.filename)
			}
			if len(files) != 0 {
				t.Errorf("Expected no files written, got %v", files)
			}
			if _, err := os.Stat(filepath.Join(root, "escape.ppm")); !os.IsNotExist(err) {
				t.Errorf("Expected nothing written outside the output directory")
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	got, err := outputPath("out", "nested/./b.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := filepath.Join("out", "nested", "b.png"); got != want {
		t.Errorf("outputPath = %q, want %q", got, want)
	}
}
