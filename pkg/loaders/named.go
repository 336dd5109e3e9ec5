package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/scene"
)

// LoadNamedScene resolves a scene by name: a built-in scene ID, a path to a
// JSON document, or the base name of a document in scenesDir.
func LoadNamedScene(name, scenesDir string, logger *zap.Logger) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	if s, ok := scene.Builtin(name); ok {
		return s, nil
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadScene(name, logger)
	}

	if scenesDir != "" {
		path := filepath.Join(scenesDir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return LoadScene(path, logger)
		}
	}

	return nil, fmt.Errorf("unknown scene %q", name)
}
