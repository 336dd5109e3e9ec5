package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo describes a scene the CLI or web server can render
type SceneInfo struct {
	ID       string `json:"id"`       // Unique identifier
	Type     string `json:"type"`     // "builtin" or "json"
	FilePath string `json:"filePath"` // Path to the scene document (json type only)
}

// builtinScenes maps scene IDs to their constructors
var builtinScenes = map[string]func() *Scene{
	"default": NewDefaultScene,
	"cornell": NewCornellScene,
}

// Builtin returns a built-in scene by ID
func Builtin(id string) (*Scene, bool) {
	ctor, ok := builtinScenes[id]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// ListScenes returns the built-in scenes followed by every *.json file in dir.
// A missing directory yields only the built-in scenes.
func ListScenes(dir string) ([]SceneInfo, error) {
	var scenes []SceneInfo
	for id := range builtinScenes {
		scenes = append(scenes, SceneInfo{ID: id, Type: "builtin"})
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].ID < scenes[j].ID })

	if dir == "" {
		return scenes, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		scenes = append(scenes, SceneInfo{
			ID:       strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)),
			Type:     "json",
			FilePath: file,
		})
	}
	return scenes, nil
}
