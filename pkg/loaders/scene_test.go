package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
	"github.com/df07/phong-raytracer/pkg/scene"
)

const sampleScene = `{
  "geometry": [
    {
      "type": "sphere", "comment": "red ball",
      "centre": [0, 0, -3], "radius": 1,
      "ka": 0.1, "kd": 0.8, "ks": 0.5, "pc": 16,
      "ac": [1, 0, 0], "dc": [1, 0, 0], "sc": [1, 1, 1]
    },
    {
      "type": "rectangle",
      "p1": [-5, -1, 5], "p2": [5, -1, 5], "p3": [5, -1, -10], "p4": [-5, -1, -10],
      "ka": 0.1, "kd": 0.7, "ks": 0.1, "pc": 4,
      "ac": [0.5, 0.5, 0.5], "dc": [0.5, 0.5, 0.5], "sc": [1, 1, 1]
    },
    {
      "type": "triangle",
      "p1": [0, 0, -5], "p2": [1, 0, -5], "p3": [0, 1, -5],
      "ka": 0, "kd": 1, "ks": 0, "pc": 1,
      "ac": [0, 0, 0], "dc": [0, 0, 1], "sc": [0, 0, 0]
    }
  ],
  "light": [
    { "type": "point", "centre": [0, 5, 0], "id": [1, 1, 1], "is": [1, 1, 1] },
    { "type": "area", "p1": [-1, 4, -1], "p2": [1, 4, -1], "p3": [1, 4, 1], "p4": [-1, 4, 1],
      "id": [0.5, 0.5, 0.5], "is": [0.2, 0.2, 0.2] }
  ],
  "output": [
    {
      "filename": "sample.ppm", "size": [64, 48], "fov": 60,
      "up": [0, 1, 0], "lookat": [0, 0, -1], "centre": [0, 0, 0],
      "ai": [1, 1, 1], "bkc": [0.1, 0.2, 0.3],
      "raysperpixel": [4, 4], "speedup": 0, "antialiasing": false,
      "twosiderender": true, "globalillum": false
    }
  ]
}`

func newObservedParser() (*SceneParser, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zapcore.WarnLevel)
	return NewSceneParser(zap.New(obsCore)), logs
}

// mutate replaces the first occurrence of from in the sample scene
func mutate(t *testing.T, from, to string) []byte {
	t.Helper()
	require.Contains(t, sampleScene, from)
	return []byte(strings.Replace(sampleScene, from, to, 1))
}

func TestParseSampleScene(t *testing.T) {
	parser, logs := newObservedParser()

	s, err := parser.Parse([]byte(sampleScene))
	require.NoError(t, err)
	assert.Equal(t, 0, logs.Len(), "sample scene should parse without warnings")

	require.Len(t, s.Primitives, 3)
	require.Len(t, s.Lights, 2)
	require.Len(t, s.Outputs, 1)

	sphere, ok := s.Primitives[0].(*geometry.Sphere)
	require.True(t, ok, "first primitive should be a sphere, got %T", s.Primitives[0])
	assert.Equal(t, core.NewVec3(0, 0, -3), sphere.Center)
	assert.Equal(t, 1.0, sphere.Radius)
	assert.Equal(t, geometry.Material{
		Ka: 0.1, Kd: 0.8, Ks: 0.5, Pc: 16,
		Ac: core.NewVec3(1, 0, 0), Dc: core.NewVec3(1, 0, 0), Sc: core.NewVec3(1, 1, 1),
	}, sphere.Material())

	assert.Equal(t, geometry.KindRectangle, s.Primitives[1].Kind())
	assert.Equal(t, geometry.KindTriangle, s.Primitives[2].Kind())

	point, ok := s.Lights[0].(*lights.Point)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 5, 0), point.Center)
	area, ok := s.Lights[1].(*lights.Area)
	require.True(t, ok)
	assert.Equal(t, core.NewVec3(0, 4, 0), area.Centroid())
	id, is := area.Intensity()
	assert.Equal(t, core.NewVec3(0.5, 0.5, 0.5), id)
	assert.Equal(t, core.NewVec3(0.2, 0.2, 0.2), is)

	out := s.Outputs[0]
	assert.Equal(t, "sample.ppm", out.Filename)
	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 48, out.Height)
	assert.Equal(t, 60.0, out.FOV)
	assert.Equal(t, core.NewVec3(0.1, 0.2, 0.3), out.Background)
	assert.Equal(t, []int{4, 4}, out.RaysPerPixel)
	assert.True(t, out.TwoSideRender)
	assert.Equal(t, geometry.CullNone, out.CullMode())
}

func TestParseMissingArraysAreEmpty(t *testing.T) {
	doc := `{"output": [{"filename": "a.ppm", "size": [2, 2], "fov": 45,
		"up": [0, 1, 0], "lookat": [0, 0, -1], "centre": [0, 0, 0], "ai": [0, 0, 0], "bkc": [0, 0, 0]}]}`

	s, err := NewSceneParser(nil).Parse([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, s.Primitives)
	assert.Empty(t, s.Lights)
	assert.Len(t, s.Outputs, 1)
	assert.False(t, s.Outputs[0].TwoSideRender)
	assert.Nil(t, s.Outputs[0].RaysPerPixel)
}

func TestParseNoOutputs(t *testing.T) {
	_, err := NewSceneParser(nil).Parse([]byte(`{"geometry": [], "light": []}`))
	assert.ErrorIs(t, err, scene.ErrNoOutputs)
}

func TestParseInvalidDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"truncated", `{"geometry": [`},
		{"array root", `[1, 2, 3]`},
		{"number root", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSceneParser(nil).Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("Expected ErrInvalidDocument, got %v", err)
			}
		})
	}
}

func TestParseValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		path     string
	}{
		{"missing radius", `"radius": 1,`, ``, "geometry[0].radius"},
		{"radius wrong type", `"radius": 1`, `"radius": "one"`, "geometry[0].radius"},
		{"zero radius", `"radius": 1`, `"radius": 0`, "geometry[0].radius"},
		{"missing ka", `"ka": 0.1, "kd": 0.8`, `"kd": 0.8`, "geometry[0].ka"},
		{"negative kd", `"kd": 0.8`, `"kd": -0.8`, "geometry[0]"},
		{"color not array", `"ac": [1, 0, 0]`, `"ac": 1`, "geometry[0].ac"},
		{"color entry wrong type", `"dc": [1, 0, 0]`, `"dc": [1, "x", 0]`, "geometry[0].dc[1]"},
		{"short rectangle corner", `"p2": [5, -1, 5]`, `"p2": [5, -1]`, "geometry[1].p2"},
		{"missing triangle corner", `"p3": [0, 1, -5],`, ``, "geometry[2].p3"},
		{"type not string", `"type": "sphere"`, `"type": 3`, "geometry[0].type"},
		{"light missing intensity", `"id": [1, 1, 1], `, ``, "light[0].id"},
		{"light short corner", `"p1": [-1, 4, -1]`, `"p1": [-1]`, "light[1].p1"},
		{"missing filename", `"filename": "sample.ppm", `, ``, "output[0].filename"},
		{"single size entry", `"size": [64, 48]`, `"size": [64]`, "output[0].size"},
		{"fractional size", `"size": [64, 48]`, `"size": [64.5, 48]`, "output[0].size"},
		{"negative size", `"size": [64, 48]`, `"size": [-64, 48]`, "output[0].size"},
		{"zero size", `"size": [64, 48]`, `"size": [0, 48]`, "output[0]"},
		{"huge size", `"size": [64, 48]`, `"size": [2147483647, 2147483647]`, "output[0]"},
		{"side above limit", `"size": [64, 48]`, `"size": [20000, 1]`, "output[0]"},
		{"fov out of range", `"fov": 60`, `"fov": 180`, "output[0]"},
		{"parallel up", `"up": [0, 1, 0]`, `"up": [0, 0, -2]`, "output[0]"},
		{"speedup too large", `"speedup": 0`, `"speedup": 2`, "output[0]"},
		{"boolean as number", `"antialiasing": false`, `"antialiasing": 0`, "output[0].antialiasing"},
		{"geometry not array", `"geometry": [`, `"geometry": {"x": [`, "geometry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mutate(t, tt.from, tt.to)
			if tt.name == "geometry not array" {
				// Close the object opened in place of the array
				doc = []byte(strings.Replace(string(doc), "\n  ],\n  \"light\"", "\n  ]},\n  \"light\"", 1))
			}

			_, err := NewSceneParser(nil).Parse(doc)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "Expected ValidationError, got %T: %v", err, err)
			assert.Equal(t, tt.path, verr.Path)
			assert.True(t, strings.HasPrefix(err.Error(), tt.path), "error %q should start with its path", err.Error())
		})
	}
}

func TestParseUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		path     string
	}{
		{"geometry", `"type": "triangle"`, `"type": "torus"`, "geometry[2].type"},
		{"light", `"type": "point"`, `"type": "spot"`, "light[0].type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSceneParser(nil).Parse(mutate(t, tt.from, tt.to))
			require.ErrorIs(t, err, ErrUnsupportedType)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestParseWarnings(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		message  string
		field    string
	}{
		{"short color padded", `"sc": [1, 1, 1]`, `"sc": [1]`, "too few entries, missing values assumed to be 0", "geometry[0].sc"},
		{"long color truncated", `"ac": [1, 0, 0]`, `"ac": [1, 0, 0, 7]`, "too many entries, extra values ignored", "geometry[0].ac"},
		{"extra size entries", `"size": [64, 48]`, `"size": [64, 48, 3]`, "too many entries, extra values ignored", "output[0].size"},
		{"extra rays per pixel", `"raysperpixel": [4, 4]`, `"raysperpixel": [4, 4, 4]`, "too many entries, extra values ignored", "output[0].raysperpixel"},
		{"light transform", `"is": [1, 1, 1] }`, `"is": [1, 1, 1], "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1] }`, "light transforms are not supported, ignoring", "light[0].transform"},
		{"non-coplanar rectangle", `"p4": [-5, -1, -10]`, `"p4": [-5, 3, -10]`, "quad corners are not coplanar", "geometry[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, logs := newObservedParser()

			_, err := parser.Parse(mutate(t, tt.from, tt.to))
			require.NoError(t, err)

			matched := logs.FilterMessage(tt.message).All()
			require.Len(t, matched, 1, "expected exactly one %q warning", tt.message)
			assert.Equal(t, tt.field, matched[0].ContextMap()["field"])
		})
	}
}

func TestParseShortColorIsZeroPadded(t *testing.T) {
	s, err := NewSceneParser(nil).Parse(mutate(t, `"sc": [1, 1, 1]`, `"sc": [0.5, 0.25]`))
	require.NoError(t, err)
	assert.Equal(t, core.NewVec3(0.5, 0.25, 0), s.Primitives[0].Material().Sc)
}

func TestParseRaysPerPixelScalar(t *testing.T) {
	s, err := NewSceneParser(nil).Parse(mutate(t, `"raysperpixel": [4, 4]`, `"raysperpixel": 9`))
	require.NoError(t, err)
	assert.Equal(t, []int{9}, s.Outputs[0].RaysPerPixel)
}

func TestParseTransforms(t *testing.T) {
	t.Run("translated sphere", func(t *testing.T) {
		doc := mutate(t, `"radius": 1,`, `"radius": 1, "transform": [2,0,0,1, 0,2,0,2, 0,0,2,3, 0,0,0,1],`)
		s, err := NewSceneParser(nil).Parse(doc)
		require.NoError(t, err)

		sphere := s.Primitives[0].(*geometry.Sphere)
		assert.InDelta(t, 1.0, sphere.Center.X, 1e-12)
		assert.InDelta(t, 2.0, sphere.Center.Y, 1e-12)
		assert.InDelta(t, -3.0, sphere.Center.Z, 1e-12)
		assert.InDelta(t, 2.0, sphere.Radius, 1e-12)
	})

	t.Run("translated triangle", func(t *testing.T) {
		doc := mutate(t, `"p3": [0, 1, -5],`, `"p3": [0, 1, -5], "transform": [1,0,0,10, 0,1,0,0, 0,0,1,0, 0,0,0,1],`)
		s, err := NewSceneParser(nil).Parse(doc)
		require.NoError(t, err)

		tri := s.Primitives[2].(*geometry.Triangle)
		assert.InDelta(t, 10.0, tri.P1.X, 1e-12)
		assert.InDelta(t, 11.0, tri.P2.X, 1e-12)
	})

	t.Run("non-uniform sphere scale", func(t *testing.T) {
		doc := mutate(t, `"radius": 1,`, `"radius": 1, "transform": [1,0,0,0, 0,2,0,0, 0,0,1,0, 0,0,0,1],`)
		_, err := NewSceneParser(nil).Parse(doc)
		require.ErrorIs(t, err, geometry.ErrNonUniformScale)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "geometry[0].transform", verr.Path)
	})

	t.Run("projective matrix", func(t *testing.T) {
		doc := mutate(t, `"radius": 1,`, `"radius": 1, "transform": [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,1,0],`)
		_, err := NewSceneParser(nil).Parse(doc)
		assert.ErrorIs(t, err, geometry.ErrNotAffine)
	})

	t.Run("short matrix", func(t *testing.T) {
		doc := mutate(t, `"radius": 1,`, `"radius": 1, "transform": [1,0,0,0],`)
		_, err := NewSceneParser(nil).Parse(doc)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "geometry[0].transform", verr.Path)
	})
}

func TestLoadScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))

	s, err := LoadScene(path, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, s.Primitives, 3)

	_, err = LoadScene(filepath.Join(dir, "missing.json"), nil)
	assert.Error(t, err)

	_, err = LoadScene("", nil)
	assert.Error(t, err)
}

func TestParseSceneReader(t *testing.T) {
	s, err := ParseScene(strings.NewReader(sampleScene), nil)
	require.NoError(t, err)
	assert.Equal(t, 64, s.Outputs[0].Width)
	assert.Len(t, s.Lights, 2)
}
