package server

import (
	"fmt"
	"net/http"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/renderer"
	"github.com/df07/phong-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Index        int                    `json:"index"` // Position of the primitive in the scene, -1 on a miss
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float64             `json:"color"` // Clamped pixel color
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo extracts the Blinn-Phong coefficients of a material
func extractMaterialInfo(m geometry.Material) map[string]interface{} {
	return map[string]interface{}{
		"ka":    m.Ka,
		"kd":    m.Kd,
		"ks":    m.Ks,
		"pc":    m.Pc,
		"ac":    vec(m.Ac),
		"dc":    vec(m.Dc),
		"sc":    vec(m.Sc),
		"color": hexColor(core.ColorFromVec3(m.Dc)),
	}
}

// hexColor formats a clamped color as #rrggbb
func hexColor(c core.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", int(255*c.Red()), int(255*c.Green()), int(255*c.Blue()))
}

// extractGeometryInfo extracts geometry details with type assertions
func extractGeometryInfo(p geometry.Primitive) map[string]interface{} {
	properties := make(map[string]interface{})

	switch geom := p.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius

	case *geometry.Triangle:
		properties["vertices"] = [][3]float64{vec(geom.P1), vec(geom.P2), vec(geom.P3)}
		properties["normal"] = vec(geom.Normal(geom.P1))

	case *geometry.Rectangle:
		properties["corners"] = [][3]float64{vec(geom.P1), vec(geom.P2), vec(geom.P3), vec(geom.P4)}
		properties["normal"] = vec(geom.Normal(geom.P1))
	}

	return properties
}

// inspectPixel casts the primary ray of pixel (x, y) and describes what it hits
func inspectPixel(sceneObj *scene.Scene, out scene.Output, x, y int) (InspectResponse, error) {
	rt, err := renderer.NewRaytracer(sceneObj, out)
	if err != nil {
		return InspectResponse{}, err
	}

	ray := rt.Camera().GetRay(x, y)
	color, _ := rt.RayColor(ray)

	hit, isHit := geometry.Nearest(sceneObj.Primitives, ray, out.CullMode())
	if !isHit {
		return InspectResponse{Hit: false, Index: -1, Color: vec(color.Vec3())}, nil
	}

	index := -1
	for i, p := range sceneObj.Primitives {
		if p == hit.Primitive {
			index = i
			break
		}
	}

	return InspectResponse{
		Hit:          true,
		GeometryType: hit.Primitive.Kind().String(),
		Index:        index,
		Point:        vec(hit.Point),
		Normal:       vec(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Color:        vec(color.Vec3()),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Primitive.Material()),
			"geometry": extractGeometryInfo(hit.Primitive),
		},
	}, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	logger, console := s.requestLogger(r)

	sceneObj, err := s.loadRequestScene(r, logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	out, _, err := selectOutput(r.URL.Query(), sceneObj)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	// Parse pixel coordinates
	pixelX, err := parseIntParam(r.URL.Query(), "x", -1, 0, out.Width-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid x coordinate: %q", r.URL.Query().Get("x")), console)
		return
	}
	pixelY, err := parseIntParam(r.URL.Query(), "y", -1, 0, out.Height-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid y coordinate: %q", r.URL.Query().Get("y")), console)
		return
	}

	result, err := inspectPixel(sceneObj, out, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
