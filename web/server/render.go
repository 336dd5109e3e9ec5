package server

import (
	"bytes"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/encoders"
	"github.com/df07/phong-raytracer/pkg/renderer"
)

// handleRender renders one output of the requested scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	logger, console := s.requestLogger(r)

	sceneObj, err := s.loadRequestScene(r, logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	out, index, err := selectOutput(r.URL.Query(), sceneObj)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	// Explicit format wins over the output's filename extension
	var format encoders.Format
	if name := r.URL.Query().Get("format"); name != "" {
		format, err = encoders.ParseFormat(name)
	} else {
		format, err = encoders.FormatFromFilename(out.Filename)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	rnd, err := renderer.NewRenderer(sceneObj, out, s.config, logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err, console)
		return
	}

	// Client disconnection cancels the render through the request context
	buffer, stats, err := rnd.Render(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err, console)
		return
	}

	var encoded bytes.Buffer
	if err := encoders.Encode(&encoded, format, buffer, out.Width, out.Height); err != nil {
		logger.Error("failed to encode image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err, console)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(encoded.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Id", stats.RenderID.String())
	w.Header().Set("X-Render-Output", strconv.Itoa(index))
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Warnings", strconv.Itoa(len(console.Messages())))
	w.WriteHeader(http.StatusOK)
	w.Write(encoded.Bytes())
}

// OutputSummary describes one output of a validated scene
type OutputSummary struct {
	Filename      string `json:"filename"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	TwoSideRender bool   `json:"twoSideRender"`
}

// ValidateResponse is the JSON body returned by /api/validate
type ValidateResponse struct {
	Valid      bool             `json:"valid"`
	Error      string           `json:"error,omitempty"`
	Path       string           `json:"path,omitempty"`
	Primitives map[string]int   `json:"primitives,omitempty"` // Count per kind
	Lights     map[string]int   `json:"lights,omitempty"`     // Count per type
	Outputs    []OutputSummary  `json:"outputs,omitempty"`
	Warnings   []ConsoleMessage `json:"warnings"`
}

// handleValidate parses a scene document and reports its contents or the first error
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	logger, console := s.requestLogger(r)

	sceneObj, err := s.loadRequestScene(r, logger)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid:    false,
			Error:    err.Error(),
			Path:     validationPath(err),
			Warnings: append([]ConsoleMessage{}, console.Messages()...),
		})
		return
	}

	resp := ValidateResponse{
		Valid:      true,
		Primitives: make(map[string]int),
		Lights:     make(map[string]int),
		Warnings:   append([]ConsoleMessage{}, console.Messages()...),
	}
	for _, p := range sceneObj.Primitives {
		resp.Primitives[p.Kind().String()]++
	}
	for _, l := range sceneObj.Lights {
		resp.Lights[string(l.Type())]++
	}
	for _, out := range sceneObj.Outputs {
		resp.Outputs = append(resp.Outputs, OutputSummary{
			Filename:      out.Filename,
			Width:         out.Width,
			Height:        out.Height,
			TwoSideRender: out.TwoSideRender,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
