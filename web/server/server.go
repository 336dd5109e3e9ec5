package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/df07/phong-raytracer/pkg/loaders"
	"github.com/df07/phong-raytracer/pkg/renderer"
	"github.com/df07/phong-raytracer/pkg/scene"
)

const (
	maxSceneBytes   = 4 << 20 // Largest accepted scene document
	maxImageSize    = 2000    // Largest accepted output width or height
	consoleCapacity = 100     // Warnings returned per request
)

// Server handles web requests for the raytracer
type Server struct {
	port      int
	scenesDir string
	config    renderer.Config
	logger    *zap.Logger
}

// NewServer creates a new web server. Named scenes are looked up in scenesDir.
func NewServer(port int, scenesDir string, config renderer.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		port:      port,
		scenesDir: scenesDir,
		config:    config,
		logger:    logger,
	}
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/render", s.handleRender)
	mux.HandleFunc("GET /api/inspect", s.handleInspect)
	mux.HandleFunc("POST /api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting web server", zap.String("addr", "http://localhost"+addr))
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the JSON documents in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// requestLogger returns a logger that also records warnings into a per-request console
func (s *Server) requestLogger(r *http.Request) (*zap.Logger, *Console) {
	console := NewConsole(consoleCapacity)
	logger := s.logger.
		With(zap.String("path", r.URL.Path)).
		WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, console.Core(zapcore.WarnLevel))
		}))
	return logger, console
}

// loadRequestScene reads the scene document from the request body. An empty
// body selects a built-in or bundled scene by the "scene" query parameter.
func (s *Server) loadRequestScene(r *http.Request, logger *zap.Logger) (*scene.Scene, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, maxSceneBytes+1))
		if err != nil {
			return nil, fmt.Errorf("error reading request body: %w", err)
		}
		if len(body) > maxSceneBytes {
			return nil, fmt.Errorf("scene document exceeds %d bytes", maxSceneBytes)
		}
	}

	if len(strings.TrimSpace(string(body))) > 0 {
		return loaders.NewSceneParser(logger).Parse(body)
	}

	name := r.URL.Query().Get("scene")
	if name == "" {
		return nil, errors.New("request needs a scene document in the body or a scene parameter")
	}
	if err := validateSceneName(name); err != nil {
		return nil, err
	}
	return loaders.LoadNamedScene(name, s.scenesDir, logger)
}

// validateSceneName restricts named scenes to plain identifiers so that
// requests cannot reach files outside the scenes directory
func validateSceneName(name string) error {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid scene name %q", name)
	}
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return fmt.Errorf("scene name %q must not include an extension", name)
	}
	return nil
}

// selectOutput picks the output named by the "output" query parameter (default 0)
func selectOutput(values url.Values, s *scene.Scene) (scene.Output, int, error) {
	index, err := parseIntParam(values, "output", 0, 0, len(s.Outputs)-1)
	if err != nil {
		return scene.Output{}, 0, err
	}
	out := s.Outputs[index]
	if out.Width > maxImageSize || out.Height > maxImageSize {
		return scene.Output{}, 0, fmt.Errorf("output %d is %dx%d, larger than the %d pixel limit",
			index, out.Width, out.Height, maxImageSize)
	}
	return out, index, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error    string           `json:"error"`
	Path     string           `json:"path,omitempty"` // Offending field for scene validation errors
	Warnings []ConsoleMessage `json:"warnings,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error, console *Console) {
	resp := ErrorResponse{Error: err.Error(), Path: validationPath(err)}
	if console != nil {
		resp.Warnings = console.Messages()
	}
	writeJSON(w, status, resp)
}

// validationPath returns the offending field of a scene validation error, if any
func validationPath(err error) string {
	var verr *loaders.ValidationError
	if errors.As(err, &verr) {
		return verr.Path
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
