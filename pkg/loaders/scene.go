package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/core"
	"github.com/df07/phong-raytracer/pkg/geometry"
	"github.com/df07/phong-raytracer/pkg/lights"
	"github.com/df07/phong-raytracer/pkg/scene"
)

var (
	// ErrUnsupportedType is wrapped by errors for unknown geometry or light types
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrInvalidDocument is returned when the input is not a JSON object
	ErrInvalidDocument = errors.New("scene document is not a valid JSON object")
)

// ValidationError reports a missing or malformed field of the scene document
type ValidationError struct {
	Path string // e.g. "geometry[2].radius"
	Msg  string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SceneParser turns a JSON scene document into a scene.Scene.
// Validation is strict: the first missing or mistyped field aborts parsing.
// Recoverable shape problems are reported as warnings on the logger.
type SceneParser struct {
	logger *zap.Logger
}

// NewSceneParser creates a parser; a nil logger discards warnings
func NewSceneParser(logger *zap.Logger) *SceneParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SceneParser{logger: logger}
}

// LoadScene loads and parses a JSON scene file
func LoadScene(filename string, logger *zap.Logger) (*scene.Scene, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	return NewSceneParser(logger).Parse(data)
}

// ParseScene parses a JSON scene document from an io.Reader
func ParseScene(reader io.Reader, logger *zap.Logger) (*scene.Scene, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	return NewSceneParser(logger).Parse(data)
}

// Parse parses a complete scene document
func (p *SceneParser) Parse(data []byte) (*scene.Scene, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidDocument
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidDocument
	}

	s := &scene.Scene{}

	if err := p.eachEntry(doc, "geometry", func(e entity) error {
		prim, err := p.parseGeometry(e)
		if err != nil {
			return err
		}
		s.AddPrimitive(prim)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.eachEntry(doc, "light", func(e entity) error {
		light, err := p.parseLight(e)
		if err != nil {
			return err
		}
		s.AddLight(light)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.eachEntry(doc, "output", func(e entity) error {
		out, err := p.parseOutput(e)
		if err != nil {
			return err
		}
		s.AddOutput(out)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	p.logger.Debug("scene parsed",
		zap.Int("primitives", len(s.Primitives)),
		zap.Int("lights", len(s.Lights)),
		zap.Int("outputs", len(s.Outputs)))

	return s, nil
}

// eachEntry calls fn for every object in the top-level array named key.
// An absent array is treated as empty.
func (p *SceneParser) eachEntry(doc gjson.Result, key string, fn func(entity) error) error {
	arr := doc.Get(key)
	if !arr.Exists() {
		p.logger.Debug("scene has no entries", zap.String("field", key))
		return nil
	}
	if !arr.IsArray() {
		return &ValidationError{Path: key, Msg: "expected array"}
	}

	for i, obj := range arr.Array() {
		e := entity{p: p, path: fmt.Sprintf("%s[%d]", key, i), obj: obj}
		if !obj.IsObject() {
			return &ValidationError{Path: e.path, Msg: "expected object"}
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (p *SceneParser) parseGeometry(e entity) (geometry.Primitive, error) {
	kind, err := e.str("type")
	if err != nil {
		return nil, err
	}

	material, err := e.material()
	if err != nil {
		return nil, err
	}

	var prim geometry.Primitive
	switch kind {
	case "sphere":
		center, err := e.vec3("centre", padWithZeros)
		if err != nil {
			return nil, err
		}
		radius, err := e.number("radius")
		if err != nil {
			return nil, err
		}
		if radius <= 0 {
			return nil, &ValidationError{Path: e.field("radius"), Msg: fmt.Sprintf("must be positive, got %g", radius)}
		}
		prim = geometry.NewSphere(center, radius, material)

	case "rectangle":
		corners, err := e.corners("p1", "p2", "p3", "p4")
		if err != nil {
			return nil, err
		}
		e.warnIfNotCoplanar(corners)
		prim = geometry.NewRectangle(corners[0], corners[1], corners[2], corners[3], material)

	case "triangle":
		corners, err := e.corners("p1", "p2", "p3")
		if err != nil {
			return nil, err
		}
		prim = geometry.NewTriangle(corners[0], corners[1], corners[2], material)

	default:
		return nil, &ValidationError{Path: e.field("type"), Msg: fmt.Sprintf("geometry type %q", kind), Err: ErrUnsupportedType}
	}

	if e.has("transform") {
		m, err := e.matrix("transform")
		if err != nil {
			return nil, err
		}
		prim, err = geometry.ApplyTransform(prim, m)
		if err != nil {
			return nil, &ValidationError{Path: e.field("transform"), Msg: "cannot apply", Err: err}
		}
	}

	return prim, nil
}

func (p *SceneParser) parseLight(e entity) (lights.Light, error) {
	kind, err := e.str("type")
	if err != nil {
		return nil, err
	}
	id, err := e.vec3("id", padWithZeros)
	if err != nil {
		return nil, err
	}
	is, err := e.vec3("is", padWithZeros)
	if err != nil {
		return nil, err
	}
	if e.has("transform") {
		p.logger.Warn("light transforms are not supported, ignoring", zap.String("field", e.field("transform")))
	}

	switch kind {
	case "point":
		center, err := e.vec3("centre", padWithZeros)
		if err != nil {
			return nil, err
		}
		return lights.NewPoint(center, id, is), nil

	case "area":
		corners, err := e.corners("p1", "p2", "p3", "p4")
		if err != nil {
			return nil, err
		}
		e.warnIfNotCoplanar(corners)
		return lights.NewArea(corners[0], corners[1], corners[2], corners[3], id, is), nil

	default:
		return nil, &ValidationError{Path: e.field("type"), Msg: fmt.Sprintf("light type %q", kind), Err: ErrUnsupportedType}
	}
}

func (p *SceneParser) parseOutput(e entity) (scene.Output, error) {
	var out scene.Output
	var err error

	if out.Filename, err = e.str("filename"); err != nil {
		return out, err
	}
	size, err := e.uints("size", 2, 2)
	if err != nil {
		return out, err
	}
	out.Width, out.Height = size[0], size[1]

	if out.FOV, err = e.number("fov"); err != nil {
		return out, err
	}
	if out.Up, err = e.vec3("up", padWithZeros); err != nil {
		return out, err
	}
	if out.LookAt, err = e.vec3("lookat", padWithZeros); err != nil {
		return out, err
	}
	if out.Ambient, err = e.vec3("ai", padWithZeros); err != nil {
		return out, err
	}
	if out.Background, err = e.vec3("bkc", padWithZeros); err != nil {
		return out, err
	}
	if out.Center, err = e.vec3("centre", padWithZeros); err != nil {
		return out, err
	}

	// Optional members
	if e.has("raysperpixel") {
		if out.RaysPerPixel, err = e.uints("raysperpixel", 1, 2); err != nil {
			return out, err
		}
	}
	if e.has("speedup") {
		speedUp, err := e.uints("speedup", 1, 1)
		if err != nil {
			return out, err
		}
		out.SpeedUp = speedUp[0]
	}
	if out.AntiAliasing, err = e.optionalBool("antialiasing"); err != nil {
		return out, err
	}
	if out.TwoSideRender, err = e.optionalBool("twosiderender"); err != nil {
		return out, err
	}
	if out.GlobalIllum, err = e.optionalBool("globalillum"); err != nil {
		return out, err
	}

	if err := out.Validate(); err != nil {
		return out, &ValidationError{Path: e.path, Msg: "invalid output", Err: err}
	}
	return out, nil
}

// padPolicy decides what happens when a triple has fewer than three entries
type padPolicy int

const (
	padWithZeros padPolicy = iota
	rejectShort
)

// entity is one object of a top-level array together with its path for messages
type entity struct {
	p    *SceneParser
	path string
	obj  gjson.Result
}

func (e entity) field(name string) string {
	return e.path + "." + name
}

func (e entity) has(name string) bool {
	return e.obj.Get(name).Exists()
}

func (e entity) required(name string) (gjson.Result, error) {
	r := e.obj.Get(name)
	if !r.Exists() {
		return r, &ValidationError{Path: e.field(name), Msg: "required field is missing"}
	}
	return r, nil
}

func (e entity) number(name string) (float64, error) {
	r, err := e.required(name)
	if err != nil {
		return 0, err
	}
	if r.Type != gjson.Number {
		return 0, &ValidationError{Path: e.field(name), Msg: "expected number, got " + r.Type.String()}
	}
	return r.Num, nil
}

func (e entity) str(name string) (string, error) {
	r, err := e.required(name)
	if err != nil {
		return "", err
	}
	if r.Type != gjson.String {
		return "", &ValidationError{Path: e.field(name), Msg: "expected string, got " + r.Type.String()}
	}
	return r.Str, nil
}

func (e entity) optionalBool(name string) (bool, error) {
	r := e.obj.Get(name)
	switch r.Type {
	case gjson.Null:
		if r.Exists() {
			return false, &ValidationError{Path: e.field(name), Msg: "expected boolean, got null"}
		}
		return false, nil
	case gjson.True, gjson.False:
		return r.Bool(), nil
	default:
		return false, &ValidationError{Path: e.field(name), Msg: "expected boolean, got " + r.Type.String()}
	}
}

// numbers reads an array of numbers, keeping at most limit entries
func (e entity) numbers(name string, limit int) ([]float64, error) {
	r, err := e.required(name)
	if err != nil {
		return nil, err
	}
	if !r.IsArray() {
		return nil, &ValidationError{Path: e.field(name), Msg: "expected array"}
	}

	items := r.Array()
	values := make([]float64, 0, min(len(items), limit))
	for i, item := range items {
		if item.Type != gjson.Number {
			return nil, &ValidationError{Path: fmt.Sprintf("%s[%d]", e.field(name), i), Msg: "expected number, got " + item.Type.String()}
		}
		if i < limit {
			values = append(values, item.Num)
		}
	}
	if len(items) > limit {
		e.p.logger.Warn("too many entries, extra values ignored",
			zap.String("field", e.field(name)),
			zap.Int("expected", limit),
			zap.Int("got", len(items)))
	}
	return values, nil
}

func (e entity) vec3(name string, policy padPolicy) (core.Vec3, error) {
	values, err := e.numbers(name, 3)
	if err != nil {
		return core.Vec3{}, err
	}
	if len(values) < 3 {
		if policy == rejectShort {
			return core.Vec3{}, &ValidationError{Path: e.field(name), Msg: fmt.Sprintf("expected 3 values, got %d", len(values))}
		}
		e.p.logger.Warn("too few entries, missing values assumed to be 0",
			zap.String("field", e.field(name)),
			zap.Int("got", len(values)))
		values = append(values, make([]float64, 3-len(values))...)
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// uints reads between minCount and maxCount non-negative integers.
// A bare number is accepted as a one-element list.
func (e entity) uints(name string, minCount, maxCount int) ([]int, error) {
	r, err := e.required(name)
	if err != nil {
		return nil, err
	}

	var values []float64
	if r.Type == gjson.Number {
		values = []float64{r.Num}
	} else if values, err = e.numbers(name, maxCount); err != nil {
		return nil, err
	}

	if len(values) < minCount {
		return nil, &ValidationError{Path: e.field(name), Msg: fmt.Sprintf("expected at least %d values, got %d", minCount, len(values))}
	}

	ints := make([]int, len(values))
	for i, v := range values {
		if v < 0 || v != math.Trunc(v) || v > math.MaxInt32 {
			return nil, &ValidationError{Path: e.field(name), Msg: fmt.Sprintf("expected non-negative integer, got %g", v)}
		}
		ints[i] = int(v)
	}
	return ints, nil
}

// matrix reads a row-major 4x4 matrix given as 16 numbers
func (e entity) matrix(name string) (mgl64.Mat4, error) {
	values, err := e.numbers(name, 16)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	if len(values) < 16 {
		return mgl64.Mat4{}, &ValidationError{Path: e.field(name), Msg: fmt.Sprintf("expected 16 values, got %d", len(values))}
	}
	var rows [16]float64
	copy(rows[:], values)
	return geometry.MatrixFromRows(rows), nil
}

func (e entity) corners(names ...string) ([]core.Vec3, error) {
	points := make([]core.Vec3, len(names))
	for i, name := range names {
		p, err := e.vec3(name, rejectShort)
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

func (e entity) warnIfNotCoplanar(corners []core.Vec3) {
	normal := corners[1].Subtract(corners[0]).Cross(corners[2].Subtract(corners[0]))
	if normal.IsZero() {
		e.p.logger.Warn("degenerate quad, first three corners are collinear", zap.String("field", e.path))
		return
	}
	distance := math.Abs(corners[3].Subtract(corners[0]).Dot(normal.Normalize()))
	if distance > 1e-6*(1+corners[2].Subtract(corners[0]).Length()) {
		e.p.logger.Warn("quad corners are not coplanar",
			zap.String("field", e.path),
			zap.Float64("distance", distance))
	}
}

func (e entity) material() (geometry.Material, error) {
	var m geometry.Material
	var err error

	if m.Ka, err = e.number("ka"); err != nil {
		return m, err
	}
	if m.Kd, err = e.number("kd"); err != nil {
		return m, err
	}
	if m.Ks, err = e.number("ks"); err != nil {
		return m, err
	}
	if m.Pc, err = e.number("pc"); err != nil {
		return m, err
	}
	if m.Ac, err = e.vec3("ac", padWithZeros); err != nil {
		return m, err
	}
	if m.Dc, err = e.vec3("dc", padWithZeros); err != nil {
		return m, err
	}
	if m.Sc, err = e.vec3("sc", padWithZeros); err != nil {
		return m, err
	}

	if err := m.Validate(); err != nil {
		return m, &ValidationError{Path: e.path, Msg: "invalid material", Err: err}
	}
	return m, nil
}
