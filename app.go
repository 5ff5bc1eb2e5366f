package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chazu/mdimension/pkg/config"
	"github.com/chazu/mdimension/pkg/engine"
	"github.com/chazu/mdimension/pkg/flat"
	"github.com/chazu/mdimension/pkg/kernel"
	"github.com/chazu/mdimension/pkg/kernel/incremental"
	"github.com/chazu/mdimension/pkg/kernel/quickhull"
	"github.com/chazu/mdimension/pkg/scene"
	"github.com/chazu/mdimension/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to polytopes.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    config.Config
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices  []float32 `json:"vertices"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Dimension int       `json:"dimension"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// HullResult is returned by the ConvexHull binding. Indices holds three
// entries per triangle, or every point index when the input is too small
// to enclose a volume.
type HullResult struct {
	Indices []uint32 `json:"indices"`
	Error   string   `json:"error,omitempty"`
}

// NewApp creates a new App configured from the environment. An invalid
// environment is logged and the defaults are used instead.
func NewApp() *App {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		cfg = defaultConfig()
	}
	app, err := NewAppWithConfig(cfg)
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		app, _ = NewAppWithConfig(defaultConfig())
	}
	return app
}

// NewAppWithConfig creates an App from an explicit configuration.
func NewAppWithConfig(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, err := cfg.NewKernel(log.Default())
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine()
	eng.Timeout = cfg.EvalTimeout
	return &App{
		ctx:    context.Background(),
		cfg:    cfg,
		engine: eng,
		kernel: k,
	}, nil
}

func defaultConfig() config.Config {
	return config.Config{
		EvalTimeout: engine.EvalTimeout,
		HullTimeout: 2 * engine.EvalTimeout,
		Kernel:      config.KernelIncremental,
		NullSpace:   "svd",
		MaxPoints:   100000,
		Workers:     tessellate.DefaultWorkers,

		QuickhullEps: quickhull.DefaultEps,
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	log.Printf("mdimension: kernel %s, nullspace %s", a.kernel.Name(), a.cfg.NullSpace)
}

// Evaluate takes scene source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Validate the scene before spending time on hulls.
	v := scene.ValidateAll(s)
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Error()})
	}
	for _, e := range v.Errors {
		result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
	}
	if err := a.cfg.CheckPoints(s.PointCount()); err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	if len(result.Errors) > 0 {
		return result
	}

	// Step 4: Hull every polytope into a triangle mesh.
	parts, err := a.tessellate(s)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 5: Convert kernel meshes to the frontend MeshData format.
	for i, p := range parts {
		result.Warnings = append(result.Warnings, hullWarnings(p)...)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices:  p.Mesh.Vertices,
			Normals:   p.Mesh.Normals,
			Indices:   p.Mesh.Indices,
			Name:      p.Mesh.Name,
			Color:     colorPalette[i%len(colorPalette)],
			Dimension: p.Solid.Dimension(),
		})
	}

	return result
}

// tessellate hulls the scene under the configured hull timeout. Workers
// that have not started yet are cancelled when the timeout fires.
func (a *App) tessellate(s *scene.Scene) ([]tessellate.Part, error) {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	return engine.RunWithTimeout(a.cfg.HullTimeout, func() ([]tessellate.Part, error) {
		return tessellate.Tessellate(ctx, s, a.kernel, a.cfg.Workers)
	})
}

// hullWarnings reports degenerate facets and ridge anomalies the
// incremental engine absorbed while hulling p.
func hullWarnings(p tessellate.Part) []EvalErrorData {
	solid, ok := p.Solid.(*incremental.Solid)
	if !ok {
		return nil
	}
	st := solid.Result().Stats
	var out []EvalErrorData
	if st.FacetFailures > 0 {
		out = append(out, EvalErrorData{
			Message: fmt.Sprintf("polytope %q: dropped %d degenerate facets", p.Polytope.Name, st.FacetFailures),
		})
	}
	if st.RidgeAnomalies > 0 {
		out = append(out, EvalErrorData{
			Message: fmt.Sprintf("polytope %q: %d ridges shared by more than two visible facets", p.Polytope.Name, st.RidgeAnomalies),
		})
	}
	return out
}

// ConvexHull computes the hull of a flat row-major point buffer of the
// given dimension and returns triangle indices into the original order.
func (a *App) ConvexHull(points []float64, dim int) HullResult {
	pts, err := flat.Points(points, dim)
	if err != nil {
		return HullResult{Indices: []uint32{}, Error: err.Error()}
	}
	if err := a.cfg.CheckPoints(len(pts)); err != nil {
		return HullResult{Indices: []uint32{}, Error: err.Error()}
	}
	opts, err := a.cfg.HullOptions(log.Default())
	if err != nil {
		return HullResult{Indices: []uint32{}, Error: err.Error()}
	}

	indices, err := engine.RunWithTimeout(a.cfg.HullTimeout, func() ([]uint32, error) {
		return flat.Hull(pts, opts...)
	})
	if err != nil {
		log.Printf("ConvexHull error: %v", err)
		return HullResult{Indices: []uint32{}, Error: err.Error()}
	}
	return HullResult{Indices: indices}
}
