package main

import (
	"context"

	"github.com/chazu/scatter/pkg/engine"
	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/kernel"
	"github.com/chazu/scatter/pkg/kernel/sdfx"
	"github.com/chazu/scatter/pkg/logger"
	"github.com/chazu/scatter/pkg/place"
	"github.com/chazu/scatter/pkg/provider"
	"github.com/chazu/scatter/pkg/scene"
	"github.com/fogleman/fauxgl"
	"go.uber.org/zap"
)

// colorPalette is a default palette used to assign distinct colors to runs.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	scene  *scene.Scene
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
// One MeshData per placed instance, in world coordinates.
type MeshData struct {
	Vertices   []float32 `json:"vertices"`
	Normals    []float32 `json:"normals"`
	Indices    []uint32  `json:"indices"`
	Name       string    `json:"name"`
	Collection string    `json:"collection"`
	Color      string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// RunSummaryData reports one scatter run to the frontend.
type RunSummaryData struct {
	RunID      string  `json:"runId"`
	Collection string  `json:"collection"`
	Requested  int     `json:"requested"`
	Placed     int     `json:"placed"`
	Abandoned  int     `json:"abandoned"`
	MeanTrials float64 `json:"meanTrials"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes    []MeshData       `json:"meshes"`
	Summaries []RunSummaryData `json:"summaries"`
	Errors    []EvalErrorData  `json:"errors"`
}

// NewApp creates a new App with the sdfx kernel and an empty mesh registry.
func NewApp() *App {
	return newApp(sdfx.New(), provider.NewRegistry())
}

// newApp wires an App from its parts; tests substitute a lighter kernel.
func newApp(k kernel.Kernel, p provider.Provider) *App {
	return &App{
		engine: engine.NewEngine(k, p),
		scene:  scene.NewScene(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes scatter-script source, runs every placement it describes,
// and returns per-instance mesh data plus run summaries and errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:    []MeshData{},
		Summaries: []RunSummaryData{},
		Errors:    []EvalErrorData{},
	}

	plan, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		logger.Log.Error("evaluate failed", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

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

	for i, run := range plan.Runs {
		placer := place.NewEngine()
		placer.SetLogger(logger.Log)

		res, err := placer.PlaceAll(run.Base, run.Config)
		if err != nil {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			return result
		}

		if _, err := a.scene.Populate(run.Collection, res); err != nil {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
			return result
		}

		color := colorPalette[i%len(colorPalette)]
		for _, inst := range res.Instances {
			md := meshDataFor(run.Base, inst)
			md.Collection = run.Collection
			md.Color = color
			result.Meshes = append(result.Meshes, md)
		}

		s := res.Summary()
		result.Summaries = append(result.Summaries, RunSummaryData{
			RunID:      res.RunID.String(),
			Collection: run.Collection,
			Requested:  s.Requested,
			Placed:     s.Placed,
			Abandoned:  s.Abandoned,
			MeanTrials: s.MeanTrials,
		})
	}

	return result
}

// meshDataFor flattens one posed instance into frontend arrays. Vertices are
// unshared per triangle with flat face normals, matching what the kernel
// backends emit.
func meshDataFor(desc *geom.Descriptor, inst *place.Instance) MeshData {
	triangles := desc.Posed(inst.Pose).Triangles()

	md := MeshData{
		Name:     inst.Name,
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}

	for i, tri := range triangles {
		n := tri.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)

		for j, v := range []fauxgl.Vector{tri.V1.Position, tri.V2.Position, tri.V3.Position} {
			md.Vertices = append(md.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			md.Normals = append(md.Normals, nx, ny, nz)
			md.Indices = append(md.Indices, uint32(i*3+j))
		}
	}
	return md
}
