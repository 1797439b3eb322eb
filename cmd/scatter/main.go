// Command scatter places randomized, collision-free copies of a mesh in a
// bounded volume and writes the result as STL.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/scatter/pkg/config"
	"github.com/chazu/scatter/pkg/engine"
	"github.com/chazu/scatter/pkg/geom"
	"github.com/chazu/scatter/pkg/kernel/sdfx"
	"github.com/chazu/scatter/pkg/logger"
	"github.com/chazu/scatter/pkg/place"
	"github.com/chazu/scatter/pkg/provider"
	"github.com/chazu/scatter/pkg/scene"
	"github.com/fogleman/fauxgl"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	meshPath   = flag.String("mesh", "", "base mesh file (STL, OBJ, PLY, 3DS)")
	scriptPath = flag.String("script", "", "scatter script to run instead of flags")
	copies     = flag.Int("copies", 0, "number of copies to place")
	maxTrials  = flag.Int("max-trials", 0, "retry budget per copy")
	seed       = flag.Int64("seed", 0, "RNG seed")
	halfX      = flag.Float64("hx", 0, "half extent along X")
	halfY      = flag.Float64("hy", 0, "half extent along Y")
	zMin       = flag.Float64("zmin", 0, "minimum Z")
	zMax       = flag.Float64("zmax", 0, "maximum Z")
	output     = flag.String("o", "", "output STL path")
	logLevel   = flag.String("log-level", "", "log level (debug, info, warn, error)")
	logFile    = flag.String("log-file", "", "log file path")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "scatter:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	defer logger.Sync()

	if *scriptPath != "" {
		return runScript(cfg, *scriptPath)
	}
	return runMesh(cfg)
}

// applyFlags overrides config values with any flags the user set.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "copies":
			cfg.Placement.Copies = *copies
		case "max-trials":
			cfg.Placement.MaxTrials = *maxTrials
		case "seed":
			cfg.Placement.Seed = *seed
		case "hx":
			cfg.Bounds.HalfExtentX = *halfX
		case "hy":
			cfg.Bounds.HalfExtentY = *halfY
		case "zmin":
			cfg.Bounds.ZMin = *zMin
		case "zmax":
			cfg.Bounds.ZMax = *zMax
		case "o":
			cfg.Output.STLPath = *output
		case "log-level":
			cfg.Logging.Level = *logLevel
		case "log-file":
			cfg.Logging.LogFile = *logFile
		}
	})
}

// runMesh places copies of a mesh file using the flag/config parameters.
func runMesh(cfg *config.Config) error {
	if *meshPath == "" {
		return fmt.Errorf("either -mesh or -script is required")
	}

	mesh, err := fauxgl.LoadMesh(*meshPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *meshPath, err)
	}
	desc := geom.FromMesh(mesh)

	logger.Log.Info("mesh loaded",
		zap.String("path", *meshPath),
		zap.Int("triangles", desc.TriangleCount()))

	return execute(desc, cfg.ToPlaceConfig(), cfg.Output.Collection, cfg.Output.STLPath)
}

// runScript evaluates a scatter script; base meshes named in the script are
// resolved relative to the script's directory.
func runScript(cfg *config.Config, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(sdfx.New(), provider.NewFileProvider(filepath.Dir(path)))
	plan, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Log.Error("script error",
				zap.Int("line", e.Line),
				zap.String("message", e.Message))
		}
		return fmt.Errorf("%d script error(s)", len(evalErrs))
	}

	for i, run := range plan.Runs {
		out := cfg.Output.STLPath
		if out != "" && len(plan.Runs) > 1 {
			ext := filepath.Ext(out)
			out = fmt.Sprintf("%s_%s%s", out[:len(out)-len(ext)], run.Collection, ext)
		}
		logger.Log.Info("running scatter",
			zap.Int("run", i),
			zap.String("collection", run.Collection))
		if err := execute(run.Base, run.Config, run.Collection, out); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one placement and reports and exports the result.
func execute(desc *geom.Descriptor, pc place.Config, collection, stlPath string) error {
	placer := place.NewEngine()
	placer.SetLogger(logger.Log)

	res, err := placer.PlaceAll(desc, pc)
	if err != nil {
		return err
	}

	sc := scene.NewScene()
	if _, err := sc.Populate(collection, res); err != nil {
		return err
	}

	s := res.Summary()
	logger.Log.Info("placement complete",
		zap.String("run_id", res.RunID.String()),
		zap.String("collection", collection),
		zap.Int("requested", s.Requested),
		zap.Int("placed", s.Placed),
		zap.Int("abandoned", s.Abandoned),
		zap.Float64("mean_trials", s.MeanTrials),
		zap.Float64("stddev_trials", s.StddevTrials))

	if stlPath != "" {
		if err := scene.ExportSTL(stlPath, desc, res); err != nil {
			return fmt.Errorf("writing %s: %w", stlPath, err)
		}
		logger.Log.Info("wrote STL", zap.String("path", stlPath))
	}
	return nil
}
