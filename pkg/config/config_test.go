package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 20, cfg.Placement.Copies)
	assert.Equal(t, 10, cfg.Placement.MaxTrials)
	assert.Equal(t, "copied", cfg.Output.Collection)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.ToPlaceConfig().Validate())
}

func TestLoadMergesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
placement:
  copies: 50
  seed: 42
bounds:
  half_extent_x: 12.5
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Placement.Copies)
	assert.Equal(t, int64(42), cfg.Placement.Seed)
	assert.Equal(t, 12.5, cfg.Bounds.HalfExtentX)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.Placement.MaxTrials)
	assert.Equal(t, "copied", cfg.Output.Collection)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("placement: ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Placement.Copies = 7
	cfg.Output.STLPath = "out.stl"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestToPlaceConfig(t *testing.T) {
	cfg := Default()
	cfg.Bounds = BoundsConfig{HalfExtentX: 1, HalfExtentY: 2, ZMin: 3, ZMax: 4}
	pc := cfg.ToPlaceConfig()
	assert.Equal(t, 1.0, pc.Bounds.HalfExtentX)
	assert.Equal(t, 2.0, pc.Bounds.HalfExtentY)
	assert.Equal(t, 3.0, pc.Bounds.ZMin)
	assert.Equal(t, 4.0, pc.Bounds.ZMax)
}
