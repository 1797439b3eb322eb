// Package config handles run configuration loading and management.
package config

import (
	"github.com/chazu/scatter/pkg/place"
)

// Config holds all settings for a scatter run.
type Config struct {
	Placement PlacementConfig `yaml:"placement"`
	Bounds    BoundsConfig    `yaml:"bounds"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// PlacementConfig holds the placement loop parameters.
type PlacementConfig struct {
	Copies    int   `yaml:"copies"`
	MaxTrials int   `yaml:"max_trials"`
	Seed      int64 `yaml:"seed"`
}

// BoundsConfig holds the sampling volume.
type BoundsConfig struct {
	HalfExtentX float64 `yaml:"half_extent_x"`
	HalfExtentY float64 `yaml:"half_extent_y"`
	ZMin        float64 `yaml:"z_min"`
	ZMax        float64 `yaml:"z_max"`
}

// OutputConfig holds result export settings.
type OutputConfig struct {
	Collection string `yaml:"collection"`
	STLPath    string `yaml:"stl_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Placement: PlacementConfig{
			Copies:    20,
			MaxTrials: 10,
			Seed:      0,
		},
		Bounds: BoundsConfig{
			HalfExtentX: 5,
			HalfExtentY: 5,
			ZMin:        0,
			ZMax:        10,
		},
		Output: OutputConfig{
			Collection: "copied",
			STLPath:    "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ToPlaceConfig converts the file representation into run parameters.
func (c *Config) ToPlaceConfig() place.Config {
	return place.Config{
		Copies:    c.Placement.Copies,
		MaxTrials: c.Placement.MaxTrials,
		Seed:      c.Placement.Seed,
		Bounds: place.Bounds{
			HalfExtentX: c.Bounds.HalfExtentX,
			HalfExtentY: c.Bounds.HalfExtentY,
			ZMin:        c.Bounds.ZMin,
			ZMax:        c.Bounds.ZMax,
		},
	}
}
