// Package place implements the placement core: pose sampling within bounds
// and the bounded retry-and-accept loop that grows a pairwise
// non-overlapping set of posed mesh instances.
package place

import "fmt"

// Bounds is the sampling volume: half-extents along X and Y about the
// origin, and an absolute Z range.
type Bounds struct {
	HalfExtentX float64
	HalfExtentY float64
	ZMin        float64
	ZMax        float64
}

// Validate checks the bounds for malformed ranges.
func (b Bounds) Validate() error {
	if b.HalfExtentX < 0 {
		return &ConfigError{Field: "bounds.halfExtentX", Reason: fmt.Sprintf("must be non-negative, got %g", b.HalfExtentX)}
	}
	if b.HalfExtentY < 0 {
		return &ConfigError{Field: "bounds.halfExtentY", Reason: fmt.Sprintf("must be non-negative, got %g", b.HalfExtentY)}
	}
	if b.ZMax < b.ZMin {
		return &ConfigError{Field: "bounds.z", Reason: fmt.Sprintf("zMax %g is below zMin %g", b.ZMax, b.ZMin)}
	}
	return nil
}

// Config holds the parameters of one placement run.
type Config struct {
	Copies    int    // number of instances requested
	Bounds    Bounds // sampling volume
	MaxTrials int    // retry budget per instance before abandonment
	Seed      int64  // RNG seed, fixed per run for reproducibility
}

// Validate checks the run parameters. A zero MaxTrials is legal: every
// index is then abandoned without sampling, which the degenerate-bound
// contract relies on.
func (c Config) Validate() error {
	if c.Copies < 0 {
		return &ConfigError{Field: "copies", Reason: fmt.Sprintf("must be non-negative, got %d", c.Copies)}
	}
	if c.MaxTrials < 0 {
		return &ConfigError{Field: "maxTrials", Reason: fmt.Sprintf("must be non-negative, got %d", c.MaxTrials)}
	}
	return c.Bounds.Validate()
}

// ConfigError is a fatal configuration problem, surfaced before any
// placement attempt begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}
