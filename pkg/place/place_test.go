package place

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/fogleman/fauxgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cubeDescriptor returns a cube of half-size h centered at the origin,
// described with quad faces like a host mesh would supply.
func cubeDescriptor(h float64) *geom.Descriptor {
	return &geom.Descriptor{
		Vertices: []fauxgl.Vector{
			fauxgl.V(-h, -h, -h), fauxgl.V(h, -h, -h), fauxgl.V(h, h, -h), fauxgl.V(-h, h, -h),
			fauxgl.V(-h, -h, h), fauxgl.V(h, -h, h), fauxgl.V(h, h, h), fauxgl.V(-h, h, h),
		},
		Faces: [][]int{
			{0, 3, 2, 1}, {4, 5, 6, 7},
			{0, 1, 5, 4}, {2, 3, 7, 6},
			{1, 2, 6, 5}, {0, 4, 7, 3},
		},
		BaseTransform: fauxgl.Identity(),
	}
}

func assertNonOverlapping(t *testing.T, res *Result) {
	t.Helper()
	for i, a := range res.Instances {
		for _, b := range res.Instances[i+1:] {
			assert.False(t, a.Tree.Overlaps(b.Tree),
				"instances %d and %d overlap", a.Index, b.Index)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Copies:    2,
		MaxTrials: 5,
		Bounds:    Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 0, ZMax: 10},
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"negative copies", func(c *Config) { c.Copies = -1 }, "copies"},
		{"negative trials", func(c *Config) { c.MaxTrials = -1 }, "maxTrials"},
		{"inverted z range", func(c *Config) { c.Bounds.ZMin = 10; c.Bounds.ZMax = 2 }, "bounds.z"},
		{"negative half extent", func(c *Config) { c.Bounds.HalfExtentX = -1 }, "bounds.halfExtentX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantField, ce.Field)
		})
	}
}

// Scenario D: malformed bounds fail before any sampling occurs.
func TestPlaceAllInvertedZRange(t *testing.T) {
	cfg := Config{
		Copies:    1,
		MaxTrials: 5,
		Bounds:    Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 10, ZMax: 2},
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(0.5), cfg)
	assert.Nil(t, res)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestPlaceAllRejectsBadGeometry(t *testing.T) {
	cfg := Config{Copies: 1, MaxTrials: 1, Bounds: Bounds{HalfExtentX: 1, HalfExtentY: 1, ZMax: 1}}

	res, err := NewEngine().PlaceAll(nil, cfg)
	assert.Nil(t, res)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "geometry", ce.Field)

	res, err = NewEngine().PlaceAll(&geom.Descriptor{}, cfg)
	assert.Nil(t, res)
	require.True(t, errors.As(err, &ce))
}

// Scenario A: the first candidate is trivially non-overlapping against an
// empty set, so a single copy always places on trial one.
func TestPlaceAllSingleCopy(t *testing.T) {
	cfg := Config{
		Copies:    1,
		MaxTrials: 1,
		Bounds:    Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 0, ZMax: 10},
		Seed:      1,
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(0.5), cfg)
	require.NoError(t, err)
	require.Len(t, res.Instances, 1)
	assert.Empty(t, res.Abandoned)
	assert.Equal(t, []int{1}, res.Trials)
	assert.Equal(t, "copied_000", res.Instances[0].Name)
}

// Scenario B: bounds far smaller than the mesh, so any two placements must
// collide; the second index exhausts its budget and is abandoned.
func TestPlaceAllImpossibleSecondCopy(t *testing.T) {
	cfg := Config{
		Copies:    2,
		MaxTrials: 5,
		Bounds:    Bounds{HalfExtentX: 0.05, HalfExtentY: 0.05, ZMin: 0, ZMax: 0.05},
		Seed:      7,
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(2), cfg)
	require.NoError(t, err)
	assert.Len(t, res.Instances, 1)
	assert.Equal(t, []int{1}, res.Abandoned)
}

// Scenario C: bounds much larger than the mesh; whatever the final count,
// the accepted set must be pairwise non-overlapping and within budget.
func TestPlaceAllLargeBounds(t *testing.T) {
	cfg := Config{
		Copies:    20,
		MaxTrials: 10,
		Bounds:    Bounds{HalfExtentX: 50, HalfExtentY: 50, ZMin: 0, ZMax: 100},
		Seed:      42,
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(0.5), cfg)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Instances), cfg.Copies)
	assert.Equal(t, cfg.Copies, len(res.Instances)+len(res.Abandoned))
	for _, trials := range res.Trials {
		assert.LessOrEqual(t, trials, cfg.MaxTrials)
		assert.GreaterOrEqual(t, trials, 1)
	}
	assertNonOverlapping(t, res)
}

// Degenerate bound: zero retries means nothing is ever sampled.
func TestPlaceAllZeroMaxTrials(t *testing.T) {
	cfg := Config{
		Copies:    3,
		MaxTrials: 0,
		Bounds:    Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 0, ZMax: 10},
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(0.5), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Instances)
	assert.Equal(t, []int{0, 1, 2}, res.Abandoned)
}

func TestPlaceAllZeroCopies(t *testing.T) {
	cfg := Config{
		Copies:    0,
		MaxTrials: 5,
		Bounds:    Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 0, ZMax: 10},
	}
	res, err := NewEngine().PlaceAll(cubeDescriptor(0.5), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Instances)
	assert.Empty(t, res.Abandoned)
}

func TestPlaceAllDeterministic(t *testing.T) {
	cfg := Config{
		Copies:    8,
		MaxTrials: 10,
		Bounds:    Bounds{HalfExtentX: 10, HalfExtentY: 10, ZMin: 1, ZMax: 20},
		Seed:      99,
	}
	desc := cubeDescriptor(0.5)

	a, err := NewEngine().PlaceAll(desc, cfg)
	require.NoError(t, err)
	b, err := NewEngine().PlaceAll(desc, cfg)
	require.NoError(t, err)

	require.Equal(t, len(a.Instances), len(b.Instances))
	for i := range a.Instances {
		assert.Equal(t, a.Instances[i].Pose, b.Instances[i].Pose)
		assert.Equal(t, a.Instances[i].Name, b.Instances[i].Name)
	}
	assert.Equal(t, a.Abandoned, b.Abandoned)
	assert.Equal(t, a.Trials, b.Trials)
}

func TestOnPlacedCallback(t *testing.T) {
	cfg := Config{
		Copies:    4,
		MaxTrials: 10,
		Bounds:    Bounds{HalfExtentX: 20, HalfExtentY: 20, ZMin: 0, ZMax: 40},
		Seed:      3,
	}
	e := NewEngine()
	var seen []int
	e.OnPlaced(func(inst *Instance) { seen = append(seen, inst.Index) })

	res, err := e.PlaceAll(cubeDescriptor(0.5), cfg)
	require.NoError(t, err)
	require.Len(t, seen, len(res.Instances))
	// Callbacks fire in acceptance order.
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1])
	}
}

func TestResultSummary(t *testing.T) {
	res := &Result{
		Instances: []*Instance{{Index: 0}, {Index: 1}},
		Abandoned: []int{2},
		Trials:    []int{1, 3},
	}
	s := res.Summary()
	assert.Equal(t, 3, s.Requested)
	assert.Equal(t, 2, s.Placed)
	assert.Equal(t, 1, s.Abandoned)
	assert.InDelta(t, 2.0, s.MeanTrials, 1e-9)
	assert.Greater(t, s.StddevTrials, 0.0)

	empty := (&Result{}).Summary()
	assert.Zero(t, empty.MeanTrials)
	assert.Zero(t, empty.StddevTrials)
}

func TestSamplerRanges(t *testing.T) {
	b := Bounds{HalfExtentX: 5, HalfExtentY: 3, ZMin: 2, ZMax: 10}
	s := NewSampler(12345)
	for i := 0; i < 1000; i++ {
		p := s.Sample(b)
		assert.GreaterOrEqual(t, p.Location.X, -b.HalfExtentX)
		assert.LessOrEqual(t, p.Location.X, b.HalfExtentX)
		assert.GreaterOrEqual(t, p.Location.Y, -b.HalfExtentY)
		assert.LessOrEqual(t, p.Location.Y, b.HalfExtentY)
		assert.GreaterOrEqual(t, p.Location.Z, b.ZMin)
		assert.LessOrEqual(t, p.Location.Z, b.ZMax)
		for _, r := range []float64{p.Rotation.X, p.Rotation.Y, p.Rotation.Z} {
			assert.LessOrEqual(t, math.Abs(r), 2*math.Pi)
		}
	}
}

func TestSamplerDeterministic(t *testing.T) {
	b := Bounds{HalfExtentX: 5, HalfExtentY: 5, ZMin: 0, ZMax: 10}
	a := NewSampler(7)
	c := NewSampler(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Sample(b), c.Sample(b))
	}
}
