package place

import (
	"math"
	"math/rand"

	"github.com/chazu/scatter/pkg/geom"
	"github.com/fogleman/fauxgl"
)

// Sampler draws random candidate poses from a seeded stream. It has no
// side effects beyond advancing its own RNG; the same seed and bounds
// reproduce the same pose sequence.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler seeded for a reproducible stream.
func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Sample draws one pose. Location is uniform over the bounds; each Euler
// axis is drawn uniformly from [-2π, 2π], two full turns of headroom.
// Orientation is periodic so the wide range has no semantic effect, but the
// per-axis-uniform model is the contract: it is deliberately not uniform
// over SO(3).
func (s *Sampler) Sample(b Bounds) geom.Pose {
	loc := fauxgl.V(
		(s.rng.Float64()-0.5)*2*b.HalfExtentX,
		(s.rng.Float64()-0.5)*2*b.HalfExtentY,
		b.ZMin+s.rng.Float64()*(b.ZMax-b.ZMin),
	)
	rot := fauxgl.V(
		(s.rng.Float64()-0.5)*4*math.Pi,
		(s.rng.Float64()-0.5)*4*math.Pi,
		(s.rng.Float64()-0.5)*4*math.Pi,
	)
	return geom.Pose{Location: loc, Rotation: rot}
}
