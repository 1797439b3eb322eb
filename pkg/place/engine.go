package place

import (
	"fmt"

	"github.com/chazu/scatter/pkg/bvh"
	"github.com/chazu/scatter/pkg/geom"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Instance is one accepted placement: its index in the run, a stable name,
// the accepted pose, and the overlap structure built for it. Immutable once
// accepted.
type Instance struct {
	Index int
	Name  string
	Pose  geom.Pose
	Tree  *bvh.Tree
}

// Engine runs placement. It owns the growing accepted set for the duration
// of one PlaceAll call; the loop is strictly sequential because each index's
// acceptance test depends on every previously accepted instance.
type Engine struct {
	log      *zap.Logger
	onPlaced func(*Instance)
}

// NewEngine returns an engine that logs nowhere and notifies nobody.
func NewEngine() *Engine {
	return &Engine{log: zap.NewNop()}
}

// SetLogger routes run progress and abandonment reports to l.
func (e *Engine) SetLogger(l *zap.Logger) {
	if l != nil {
		e.log = l
	}
}

// OnPlaced registers a callback invoked once per accepted instance, after
// acceptance. This is the hook for scene linkage or physics attachment;
// the callback must not mutate the instance.
func (e *Engine) OnPlaced(fn func(*Instance)) {
	e.onPlaced = fn
}

// PlaceAll places up to cfg.Copies instances of the descriptor. Per index it
// samples candidate poses, builds an overlap structure from pure geometry,
// and tests the candidate against every previously accepted instance; after
// cfg.MaxTrials failed candidates the index is abandoned and the run moves
// on. Abandonment is reported in the result, never as an error. The returned
// set is pairwise non-overlapping by construction.
func (e *Engine) PlaceAll(desc *geom.Descriptor, cfg Config) (*Result, error) {
	if desc == nil {
		return nil, &ConfigError{Field: "geometry", Reason: "no descriptor supplied"}
	}
	if err := desc.Validate(); err != nil {
		return nil, &ConfigError{Field: "geometry", Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sampler := NewSampler(cfg.Seed)
	result := &Result{RunID: uuid.New()}

	e.log.Debug("placement run starting",
		zap.String("run_id", result.RunID.String()),
		zap.Int("copies", cfg.Copies),
		zap.Int("max_trials", cfg.MaxTrials))

	for i := 0; i < cfg.Copies; i++ {
		inst, trials := e.placeOne(desc, cfg, sampler, result.Instances, i)
		if inst == nil {
			result.Abandoned = append(result.Abandoned, i)
			e.log.Info("could not place instance",
				zap.Int("index", i),
				zap.Int("attempts", cfg.MaxTrials))
			continue
		}
		result.Instances = append(result.Instances, inst)
		result.Trials = append(result.Trials, trials)
		if e.onPlaced != nil {
			e.onPlaced(inst)
		}
	}

	e.log.Info("placement run finished",
		zap.String("run_id", result.RunID.String()),
		zap.Int("placed", len(result.Instances)),
		zap.Int("abandoned", len(result.Abandoned)))

	return result, nil
}

// placeOne runs the retry loop for a single index. It returns the accepted
// instance and the number of trials consumed, or nil if the retry budget ran
// out.
func (e *Engine) placeOne(desc *geom.Descriptor, cfg Config, sampler *Sampler, accepted []*Instance, index int) (*Instance, int) {
	for trial := 1; trial <= cfg.MaxTrials; trial++ {
		pose := sampler.Sample(cfg.Bounds)
		tree := bvh.NewTree(desc.Posed(pose).Triangles())

		if overlapsAny(tree, accepted) {
			continue // discard candidate, retry
		}

		return &Instance{
			Index: index,
			Name:  fmt.Sprintf("copied_%03d", index),
			Pose:  pose,
			Tree:  tree,
		}, trial
	}
	return nil, cfg.MaxTrials
}

func overlapsAny(tree *bvh.Tree, accepted []*Instance) bool {
	for _, inst := range accepted {
		if tree.Overlaps(inst.Tree) {
			return true
		}
	}
	return false
}
