package place

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"
)

// Result is the outcome of one placement run: the ordered accepted set,
// the indices that ran out of retries, and the trial count each accepted
// instance consumed. A run always completes; a partial result is the
// caller's to judge.
type Result struct {
	RunID     uuid.UUID
	Instances []*Instance
	Abandoned []int
	Trials    []int // trials consumed per accepted instance, same order
}

// Summary condenses a run for reporting.
type Summary struct {
	Requested    int
	Placed       int
	Abandoned    int
	MeanTrials   float64
	StddevTrials float64
}

// Summary computes placement counts and trial statistics. Stddev is zero
// when fewer than two instances were placed.
func (r *Result) Summary() Summary {
	s := Summary{
		Requested: len(r.Instances) + len(r.Abandoned),
		Placed:    len(r.Instances),
		Abandoned: len(r.Abandoned),
	}
	if len(r.Trials) == 0 {
		return s
	}
	trials := make([]float64, len(r.Trials))
	for i, t := range r.Trials {
		trials[i] = float64(t)
	}
	s.MeanTrials = stat.Mean(trials, nil)
	if len(trials) > 1 {
		s.StddevTrials = stat.StdDev(trials, nil)
	}
	return s
}
