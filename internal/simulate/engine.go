package simulate

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/ppiankov/reformcast/internal/model"
)

// ErrInvalidTrialCount is returned for a negative trial count.
var ErrInvalidTrialCount = errors.New("invalid trial count")

// Evaluator looks up P(success | assignment).
type Evaluator interface {
	SuccessProbability(a model.Assignment) float64
}

// Engine draws Monte Carlo trials from one random source.
//
// # Determinism
//
// Given two engines over the same evaluator and marginals whose sources
// were seeded identically, Simulate(n) returns identical records.
//
// # Draw order
//
// Each trial consumes exactly six uniforms from the source: one per factor
// in canonical order, then one for the outcome.
//
// An Engine is not safe for concurrent use because *rand.Rand is not.
type Engine struct {
	eval      Evaluator
	marginals model.Marginals
	rng       *rand.Rand
}

// NewEngine creates an engine that owns rng.
func NewEngine(eval Evaluator, marginals model.Marginals, rng *rand.Rand) *Engine {
	return &Engine{
		eval:      eval,
		marginals: marginals,
		rng:       rng,
	}
}

// NewSeededEngine is NewEngine with a source seeded from seed.
func NewSeededEngine(eval Evaluator, marginals model.Marginals, seed int64) *Engine {
	return NewEngine(eval, marginals, rand.New(rand.NewSource(seed)))
}

// Trial runs one independent trial.
func (e *Engine) Trial() model.SimulationRecord {
	var a model.Assignment
	for _, f := range model.Factors() {
		a = a.With(f, e.rng.Float64() < e.marginals.Of(f))
	}

	p := e.eval.SuccessProbability(a)
	success := e.rng.Float64() < p

	return model.SimulationRecord{
		LegislativeMajority:     a.LegislativeMajority,
		JudicialChange:          a.JudicialChange,
		UnionCooperative:        a.UnionCooperative,
		ConstitutionalChallenge: a.ConstitutionalChallenge,
		EconomicCrisis:          a.EconomicCrisis,
		Success:                 success,
		ProbSuccess:             p,
	}
}

// Simulate runs n trials. n == 0 yields an empty slice; n < 0 is rejected.
func (e *Engine) Simulate(n int) ([]model.SimulationRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidTrialCount, n)
	}

	records := make([]model.SimulationRecord, n)
	for i := range records {
		records[i] = e.Trial()
	}
	return records, nil
}

// ResolveSeed returns seed, or a time-based seed when seed is 0. The chosen
// seed is printed when verbose so the run can be reproduced.
func ResolveSeed(seed int64, verbose bool) int64 {
	if seed != 0 {
		return seed
	}
	seed = time.Now().UnixNano()
	if verbose {
		fmt.Fprintf(os.Stderr, "Using seed: %d\n", seed)
	}
	return seed
}
