package network

import (
	"fmt"
	"os"

	"github.com/ppiankov/reformcast/internal/model"
)

// Posterior returns the success/failure pair for a, echoing the conditions.
func (t *Table) Posterior(a model.Assignment) model.Posterior {
	p, ok := t.Probability(a)
	if !ok {
		t.misses.Add(1)
		fmt.Fprintf(os.Stderr, "Warning: no table entry for %s, using fallback %.2f\n", a, FallbackProbability)
	}

	return model.Posterior{
		Success:    p,
		Failure:    1.0 - p,
		Conditions: a,
	}
}

// Evaluate is Posterior with the five factors passed by name, in canonical order.
func (t *Table) Evaluate(leg, judicial, union, challenge, crisis bool) model.Posterior {
	return t.Posterior(model.NewAssignment(leg, judicial, union, challenge, crisis))
}

// SuccessProbability is the hot path used by the simulation engine.
func (t *Table) SuccessProbability(a model.Assignment) float64 {
	return t.Posterior(a).Success
}
