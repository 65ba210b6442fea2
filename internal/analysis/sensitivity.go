package analysis

import (
	"math"
	"sort"

	"github.com/ppiankov/reformcast/internal/model"
)

// Sensitivity flips each factor of baseline in turn and measures the change
// in success probability. Results are ranked by descending |change|; ties
// keep canonical factor order.
//
// Percent change is change/base*100, and 0 when the base probability is 0.
func Sensitivity(eval PosteriorEvaluator, baseline model.Assignment) []model.SensitivityResult {
	base := eval.Posterior(baseline).Success

	results := make([]model.SensitivityResult, 0, model.NumFactors)
	for _, f := range model.Factors() {
		modified := baseline.Flip(f)
		p := eval.Posterior(modified).Success
		change := p - base

		pct := 0.0
		if base != 0 {
			pct = change / base * 100
		}

		results = append(results, model.SensitivityResult{
			Factor:          f,
			Variable:        f.String(),
			BaseValue:       baseline.Get(f),
			ModifiedValue:   modified.Get(f),
			BaseProbability: base,
			NewProbability:  p,
			Change:          change,
			PercentChange:   pct,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Change) > math.Abs(results[j].Change)
	})
	return results
}

// MostInfluential returns the top-ranked factor, or false for an empty result.
func MostInfluential(results []model.SensitivityResult) (model.SensitivityResult, bool) {
	if len(results) == 0 {
		return model.SensitivityResult{}, false
	}
	return results[0], true
}
