package simulate

import (
	"math"
	"sort"

	"github.com/ppiankov/reformcast/internal/model"
)

// z95 is the two-sided 95% normal quantile.
const z95 = 1.96

// Summarize aggregates a run. The probability interval is the 2.5/97.5
// percentile range of prob_success; the rate band is a normal
// approximation to the binomial around the observed success rate.
func Summarize(records []model.SimulationRecord, seed int64) model.SimulationSummary {
	summary := model.SimulationSummary{
		Trials: len(records),
		Seed:   seed,
	}
	if len(records) == 0 {
		return summary
	}

	probs := make([]float64, len(records))
	sumProb := 0.0
	for i, r := range records {
		if r.Success {
			summary.Successes++
		}
		probs[i] = r.ProbSuccess
		sumProb += r.ProbSuccess
	}

	n := float64(len(records))
	summary.SuccessRate = float64(summary.Successes) / n
	summary.FailureRate = 1 - summary.SuccessRate
	summary.MeanProbability = sumProb / n

	sort.Float64s(probs)
	summary.ProbCILower = Percentile(probs, 2.5)
	summary.ProbCIUpper = Percentile(probs, 97.5)

	summary.StdError = BinomialStdError(summary.SuccessRate, len(records))
	summary.RateCILower = math.Max(0, summary.SuccessRate-z95*summary.StdError)
	summary.RateCIUpper = math.Min(1, summary.SuccessRate+z95*summary.StdError)

	return summary
}

// Percentile returns the q-th percentile (0..100) of sorted values using
// linear interpolation between closest ranks. sorted must be ascending.
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// BinomialStdError is sqrt(p(1-p)/n), or 0 for n <= 0.
func BinomialStdError(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}
