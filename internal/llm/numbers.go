package llm

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/reformcast/internal/model"
)

var percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)

// AllowedNumbers lists every percentage the report states, formatted to one
// decimal (e.g. "11.0"). Signs are dropped.
func AllowedNumbers(report model.Report) []string {
	var values []float64

	add := func(ps ...float64) {
		for _, p := range ps {
			values = append(values, p*100)
		}
	}

	m := report.Model.Marginals
	add(m.LegislativeMajority, m.JudicialChange, m.UnionCooperative, m.ConstitutionalChallenge, m.EconomicCrisis)
	add(report.Model.Priors.HistoricalBaseRate, report.Model.Priors.BayesianPrior)
	add(report.BaseCase.Success, report.BaseCase.Failure)

	for _, s := range report.Scenarios {
		add(s.Success, s.Failure)
	}
	for _, s := range report.Sensitivity {
		add(s.BaseProbability, s.NewProbability, s.Change)
		values = append(values, s.PercentChange)
	}

	sim := report.Simulation
	add(sim.SuccessRate, sim.FailureRate, sim.MeanProbability,
		sim.ProbCILower, sim.ProbCIUpper, sim.StdError, sim.RateCILower, sim.RateCIUpper)

	// Confidence level quoted alongside intervals.
	values = append(values, 95)

	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		s := fmt.Sprintf("%.1f", math.Abs(v))
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// extractPercentages returns every percentage figure in text, deduplicated
// in order of appearance.
func extractPercentages(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// numberAllowed reports whether cited matches an allowed figure at one
// decimal or, for whole-number citations, after rounding.
func numberAllowed(cited string, allowed []string) bool {
	v, err := strconv.ParseFloat(cited, 64)
	if err != nil {
		return false
	}

	oneDecimal := fmt.Sprintf("%.1f", v)
	whole := !strings.Contains(cited, ".")

	for _, a := range allowed {
		if a == oneDecimal {
			return true
		}
		if whole {
			if av, err := strconv.ParseFloat(a, 64); err == nil && math.Abs(av-v) <= 0.5 {
				return true
			}
		}
	}
	return false
}

// checkNumbers returns an error naming the first figure not in allowed.
func checkNumbers(cited, allowed []string) error {
	for _, c := range cited {
		if !numberAllowed(c, allowed) {
			return fmt.Errorf("NUMBER LEAK: LLM quoted %s%%, which is not in the report", c)
		}
	}
	return nil
}
