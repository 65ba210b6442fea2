package analysis

import (
	"github.com/ppiankov/reformcast/internal/model"
)

// PosteriorEvaluator returns the posterior for an assignment.
type PosteriorEvaluator interface {
	Posterior(a model.Assignment) model.Posterior
}

// BaseCase is the most likely configuration: majority held, no judicial
// change, adversarial unions, challenge filed, crisis deepening.
func BaseCase() model.Assignment {
	return model.NewAssignment(true, false, false, true, true)
}

// DefaultScenarios returns the named scenarios reported by default, in
// presentation order.
func DefaultScenarios() []model.Scenario {
	return []model.Scenario{
		{Name: "Base Case (Most Likely)", Assignment: BaseCase()},
		{Name: "Optimistic (Best Realistic)", Assignment: model.NewAssignment(true, true, false, true, true)},
		{Name: "Very Optimistic (Unlikely)", Assignment: model.NewAssignment(true, true, true, false, true)},
		{Name: "Pessimistic", Assignment: model.NewAssignment(false, false, false, true, true)},
		{Name: "Worst Case", Assignment: model.NewAssignment(false, false, false, true, false)},
	}
}

// Scenarios evaluates each scenario, preserving input order.
func Scenarios(eval PosteriorEvaluator, scenarios []model.Scenario) []model.ScenarioResult {
	results := make([]model.ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		post := eval.Posterior(s.Assignment)
		results = append(results, model.ScenarioResult{
			Name:       s.Name,
			Assignment: s.Assignment,
			Success:    post.Success,
			Failure:    post.Failure,
		})
	}
	return results
}
