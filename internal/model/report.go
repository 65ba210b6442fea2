package model

import "time"

// Report is the complete output of one analysis run. Renderers consume it;
// nothing in it feeds back into the model.
type Report struct {
	Subject     string    `json:"subject"`
	GeneratedAt time.Time `json:"generated_at"`
	Model       ModelInfo `json:"model"`

	BaseCase    Posterior           `json:"base_case"`
	Scenarios   []ScenarioResult    `json:"scenarios"`
	Sensitivity []SensitivityResult `json:"sensitivity"`
	Simulation  SimulationSummary   `json:"simulation"`

	// Records is omitted from JSON output; CSV export carries it.
	Records []SimulationRecord `json:"-"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative (separate, never affects numbers)
}

// ModelInfo records the inputs the report was computed from.
type ModelInfo struct {
	Marginals Marginals    `json:"marginals"`
	Priors    Priors       `json:"priors"`
	Table     []TableEntry `json:"table"`
}

// Provenance marks where a table value came from.
type Provenance string

const (
	ProvenanceCurated      Provenance = "curated"      // Literal, domain-assigned value
	ProvenanceInterpolated Provenance = "interpolated" // Derived from the favorability score
)

// TableEntry is one row of the conditional probability table.
type TableEntry struct {
	Assignment   Assignment `json:"assignment" yaml:"assignment"`
	Probability  float64    `json:"probability" yaml:"probability"`
	Provenance   Provenance `json:"provenance" yaml:"provenance"`
	Favorability float64    `json:"favorability" yaml:"favorability"`
}

// Posterior is the success/failure pair for a specific assignment.
type Posterior struct {
	Success    float64    `json:"success"`
	Failure    float64    `json:"failure"`
	Conditions Assignment `json:"conditions"`
}

// SimulationRecord is one Monte Carlo trial.
type SimulationRecord struct {
	LegislativeMajority     bool    `json:"legislative_majority"`
	JudicialChange          bool    `json:"judicial_change"`
	UnionCooperative        bool    `json:"union_cooperative"`
	ConstitutionalChallenge bool    `json:"constitutional_challenge"`
	EconomicCrisis          bool    `json:"economic_crisis"`
	Success                 bool    `json:"success"`
	ProbSuccess             float64 `json:"prob_success"`
}

// Assignment reassembles the sampled factors.
func (r SimulationRecord) Assignment() Assignment {
	return NewAssignment(r.LegislativeMajority, r.JudicialChange, r.UnionCooperative, r.ConstitutionalChallenge, r.EconomicCrisis)
}

// SimulationSummary aggregates a Monte Carlo run.
type SimulationSummary struct {
	Trials          int     `json:"trials"`
	Seed            int64   `json:"seed"`
	Successes       int     `json:"successes"`
	SuccessRate     float64 `json:"success_rate"`     // Mean of sampled outcomes
	FailureRate     float64 `json:"failure_rate"`     // 1 - SuccessRate
	MeanProbability float64 `json:"mean_probability"` // Mean of prob_success
	ProbCILower     float64 `json:"prob_ci_lower"`    // 2.5th percentile of prob_success
	ProbCIUpper     float64 `json:"prob_ci_upper"`    // 97.5th percentile of prob_success
	StdError        float64 `json:"std_error"`        // Binomial standard error of SuccessRate
	RateCILower     float64 `json:"rate_ci_lower"`    // SuccessRate - 1.96*StdError, floored at 0
	RateCIUpper     float64 `json:"rate_ci_upper"`    // SuccessRate + 1.96*StdError, capped at 1
	Cached          bool    `json:"cached,omitempty"` // Served from cache
}

// Scenario is a named, fully specified assignment.
type Scenario struct {
	Name       string     `json:"name" yaml:"name" mapstructure:"name"`
	Assignment Assignment `json:"assignment" yaml:"assignment" mapstructure:"assignment"`
}

// ScenarioResult is the posterior evaluated at a named scenario.
type ScenarioResult struct {
	Name       string     `json:"name"`
	Assignment Assignment `json:"assignment"`
	Success    float64    `json:"success"`
	Failure    float64    `json:"failure"`
}

// SensitivityResult describes the effect of flipping one factor of a baseline.
type SensitivityResult struct {
	Factor          Factor  `json:"-"`
	Variable        string  `json:"variable"`
	BaseValue       bool    `json:"base_value"`
	ModifiedValue   bool    `json:"modified_value"`
	BaseProbability float64 `json:"base_probability"`
	NewProbability  float64 `json:"new_probability"`
	Change          float64 `json:"change"`         // NewProbability - BaseProbability
	PercentChange   float64 `json:"percent_change"` // Change / BaseProbability * 100, 0 when base is 0
}

// Direction is an arrow for the sign of Change; no change is "→".
func (r SensitivityResult) Direction() string {
	switch {
	case r.Change > 0:
		return "↑"
	case r.Change < 0:
		return "↓"
	default:
		return "→"
	}
}

// LLMSummary contains the optional narrative.
// It is generated after every number is final and never alters them.
type LLMSummary struct {
	Enabled       bool     `json:"enabled"`
	Provider      string   `json:"provider,omitempty"`
	Model         string   `json:"model,omitempty"`
	StrictNumbers bool     `json:"strict_numbers"`
	SummaryMD     string   `json:"summary_md,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}
