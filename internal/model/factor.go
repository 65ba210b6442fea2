package model

import (
	"fmt"
	"math"
	"strings"
)

// Factor identifies one of the five binary situational inputs.
// Values follow the canonical order used for table keys.
type Factor int

const (
	LegislativeMajority          Factor = iota // Governing coalition holds a legislative majority
	JudicialCompositionChange                  // Supreme court composition changes significantly
	UnionCooperation                           // Unions cooperate rather than resist
	ConstitutionalChallengeFiled               // A constitutional challenge is filed
	EconomicCrisisDeepens                      // The economic crisis deepens
)

// NumFactors is the number of parent factors in the network.
const NumFactors = 5

// NumAssignments is the size of the factor state space (2^NumFactors).
const NumAssignments = 1 << NumFactors

// Factors returns all factors in canonical order.
func Factors() []Factor {
	return []Factor{
		LegislativeMajority,
		JudicialCompositionChange,
		UnionCooperation,
		ConstitutionalChallengeFiled,
		EconomicCrisisDeepens,
	}
}

// Key returns the snake_case identifier used in JSON, CSV and config files.
func (f Factor) Key() string {
	switch f {
	case LegislativeMajority:
		return "legislative_majority"
	case JudicialCompositionChange:
		return "judicial_change"
	case UnionCooperation:
		return "union_cooperative"
	case ConstitutionalChallengeFiled:
		return "constitutional_challenge"
	case EconomicCrisisDeepens:
		return "economic_crisis"
	default:
		return "unknown"
	}
}

// String returns a human-readable label.
func (f Factor) String() string {
	switch f {
	case LegislativeMajority:
		return "Legislative Majority"
	case JudicialCompositionChange:
		return "Judicial Composition Change"
	case UnionCooperation:
		return "Union Cooperation"
	case ConstitutionalChallengeFiled:
		return "Constitutional Challenge Filed"
	case EconomicCrisisDeepens:
		return "Economic Crisis Deepens"
	default:
		return fmt.Sprintf("Factor(%d)", int(f))
	}
}

// Assignment is one point of the factor state space, fields in canonical order.
type Assignment struct {
	LegislativeMajority     bool `json:"legislative_majority" yaml:"legislative_majority" mapstructure:"legislative_majority"`
	JudicialChange          bool `json:"judicial_change" yaml:"judicial_change" mapstructure:"judicial_change"`
	UnionCooperative        bool `json:"union_cooperative" yaml:"union_cooperative" mapstructure:"union_cooperative"`
	ConstitutionalChallenge bool `json:"constitutional_challenge" yaml:"constitutional_challenge" mapstructure:"constitutional_challenge"`
	EconomicCrisis          bool `json:"economic_crisis" yaml:"economic_crisis" mapstructure:"economic_crisis"`
}

// NewAssignment builds an assignment from five booleans in canonical order.
func NewAssignment(leg, judicial, union, challenge, crisis bool) Assignment {
	return Assignment{
		LegislativeMajority:     leg,
		JudicialChange:          judicial,
		UnionCooperative:        union,
		ConstitutionalChallenge: challenge,
		EconomicCrisis:          crisis,
	}
}

// AssignmentFromSlice converts a canonical-order tuple. The slice must
// have exactly NumFactors elements.
func AssignmentFromSlice(values []bool) (Assignment, error) {
	if len(values) != NumFactors {
		return Assignment{}, fmt.Errorf("assignment needs %d factors, got %d", NumFactors, len(values))
	}
	return NewAssignment(values[0], values[1], values[2], values[3], values[4]), nil
}

// ParseAssignment parses a compact five-letter form such as "TFFTT".
// T/1/Y mean true and F/0/N mean false, case-insensitive.
func ParseAssignment(s string) (Assignment, error) {
	s = strings.TrimSpace(s)
	if len(s) != NumFactors {
		return Assignment{}, fmt.Errorf("assignment %q: need %d characters, got %d", s, NumFactors, len(s))
	}

	values := make([]bool, NumFactors)
	for i, c := range strings.ToUpper(s) {
		switch c {
		case 'T', '1', 'Y':
			values[i] = true
		case 'F', '0', 'N':
			values[i] = false
		default:
			return Assignment{}, fmt.Errorf("assignment %q: invalid character %q at position %d", s, c, i)
		}
	}
	return AssignmentFromSlice(values)
}

// AssignmentFromIndex is the inverse of Index. Bits above NumFactors are ignored.
func AssignmentFromIndex(idx uint8) Assignment {
	var a Assignment
	for _, f := range Factors() {
		a = a.With(f, idx&(1<<uint(f)) != 0)
	}
	return a
}

// AllAssignments enumerates the full state space in index order.
func AllAssignments() []Assignment {
	all := make([]Assignment, NumAssignments)
	for i := range all {
		all[i] = AssignmentFromIndex(uint8(i))
	}
	return all
}

// Index packs the assignment into a 5-bit integer; bit i holds factor i.
func (a Assignment) Index() uint8 {
	var idx uint8
	for _, f := range Factors() {
		if a.Get(f) {
			idx |= 1 << uint(f)
		}
	}
	return idx
}

// Get returns the value of a single factor.
func (a Assignment) Get(f Factor) bool {
	switch f {
	case LegislativeMajority:
		return a.LegislativeMajority
	case JudicialCompositionChange:
		return a.JudicialChange
	case UnionCooperation:
		return a.UnionCooperative
	case ConstitutionalChallengeFiled:
		return a.ConstitutionalChallenge
	case EconomicCrisisDeepens:
		return a.EconomicCrisis
	default:
		return false
	}
}

// With returns a copy of a with factor f set to v.
func (a Assignment) With(f Factor, v bool) Assignment {
	switch f {
	case LegislativeMajority:
		a.LegislativeMajority = v
	case JudicialCompositionChange:
		a.JudicialChange = v
	case UnionCooperation:
		a.UnionCooperative = v
	case ConstitutionalChallengeFiled:
		a.ConstitutionalChallenge = v
	case EconomicCrisisDeepens:
		a.EconomicCrisis = v
	}
	return a
}

// Flip returns a copy of a with factor f negated.
func (a Assignment) Flip(f Factor) Assignment {
	return a.With(f, !a.Get(f))
}

// Values returns the canonical-order tuple.
func (a Assignment) Values() []bool {
	values := make([]bool, NumFactors)
	for _, f := range Factors() {
		values[f] = a.Get(f)
	}
	return values
}

// String renders the compact form accepted by ParseAssignment.
func (a Assignment) String() string {
	var b strings.Builder
	for _, f := range Factors() {
		if a.Get(f) {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	}
	return b.String()
}

// Marginals holds the prior probability that each factor is true.
// Only the Monte Carlo engine consumes these.
type Marginals struct {
	LegislativeMajority     float64 `json:"legislative_majority" yaml:"legislative_majority" mapstructure:"legislative_majority"`
	JudicialChange          float64 `json:"judicial_change" yaml:"judicial_change" mapstructure:"judicial_change"`
	UnionCooperative        float64 `json:"union_cooperative" yaml:"union_cooperative" mapstructure:"union_cooperative"`
	ConstitutionalChallenge float64 `json:"constitutional_challenge" yaml:"constitutional_challenge" mapstructure:"constitutional_challenge"`
	EconomicCrisis          float64 `json:"economic_crisis" yaml:"economic_crisis" mapstructure:"economic_crisis"`
}

// DefaultMarginals returns the post-election estimates the model ships with.
func DefaultMarginals() Marginals {
	return Marginals{
		LegislativeMajority:     0.60,
		JudicialChange:          0.20,
		UnionCooperative:        0.15,
		ConstitutionalChallenge: 0.90,
		EconomicCrisis:          0.65,
	}
}

// Of returns the marginal probability of factor f.
func (m Marginals) Of(f Factor) float64 {
	switch f {
	case LegislativeMajority:
		return m.LegislativeMajority
	case JudicialCompositionChange:
		return m.JudicialChange
	case UnionCooperation:
		return m.UnionCooperative
	case ConstitutionalChallengeFiled:
		return m.ConstitutionalChallenge
	case EconomicCrisisDeepens:
		return m.EconomicCrisis
	default:
		return 0
	}
}

// Validate checks every marginal lies in [0,1].
func (m Marginals) Validate() error {
	for _, f := range Factors() {
		p := m.Of(f)
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: marginal %s = %v outside [0,1]", ErrInvalidConfig, f.Key(), p)
		}
	}
	return nil
}
