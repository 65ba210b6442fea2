package network

import (
	"errors"
	"math"
	"testing"

	"github.com/ppiankov/reformcast/internal/model"
)

const eps = 1e-12

func mustParse(t *testing.T, s string) model.Assignment {
	t.Helper()
	a, err := model.ParseAssignment(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return a
}

func mustBuild(t *testing.T, curated []model.CuratedEntry) *Table {
	t.Helper()
	table, err := Build(curated)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestBuild_Totality(t *testing.T) {
	table := mustBuild(t, DefaultCurated())

	for _, a := range model.AllAssignments() {
		post := table.Posterior(a)
		if math.Abs(post.Success+post.Failure-1.0) > eps {
			t.Errorf("%s: success+failure = %v", a, post.Success+post.Failure)
		}
		if post.Success < 0 || post.Success > 1 {
			t.Errorf("%s: success %v outside [0,1]", a, post.Success)
		}
		if post.Conditions != a {
			t.Errorf("%s: conditions echo %s", a, post.Conditions)
		}
	}

	if table.Misses() != 0 {
		t.Errorf("expected no lookup misses, got %d", table.Misses())
	}

	curated, interpolated := table.Counts()
	if curated != 26 || interpolated != 6 {
		t.Errorf("expected 26 curated / 6 interpolated, got %d / %d", curated, interpolated)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a := mustBuild(t, DefaultCurated())
	b := mustBuild(t, DefaultCurated())

	for _, asg := range model.AllAssignments() {
		pa, _ := a.Probability(asg)
		pb, _ := b.Probability(asg)
		if pa != pb {
			t.Errorf("%s: builds differ (%v vs %v)", asg, pa, pb)
		}
	}
}

func TestBuild_BuildOrderIndependent(t *testing.T) {
	curated := DefaultCurated()
	reversed := make([]model.CuratedEntry, len(curated))
	for i, e := range curated {
		reversed[len(curated)-1-i] = e
	}

	a := mustBuild(t, curated)
	b := mustBuild(t, reversed)
	for _, asg := range model.AllAssignments() {
		pa, _ := a.Probability(asg)
		pb, _ := b.Probability(asg)
		if pa != pb {
			t.Errorf("%s: order changed probability (%v vs %v)", asg, pa, pb)
		}
	}
}

func TestBuild_CuratedPrecedence(t *testing.T) {
	curated := DefaultCurated()
	table := mustBuild(t, curated)

	for _, e := range curated {
		a, err := model.AssignmentFromSlice(e.Factors)
		if err != nil {
			t.Fatal(err)
		}
		p, ok := table.Probability(a)
		if !ok {
			t.Fatalf("%s: slot not filled", a)
		}
		if p != e.Probability {
			t.Errorf("%s: expected curated %v, got %v", a, e.Probability, p)
		}
		if table.Provenance(a) != model.ProvenanceCurated {
			t.Errorf("%s: expected curated provenance", a)
		}
	}
}

func TestBuild_InterpolationBound(t *testing.T) {
	// An empty curated set forces every entry through interpolation.
	for _, curated := range [][]model.CuratedEntry{DefaultCurated(), nil} {
		table := mustBuild(t, curated)
		for _, entry := range table.Entries() {
			if entry.Provenance != model.ProvenanceInterpolated {
				continue
			}
			if entry.Probability < 0.01 || entry.Probability > 0.45 {
				t.Errorf("%s: interpolated %v outside [0.01,0.45]", entry.Assignment, entry.Probability)
			}
		}
	}
}

func TestBuild_LiteralExamples(t *testing.T) {
	table := mustBuild(t, DefaultCurated())

	tests := []struct {
		assignment string
		want       float64
	}{
		{"TFFTT", 0.11},
		{"FFFFF", 0.03},
		{"FFFTF", 0.01},
		{"TTTFT", 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.assignment, func(t *testing.T) {
			p, _ := table.Probability(mustParse(t, tt.assignment))
			if p != tt.want {
				t.Errorf("expected %v, got %v", tt.want, p)
			}
		})
	}

	minP := math.Inf(1)
	var minA model.Assignment
	for _, e := range table.Entries() {
		if e.Probability < minP {
			minP, minA = e.Probability, e.Assignment
		}
	}
	if minA.String() != "FFFTF" {
		t.Errorf("expected table minimum at FFFTF, got %s (%v)", minA, minP)
	}
}

func TestInterpolatedEntries(t *testing.T) {
	table := mustBuild(t, DefaultCurated())

	tests := []struct {
		assignment string
		score      float64
		want       float64
	}{
		{"TTTTF", 3.0, 0.155},
		{"FTTTT", 2.5, 0.1375},
		{"FTTTF", 2.0, 0.12},
		{"FTFFF", 2.0, 0.12},
		{"FFTTF", 1.0, 0.085},
		{"FFTFF", 2.0, 0.12},
	}

	for _, tt := range tests {
		t.Run(tt.assignment, func(t *testing.T) {
			a := mustParse(t, tt.assignment)
			if table.Provenance(a) != model.ProvenanceInterpolated {
				t.Fatalf("expected interpolated provenance")
			}
			if got := FavorabilityScore(a); got != tt.score {
				t.Errorf("expected score %v, got %v", tt.score, got)
			}
			p, _ := table.Probability(a)
			if math.Abs(p-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, p)
			}
		})
	}
}

func TestInterpolate_Extremes(t *testing.T) {
	worst := mustParse(t, "FFFTF")
	if got := Interpolate(worst); math.Abs(got-0.05) > eps {
		t.Errorf("score 0: expected 0.05, got %v", got)
	}
	best := mustParse(t, "TTTFT")
	if got := FavorabilityScore(best); got != 4.5 {
		t.Errorf("expected max score 4.5, got %v", got)
	}
	if got := Interpolate(best); math.Abs(got-0.2075) > 1e-9 {
		t.Errorf("score 4.5: expected 0.2075, got %v", got)
	}
}

func TestBuild_MalformedEntries(t *testing.T) {
	tests := []struct {
		name    string
		curated []model.CuratedEntry
	}{
		{
			name:    "short tuple",
			curated: []model.CuratedEntry{{Factors: []bool{true, false}, Probability: 0.2}},
		},
		{
			name:    "long tuple",
			curated: []model.CuratedEntry{{Factors: []bool{true, false, true, false, true, true}, Probability: 0.2}},
		},
		{
			name:    "probability above one",
			curated: []model.CuratedEntry{{Factors: []bool{true, false, true, false, true}, Probability: 1.5}},
		},
		{
			name:    "nan probability",
			curated: []model.CuratedEntry{{Factors: []bool{true, false, true, false, true}, Probability: math.NaN()}},
		},
		{
			name: "duplicate",
			curated: []model.CuratedEntry{
				{Factors: []bool{true, false, true, false, true}, Probability: 0.2},
				{Factors: []bool{true, false, true, false, true}, Probability: 0.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.curated)
			if !errors.Is(err, ErrMalformedEntry) {
				t.Errorf("expected ErrMalformedEntry, got %v", err)
			}
		})
	}
}

func TestBuild_CuratedOutsideInterpolationRange(t *testing.T) {
	curated := []model.CuratedEntry{{Factors: []bool{true, true, true, false, true}, Probability: 0.9}}
	table := mustBuild(t, curated)

	p, _ := table.Probability(mustParse(t, "TTTFT"))
	if p != 0.9 {
		t.Errorf("expected curated 0.9 kept verbatim, got %v", p)
	}
}

func TestPosterior_FallbackOnUnfilledTable(t *testing.T) {
	var table Table
	post := table.Posterior(model.Assignment{})
	if post.Success != FallbackProbability {
		t.Errorf("expected fallback %v, got %v", FallbackProbability, post.Success)
	}
	if table.Misses() != 1 {
		t.Errorf("expected 1 miss, got %d", table.Misses())
	}
}

func TestEvaluate_NamedArguments(t *testing.T) {
	table := mustBuild(t, DefaultCurated())
	post := table.Evaluate(true, false, false, true, true)
	if post.Success != 0.11 {
		t.Errorf("expected 0.11, got %v", post.Success)
	}
	if math.Abs(post.Failure-0.89) > eps {
		t.Errorf("expected failure 0.89, got %v", post.Failure)
	}
}
