package simulate

import (
	"math"
	"testing"

	"github.com/ppiankov/reformcast/internal/model"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	tests := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{100, 5},
		{50, 3},
		{25, 2},
		{10, 1.4},
		{97.5, 4.9},
	}

	for _, tt := range tests {
		if got := Percentile(sorted, tt.q); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Percentile(%v) = %v, expected %v", tt.q, got, tt.want)
		}
	}

	if !math.IsNaN(Percentile(nil, 50)) {
		t.Error("expected NaN for empty input")
	}
}

func TestSummarize(t *testing.T) {
	records := []model.SimulationRecord{
		{Success: true, ProbSuccess: 0.4},
		{Success: false, ProbSuccess: 0.1},
		{Success: false, ProbSuccess: 0.2},
		{Success: true, ProbSuccess: 0.3},
	}

	s := Summarize(records, 42)

	if s.Trials != 4 || s.Successes != 2 || s.Seed != 42 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.SuccessRate != 0.5 || s.FailureRate != 0.5 {
		t.Errorf("expected rate 0.5, got %v / %v", s.SuccessRate, s.FailureRate)
	}
	if math.Abs(s.MeanProbability-0.25) > 1e-12 {
		t.Errorf("expected mean 0.25, got %v", s.MeanProbability)
	}
	if s.ProbCILower < 0.1 || s.ProbCIUpper > 0.4 || s.ProbCILower > s.ProbCIUpper {
		t.Errorf("unexpected interval [%v, %v]", s.ProbCILower, s.ProbCIUpper)
	}
	if math.Abs(s.StdError-0.25) > 1e-12 {
		t.Errorf("expected std error 0.25, got %v", s.StdError)
	}
	if math.Abs(s.RateCILower-0.01) > 1e-12 {
		t.Errorf("expected rate lower 0.01, got %v", s.RateCILower)
	}
	if math.Abs(s.RateCIUpper-0.99) > 1e-12 {
		t.Errorf("expected rate upper 0.99, got %v", s.RateCIUpper)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 7)
	if s.Trials != 0 || s.Seed != 7 || s.SuccessRate != 0 {
		t.Errorf("unexpected empty summary: %+v", s)
	}
}

func TestSummarize_RateBandClamped(t *testing.T) {
	records := []model.SimulationRecord{{Success: true, ProbSuccess: 1}}
	s := Summarize(records, 1)
	if s.RateCIUpper != 1 || s.RateCILower != 1 {
		t.Errorf("expected degenerate band [1,1], got [%v, %v]", s.RateCILower, s.RateCIUpper)
	}
}
