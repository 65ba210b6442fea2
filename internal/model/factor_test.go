package model

import (
	"errors"
	"testing"
)

func TestAssignment_IndexRoundTrip(t *testing.T) {
	seen := make(map[Assignment]bool)
	for i := 0; i < NumAssignments; i++ {
		a := AssignmentFromIndex(uint8(i))
		if got := a.Index(); got != uint8(i) {
			t.Errorf("index %d: round trip gave %d", i, got)
		}
		seen[a] = true
	}
	if len(seen) != NumAssignments {
		t.Errorf("expected %d distinct assignments, got %d", NumAssignments, len(seen))
	}
}

func TestAllAssignments_Distinct(t *testing.T) {
	all := AllAssignments()
	if len(all) != 32 {
		t.Fatalf("expected 32 assignments, got %d", len(all))
	}
	for i, a := range all {
		if int(a.Index()) != i {
			t.Errorf("assignment %d has index %d", i, a.Index())
		}
	}
}

func TestAssignment_FlipTwice(t *testing.T) {
	base := NewAssignment(true, false, false, true, true)
	for _, f := range Factors() {
		once := base.Flip(f)
		if once.Get(f) == base.Get(f) {
			t.Errorf("%s: flip did not change the factor", f)
		}
		for _, other := range Factors() {
			if other != f && once.Get(other) != base.Get(other) {
				t.Errorf("%s: flip changed %s", f, other)
			}
		}
		if once.Flip(f) != base {
			t.Errorf("%s: double flip did not restore baseline", f)
		}
	}
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		in      string
		want    Assignment
		wantErr bool
	}{
		{in: "TFFTT", want: NewAssignment(true, false, false, true, true)},
		{in: "fffff", want: Assignment{}},
		{in: "10101", want: NewAssignment(true, false, true, false, true)},
		{in: " YNNYN ", want: NewAssignment(true, false, false, true, false)},
		{in: "TFT", wantErr: true},
		{in: "TFTXT", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAssignment(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if got.String() != tt.want.String() {
				t.Errorf("String() = %s", got.String())
			}
		})
	}
}

func TestAssignmentFromSlice_Arity(t *testing.T) {
	if _, err := AssignmentFromSlice([]bool{true, false}); err == nil {
		t.Error("expected arity error for 2 values")
	}
	a, err := AssignmentFromSlice([]bool{true, false, false, true, true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != "TFFTT" {
		t.Errorf("expected TFFTT, got %s", a)
	}
}

func TestMarginals_Validate(t *testing.T) {
	if err := DefaultMarginals().Validate(); err != nil {
		t.Errorf("default marginals invalid: %v", err)
	}

	m := DefaultMarginals()
	m.UnionCooperative = 1.2
	if err := m.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(c *Config) {}, ok: true},
		{name: "negative trials", mutate: func(c *Config) { c.Simulation.Trials = -1 }},
		{name: "zero trials", mutate: func(c *Config) { c.Simulation.Trials = 0 }, ok: true},
		{name: "negative workers", mutate: func(c *Config) { c.Simulation.Workers = -2 }},
		{name: "bad prior", mutate: func(c *Config) { c.Priors.BayesianPrior = 2 }},
		{name: "unnamed scenario", mutate: func(c *Config) { c.Scenarios = []Scenario{{Name: " "}} }},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "parrot" }},
		{name: "ollama provider", mutate: func(c *Config) { c.LLM.Provider = "ollama" }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSensitivityResult_Direction(t *testing.T) {
	tests := []struct {
		change float64
		want   string
	}{
		{0.08, "↑"},
		{-0.09, "↓"},
		{0, "→"},
	}
	for _, tt := range tests {
		if got := (SensitivityResult{Change: tt.change}).Direction(); got != tt.want {
			t.Errorf("change %v: expected %s, got %s", tt.change, tt.want, got)
		}
	}
}
