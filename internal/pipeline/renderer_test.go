package pipeline

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/reformcast/internal/analysis"
	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/network"
	"github.com/ppiankov/reformcast/internal/simulate"
)

func sampleReport(t *testing.T) *model.Report {
	t.Helper()
	table, err := network.Build(network.DefaultCurated())
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	records, err := simulate.NewSeededEngine(table, model.DefaultMarginals(), 7).Simulate(50)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	return &model.Report{
		Subject:     Subject,
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
		Model: model.ModelInfo{
			Marginals: model.DefaultMarginals(),
			Priors:    model.DefaultConfig().Priors,
			Table:     table.Entries(),
		},
		BaseCase:    table.Posterior(analysis.BaseCase()),
		Scenarios:   analysis.Scenarios(table, analysis.DefaultScenarios()),
		Sensitivity: analysis.Sensitivity(table, analysis.BaseCase()),
		Simulation:  simulate.Summarize(records, 7),
		Records:     records,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestRenderScenariosCSV(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "nested", ScenariosCSV)

	if err := NewRenderer(true).RenderScenariosCSV(report.Scenarios, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	rows := readCSV(t, path)
	wantHeader := "Scenario,P(Success),P(Failure),legislative_majority,judicial_change,union_cooperative,constitutional_challenge,economic_crisis"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("expected header %q, got %q", wantHeader, got)
	}
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}

	first := rows[1]
	if first[0] != "Base Case (Most Likely)" || first[1] != "0.11" {
		t.Errorf("unexpected first row %v", first)
	}
	if strings.Join(first[3:], ",") != "true,false,false,true,true" {
		t.Errorf("unexpected conditions %v", first[3:])
	}
}

func TestRenderSensitivityCSV(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), SensitivityCSV)

	if err := NewRenderer(true).RenderSensitivityCSV(report.Sensitivity, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	rows := readCSV(t, path)
	if rows[0][0] != "Variable" || rows[0][5] != "Absolute Change" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if len(rows) != model.NumFactors+1 {
		t.Fatalf("expected %d rows, got %d", model.NumFactors+1, len(rows))
	}
	if rows[1][0] != "Legislative Majority" || rows[1][1] != "true" || rows[1][2] != "false" || rows[1][4] != "0.02" {
		t.Errorf("unexpected top row %v", rows[1])
	}
}

func TestRenderSimulationCSV(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), SimulationCSV)

	if err := NewRenderer(true).RenderSimulationCSV(report.Records, path); err != nil {
		t.Fatalf("render: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != len(report.Records)+1 {
		t.Fatalf("expected %d rows, got %d", len(report.Records)+1, len(rows))
	}
	if got := strings.Join(rows[0], ","); got != "legislative_majority,judicial_change,union_cooperative,constitutional_challenge,economic_crisis,success,prob_success" {
		t.Errorf("unexpected header %q", got)
	}
	if len(rows[1]) != 7 {
		t.Errorf("expected 7 columns, got %d", len(rows[1]))
	}
}

func TestMarkdown(t *testing.T) {
	report := sampleReport(t)
	md := NewRenderer(true).Markdown(report)

	for _, want := range []string{
		"# " + Subject,
		"## Executive Summary",
		"**Base case success:** 11.0%",
		"**Most influential factor:** Legislative Majority (-9.0pp)",
		"## Monte Carlo Simulation (n=50, seed 7)",
		"| Worst Case | `FFFTF` | 1.0% |",
		"| 1 | Legislative Majority | yes → no |",
		"## Conditional Probability Table",
		"| `TTTFT` | 45.0% | curated |",
		"interpolated",
		"not forecasts of fact",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}

	if strings.Contains(NewRenderer(false).Markdown(report), "not forecasts of fact") {
		t.Error("expected no footer when disabled")
	}
}

func TestRenderSummary(t *testing.T) {
	report := sampleReport(t)
	report.Simulation.Cached = true

	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(report, &buf)
	out := buf.String()

	for _, want := range []string{
		"Base case (TFFTT)",
		"11.0%",
		"50 trials, seed 7 (cached)",
		"Worst Case",
		"Most influential:       Legislative Majority (-9.0pp)",
		"↓",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderSummary_NoChangeIsNeutral(t *testing.T) {
	report := sampleReport(t)
	report.Sensitivity = []model.SensitivityResult{{
		Factor:          model.EconomicCrisisDeepens,
		Variable:        model.EconomicCrisisDeepens.String(),
		BaseProbability: 0.2,
		NewProbability:  0.2,
	}}

	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(report, &buf)
	out := buf.String()

	if !strings.Contains(out, "Economic Crisis Deepens        →") {
		t.Errorf("expected neutral arrow for zero change, got:\n%s", out)
	}
	if strings.Contains(out, "↓") || strings.Contains(out, "↑") {
		t.Errorf("expected no directional arrow, got:\n%s", out)
	}
}

func TestRenderSummary_RejectedNarrative(t *testing.T) {
	report := sampleReport(t)
	report.LLM = &model.LLMSummary{
		Enabled:       true,
		Provider:      "openai",
		StrictNumbers: true,
		Warnings:      []string{"LLM summary generation failed: NUMBER LEAK: LLM quoted 42%, which is not in the report"},
	}

	var buf bytes.Buffer
	NewRenderer(true).RenderSummary(report, &buf)
	if !strings.Contains(buf.String(), "LLM: LLM summary generation failed: NUMBER LEAK") {
		t.Errorf("expected rejection on the terminal, got:\n%s", buf.String())
	}

	report.LLM.SummaryMD = "Base case success is 11.0%."
	report.LLM.Warnings = []string{"Tokens used: 50"}
	buf.Reset()
	NewRenderer(true).RenderSummary(report, &buf)
	if strings.Contains(buf.String(), "LLM:") {
		t.Errorf("expected no LLM line for a generated narrative, got:\n%s", buf.String())
	}
}
