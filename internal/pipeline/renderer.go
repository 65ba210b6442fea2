package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ppiankov/reformcast/internal/analysis"
	"github.com/ppiankov/reformcast/internal/model"
)

// Renderer writes reports to JSON, Markdown, CSV and the terminal.
// Percentages are formatted here for display only.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON.
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the human-readable report.
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown builds the report document.
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Subject)
	fmt.Fprintf(&b, "_Generated %s_\n\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("## Executive Summary\n\n")
	priors := report.Model.Priors
	fmt.Fprintf(&b, "- **Historical base rate:** %s (%d attempts)\n", pct(priors.HistoricalBaseRate), priors.HistoricalAttempts)
	fmt.Fprintf(&b, "- **Bayesian prior:** %s\n", pct(priors.BayesianPrior))
	fmt.Fprintf(&b, "- **Base case success:** %s\n", pct(report.BaseCase.Success))
	fmt.Fprintf(&b, "- **Base case failure:** %s\n", pct(report.BaseCase.Failure))
	if top, ok := analysis.MostInfluential(report.Sensitivity); ok {
		fmt.Fprintf(&b, "- **Most influential factor:** %s (%s)\n", top.Variable, pp(top.Change))
	}
	b.WriteString("\n")

	b.WriteString("## Base Case\n\n")
	b.WriteString("| Factor | Value | Marginal P(true) |\n|---|---|---|\n")
	for _, f := range model.Factors() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", f, yesNo(report.BaseCase.Conditions.Get(f)), pct(report.Model.Marginals.Of(f)))
	}
	b.WriteString("\n")

	sim := report.Simulation
	fmt.Fprintf(&b, "## Monte Carlo Simulation (n=%d, seed %d)\n\n", sim.Trials, sim.Seed)
	fmt.Fprintf(&b, "- **Observed success rate:** %s (±%s at 95%%)\n", pct(sim.SuccessRate), pct(1.96*sim.StdError))
	fmt.Fprintf(&b, "- **Mean success probability:** %s\n", pct(sim.MeanProbability))
	fmt.Fprintf(&b, "- **95%% interval of success probability:** [%s, %s]\n", pct(sim.ProbCILower), pct(sim.ProbCIUpper))
	fmt.Fprintf(&b, "- **Probability of failure:** %s\n", pct(sim.FailureRate))
	if sim.Cached {
		b.WriteString("- _Simulation served from cache._\n")
	}
	b.WriteString("\n")

	b.WriteString("## Scenarios\n\n")
	b.WriteString("| Scenario | Conditions | P(Success) | P(Failure) |\n|---|---|---|---|\n")
	for _, s := range report.Scenarios {
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", s.Name, s.Assignment, pct(s.Success), pct(s.Failure))
	}
	b.WriteString("\n")

	b.WriteString("## Sensitivity (flip one factor of the base case)\n\n")
	b.WriteString("| Rank | Factor | Base → Modified | P(Success) | Change | Percent |\n|---|---|---|---|---|---|\n")
	for i, s := range report.Sensitivity {
		fmt.Fprintf(&b, "| %d | %s | %s → %s | %s → %s | %s | %+.1f%% |\n",
			i+1, s.Variable, yesNo(s.BaseValue), yesNo(s.ModifiedValue),
			pct(s.BaseProbability), pct(s.NewProbability), pp(s.Change), s.PercentChange)
	}
	b.WriteString("\n")

	b.WriteString("## Conditional Probability Table\n\n")
	b.WriteString("Columns: legislative majority, judicial change, union cooperative, constitutional challenge, economic crisis.\n\n")
	b.WriteString("| Conditions | P(Success) | Source | Favorability |\n|---|---|---|---|\n")
	for _, e := range report.Model.Table {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %.1f |\n", e.Assignment, pct(e.Probability), e.Provenance, e.Favorability)
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString("_reformcast reports model estimates from a fixed conditional probability table. ")
		b.WriteString("They are not forecasts of fact. A narrative, if requested, is written to a separate file._\n")
	}

	return b.String()
}

// RenderLLMMarkdown writes the narrative document.
func (r *Renderer) RenderLLMMarkdown(markdown string, path string) error {
	return writeFile(path, []byte(markdown))
}

// RenderScenariosCSV writes one row per scenario.
func (r *Renderer) RenderScenariosCSV(results []model.ScenarioResult, path string) error {
	header := append([]string{"Scenario", "P(Success)", "P(Failure)"}, factorKeys()...)
	rows := make([][]string, 0, len(results))
	for _, s := range results {
		row := []string{s.Name, num(s.Success), num(s.Failure)}
		row = append(row, boolCells(s.Assignment)...)
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// RenderSensitivityCSV writes the ranked sensitivity results.
func (r *Renderer) RenderSensitivityCSV(results []model.SensitivityResult, path string) error {
	header := []string{"Variable", "Base Value", "Modified Value", "Base P(Success)", "Modified P(Success)", "Absolute Change", "Percent Change"}
	rows := make([][]string, 0, len(results))
	for _, s := range results {
		rows = append(rows, []string{
			s.Variable,
			strconv.FormatBool(s.BaseValue),
			strconv.FormatBool(s.ModifiedValue),
			num(s.BaseProbability),
			num(s.NewProbability),
			num(s.Change),
			num(s.PercentChange),
		})
	}
	return writeCSV(path, header, rows)
}

// RenderSimulationCSV writes one row per Monte Carlo trial.
func (r *Renderer) RenderSimulationCSV(records []model.SimulationRecord, path string) error {
	header := append(factorKeys(), "success", "prob_success")
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := boolCells(rec.Assignment())
		row = append(row, strconv.FormatBool(rec.Success), num(rec.ProbSuccess))
		rows = append(rows, row)
	}
	return writeCSV(path, header, rows)
}

// RenderSummary prints a short terminal summary.
func (r *Renderer) RenderSummary(report *model.Report, w io.Writer) {
	fmt.Fprintf(w, "\n%s\n", report.Subject)
	fmt.Fprintf(w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(w, "Base case (%s):     P(success) = %s\n", report.BaseCase.Conditions, pct(report.BaseCase.Success))

	sim := report.Simulation
	cached := ""
	if sim.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(w, "Monte Carlo:            %d trials, seed %d%s\n", sim.Trials, sim.Seed, cached)
	fmt.Fprintf(w, "  Success rate:         %s\n", pct(sim.SuccessRate))
	fmt.Fprintf(w, "  95%% interval:         [%s, %s]\n", pct(sim.ProbCILower), pct(sim.ProbCIUpper))

	if len(report.Scenarios) > 0 {
		fmt.Fprintln(w, "\nScenarios:")
		for _, s := range report.Scenarios {
			fmt.Fprintf(w, "  %-30s %6s\n", s.Name, pct(s.Success))
		}
	}

	if top, ok := analysis.MostInfluential(report.Sensitivity); ok {
		fmt.Fprintf(w, "Most influential:       %s (%s)\n", top.Variable, pp(top.Change))
		fmt.Fprintln(w, "\nSensitivity:")
		for _, s := range report.Sensitivity {
			fmt.Fprintf(w, "  %-30s %s %6s (%+6.1f%%)\n", s.Variable, s.Direction(), fmt.Sprintf("%.1fpp", math.Abs(s.Change)*100), s.PercentChange)
		}
	}

	// No narrative means the first warning says why: unavailable or rejected.
	if report.LLM != nil && report.LLM.SummaryMD == "" && len(report.LLM.Warnings) > 0 {
		fmt.Fprintf(w, "\nLLM: %s\n", report.LLM.Warnings[0])
	}
	fmt.Fprintln(w)
}

func factorKeys() []string {
	keys := make([]string, 0, model.NumFactors)
	for _, f := range model.Factors() {
		keys = append(keys, f.Key())
	}
	return keys
}

func boolCells(a model.Assignment) []string {
	cells := make([]string, 0, model.NumFactors)
	for _, v := range a.Values() {
		cells = append(cells, strconv.FormatBool(v))
	}
	return cells
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return f.Close()
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func pct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func pp(change float64) string {
	return fmt.Sprintf("%+.1fpp", change*100)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
