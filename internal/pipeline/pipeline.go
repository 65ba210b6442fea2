package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/reformcast/internal/analysis"
	"github.com/ppiankov/reformcast/internal/cache"
	"github.com/ppiankov/reformcast/internal/llm"
	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/network"
	"github.com/ppiankov/reformcast/internal/simulate"
	"github.com/ppiankov/reformcast/internal/worker"
)

// Subject is the title used for reports.
const Subject = "Labor Reform Success Prediction"

// Pipeline orchestrates a complete analysis run
type Pipeline struct {
	table      *network.Table
	scenarios  []model.Scenario
	store      *cache.SimulationStore // nil when caching is disabled
	renderer   *Renderer
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	config     *model.Config
}

// NewPipeline builds the table and supporting components from cfg.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	curated := cfg.Curated
	if curated == nil {
		curated = network.DefaultCurated()
	}
	table, err := network.Build(curated)
	if err != nil {
		return nil, fmt.Errorf("build table: %w", err)
	}

	scenarios := cfg.Scenarios
	if scenarios == nil {
		scenarios = analysis.DefaultScenarios()
	}

	var store *cache.SimulationStore
	if cfg.Cache.Enabled {
		store = cache.NewDefaultSimulationStore(cfg.Cache)
	}

	// Create LLM summarizer if configured
	var summarizer *llm.Summarizer
	if cfg.LLM.Provider != "" {
		s, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize LLM provider: %v\n", err)
		} else {
			summarizer = s
		}
	}

	return &Pipeline{
		table:      table,
		scenarios:  scenarios,
		store:      store,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		summarizer: summarizer,
		config:     cfg,
	}, nil
}

// Table returns the conditional probability table.
func (p *Pipeline) Table() *network.Table {
	return p.table
}

// Renderer returns the configured renderer.
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Analyze runs every analysis and returns the report. The LLM narrative,
// if enabled, is generated after all numbers are final.
func (p *Pipeline) Analyze(ctx context.Context) (*model.Report, error) {
	baseline := p.config.Baseline

	report := &model.Report{
		Subject:     Subject,
		GeneratedAt: time.Now().UTC(),
		Model: model.ModelInfo{
			Marginals: p.config.Marginals,
			Priors:    p.config.Priors,
			Table:     p.table.Entries(),
		},
		BaseCase:    p.table.Posterior(baseline),
		Scenarios:   analysis.Scenarios(p.table, p.scenarios),
		Sensitivity: analysis.Sensitivity(p.table, baseline),
	}

	summary, records, err := p.Simulate(ctx)
	if err != nil {
		return nil, err
	}
	report.Simulation = summary
	report.Records = records

	if misses := p.table.Misses(); misses > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d lookups fell back to %.2f\n", misses, network.FallbackProbability)
	}

	if p.summarizer != nil && p.summarizer.IsEnabled() {
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Generating narrative with %s...\n", p.summarizer.ProviderName())
		}
		llmSummary, err := p.summarizer.GenerateSummary(ctx, *report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: LLM summary generation failed: %v\n", err)
		} else if llmSummary != nil {
			report.LLM = llmSummary
		}
	}

	return report, nil
}

// Simulate runs (or loads from cache) the Monte Carlo simulation. Only runs
// with an explicit seed are cached; time-seeded runs are never reused.
func (p *Pipeline) Simulate(ctx context.Context) (model.SimulationSummary, []model.SimulationRecord, error) {
	sc := p.config.Simulation
	verbose := p.config.Output.Verbose

	chunkSize := sc.ChunkSize
	if chunkSize <= 0 {
		chunkSize = simulate.DefaultChunkSize
	}

	var key string
	if p.store != nil && sc.Seed != 0 {
		key = cache.SimulationKey(p.table.Entries(), p.config.Marginals, sc.Trials, sc.Seed, chunkSize)
		if entry, ok := p.store.Get(key); ok && len(entry.Records) == sc.Trials {
			if verbose {
				fmt.Fprintf(os.Stderr, "✓ Simulation loaded from cache (%d trials, seed %d)\n", sc.Trials, entry.Seed)
			}
			summary := simulate.Summarize(entry.Records, entry.Seed)
			summary.Cached = true
			return summary, entry.Records, nil
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Simulating %d trials...\n", sc.Trials)
	}

	progress := p.newProgress(sc.Trials)
	res, err := simulate.Run(ctx, p.table, p.config.Marginals, simulate.Options{
		Trials:    sc.Trials,
		Seed:      sc.Seed,
		Workers:   sc.Workers,
		ChunkSize: chunkSize,
		Verbose:   verbose,
		Progress:  progress,
	})
	if err != nil {
		return model.SimulationSummary{}, nil, fmt.Errorf("simulate: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Simulated %d trials (seed %d)\n", progress.Done(), res.Seed)
	}

	if key != "" {
		if err := p.store.Put(key, &cache.SimulationEntry{Seed: res.Seed, Records: res.Records}); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache simulation: %v\n", err)
		}
	}

	return simulate.Summarize(res.Records, res.Seed), res.Records, nil
}

func (p *Pipeline) newProgress(total int) *worker.Progress {
	if !p.config.Output.Verbose || total == 0 {
		return nil
	}
	return worker.NewProgress(total, 4, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r   %d/%d trials", done, total)
		if done >= total {
			fmt.Fprintln(os.Stderr)
		}
	})
}

// Outputs selects the files RenderReport writes. Empty fields are skipped.
type Outputs struct {
	JSON     string
	Markdown string
	CSVDir   string
}

// CSV file names written under Outputs.CSVDir.
const (
	ScenariosCSV   = "scenario_analysis.csv"
	SensitivityCSV = "sensitivity_analysis.csv"
	SimulationCSV  = "monte_carlo_results.csv"
)

// RenderReport renders the report to the selected outputs and prints the
// terminal summary to w.
func (p *Pipeline) RenderReport(report *model.Report, out Outputs, w io.Writer) error {
	verbose := p.config.Output.Verbose

	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", out.JSON)
		}
	}

	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", out.Markdown)
		}
	}

	// Render LLM summary to separate file if present
	if report.LLM != nil && report.LLM.Enabled && out.Markdown != "" {
		llmMdPath := strings.TrimSuffix(out.Markdown, ".md") + ".llm.md"
		if err := p.renderer.RenderLLMMarkdown(llm.RenderSeparateMarkdown(report.LLM), llmMdPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write LLM summary: %v\n", err)
		} else if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote LLM Summary: %s\n", llmMdPath)
		}
	}

	if out.CSVDir != "" {
		files := []struct {
			name   string
			render func(string) error
		}{
			{ScenariosCSV, func(path string) error { return p.renderer.RenderScenariosCSV(report.Scenarios, path) }},
			{SensitivityCSV, func(path string) error { return p.renderer.RenderSensitivityCSV(report.Sensitivity, path) }},
			{SimulationCSV, func(path string) error { return p.renderer.RenderSimulationCSV(report.Records, path) }},
		}
		for _, f := range files {
			path := filepath.Join(out.CSVDir, f.name)
			if err := f.render(path); err != nil {
				return fmt.Errorf("render %s: %w", f.name, err)
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", path)
			}
		}
	}

	p.renderer.RenderSummary(report, w)

	return nil
}
