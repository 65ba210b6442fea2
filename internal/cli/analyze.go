package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	outMD       string
	outCSVDir   string
	timeout     time.Duration
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis and write reports",
	Long: `Analyze evaluates the base case, the named scenarios and the
one-factor sensitivity of the base case, runs the Monte Carlo simulation,
and writes the results.

Example:
  reformcast analyze
  reformcast analyze --json report.json --md report.md --csv-dir out/
  reformcast analyze --trials 100000 --seed 7 --workers 8
  reformcast analyze --md report.md --llm --llm-provider openai`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().StringVar(&outCSVDir, "csv-dir", "", "directory for scenario, sensitivity and simulation CSVs (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")

	addSimulationFlags(analyzeCmd)

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM narrative (written to a separate .llm.md)")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama); overrides llm.provider")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (default from config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySimulationFlags(cmd, cfg)
	if noFooter {
		cfg.Output.IncludeFooter = false
	}

	applyLLMFlags(cmd, cfg)
	if llmEnabled {
		switch cfg.LLM.Provider {
		case "openai":
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Trials: %d, seed: %d, workers: %d\n", cfg.Simulation.Trials, cfg.Simulation.Seed, cfg.Simulation.Workers)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	report, err := p.Analyze(ctx)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	return p.RenderReport(report, pipeline.Outputs{
		JSON:     outJSON,
		Markdown: outMD,
		CSVDir:   outCSVDir,
	}, cmd.OutOrStdout())
}

// applyLLMFlags enables the narrative for --llm. The provider comes from
// --llm-provider when given, else llm.provider, else the flag default.
func applyLLMFlags(cmd *cobra.Command, cfg *model.Config) {
	if !llmEnabled {
		return
	}
	flags := cmd.Flags()
	if flags.Changed("llm-provider") || cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llmProvider
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	cfg.LLM.StrictNumbers = true // Always enforce from the CLI
}
