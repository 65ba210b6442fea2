package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
)

var simCSV string

// simulateCmd runs only the Monte Carlo simulation
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the Monte Carlo simulation and print its summary",
	Long: `Simulate samples factor assignments from the configured marginals, looks
up P(success) for each and samples the outcome. Runs with the same seed,
trial count and chunk size are identical regardless of worker count.

Example:
  reformcast simulate --trials 100000 --seed 7
  reformcast simulate --seed 0 --csv monte_carlo_results.csv`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addSimulationFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&simCSV, "csv", "", "write per-trial records to this CSV path")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applySimulationFlags(cmd, cfg)

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	summary, records, err := p.Simulate(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	cached := ""
	if summary.Cached {
		cached = " (cached)"
	}
	fmt.Fprintf(out, "Trials:                   %d (seed %d)%s\n", summary.Trials, summary.Seed, cached)
	fmt.Fprintf(out, "Successes:                %d\n", summary.Successes)
	fmt.Fprintf(out, "Success rate:             %.2f%% ± %.2f%%\n", summary.SuccessRate*100, 1.96*summary.StdError*100)
	fmt.Fprintf(out, "Mean P(success):          %.2f%%\n", summary.MeanProbability*100)
	fmt.Fprintf(out, "95%% interval P(success): [%.2f%%, %.2f%%]\n", summary.ProbCILower*100, summary.ProbCIUpper*100)

	if simCSV != "" {
		if err := p.Renderer().RenderSimulationCSV(records, simCSV); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", simCSV)
		}
	}
	return nil
}
