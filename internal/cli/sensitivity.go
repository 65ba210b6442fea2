package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/ppiankov/reformcast/internal/analysis"
	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	sensBaseline string
	sensCSV      string
)

// sensitivityCmd ranks factors by their effect on a baseline
var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Rank factors by the effect of flipping each one",
	Long: `Sensitivity flips each factor of the baseline in turn and ranks the
factors by the absolute change in P(success).

Example:
  reformcast sensitivity
  reformcast sensitivity --baseline TTFTT --csv sensitivity_analysis.csv`,
	Args: cobra.NoArgs,
	RunE: runSensitivity,
}

func init() {
	rootCmd.AddCommand(sensitivityCmd)
	sensitivityCmd.Flags().StringVar(&sensBaseline, "baseline", "", "baseline assignment, e.g. TFFTT (default from config)")
	sensitivityCmd.Flags().StringVar(&sensCSV, "csv", "", "write results to this CSV path")
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	baseline := cfg.Baseline
	if sensBaseline != "" {
		if baseline, err = model.ParseAssignment(sensBaseline); err != nil {
			return err
		}
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}
	results := analysis.Sensitivity(p.Table(), baseline)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Baseline %s: P(Success) = %.1f%%\n\n", baseline, p.Table().Posterior(baseline).Success*100)
	for i, r := range results {
		fmt.Fprintf(out, "%d. %-30s %s %5.1fpp (%+6.1f%%)\n", i+1, r.Variable, r.Direction(), math.Abs(r.Change)*100, r.PercentChange)
	}

	if sensCSV != "" {
		if err := p.Renderer().RenderSensitivityCSV(results, sensCSV); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", sensCSV)
		}
	}
	return nil
}
