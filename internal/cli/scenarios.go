package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/reformcast/internal/analysis"
	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
)

var scenariosCSV string

// scenariosCmd evaluates the named scenarios
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Evaluate the named scenarios",
	Long: `Scenarios evaluates each configured scenario in order. Without a
scenarios section in the config file the five built-in scenarios are used.`,
	Args: cobra.NoArgs,
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
	scenariosCmd.Flags().StringVar(&scenariosCSV, "csv", "", "write results to this CSV path")
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	list := cfg.Scenarios
	if list == nil {
		list = analysis.DefaultScenarios()
	}
	results := analysis.Scenarios(p.Table(), list)

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%-30s  %s  P(Success) = %5.1f%%\n", r.Name, r.Assignment, r.Success*100)
	}

	if scenariosCSV != "" {
		if err := p.Renderer().RenderScenariosCSV(results, scenariosCSV); err != nil {
			return fmt.Errorf("render CSV: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n", scenariosCSV)
		}
	}
	return nil
}
