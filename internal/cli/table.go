package cli

import (
	"fmt"

	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var tableYAML bool

// tableCmd lists the conditional probability table
var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "List all 32 table entries with provenance",
	Long: `Table lists P(success) for every factor assignment in index order,
marking each as curated or interpolated, with its favorability score.

Columns: legislative majority, judicial change, union cooperative,
constitutional challenge, economic crisis.`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.Flags().BoolVar(&tableYAML, "yaml", false, "print as YAML")
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	entries := p.Table().Entries()
	out := cmd.OutOrStdout()

	if tableYAML {
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal table: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fmt.Fprintf(out, "%-6s  %-10s  %-12s  %s\n", "Key", "P(Success)", "Source", "Favorability")
	for _, e := range entries {
		fmt.Fprintf(out, "%-6s  %9.2f%%  %-12s  %.1f\n", e.Assignment, e.Probability*100, e.Provenance, e.Favorability)
	}

	curated, interpolated := p.Table().Counts()
	fmt.Fprintf(out, "\n%d curated, %d interpolated\n", curated, interpolated)
	return nil
}
