package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/reformcast/internal/model"
	"github.com/ppiankov/reformcast/internal/pipeline"
	"github.com/spf13/cobra"
)

var factorFlags = make(map[model.Factor]*bool, model.NumFactors)

// posteriorCmd evaluates a single assignment
var posteriorCmd = &cobra.Command{
	Use:   "posterior [TFFTT]",
	Short: "Print the success/failure posterior for one assignment",
	Long: `Posterior looks up P(success) for a full factor assignment and prints it
as JSON. Unset factors take their value from the configured baseline.

The optional compact argument lists the factors in order: legislative
majority, judicial change, union cooperative, constitutional challenge,
economic crisis (T/F, 1/0 or Y/N).

Example:
  reformcast posterior
  reformcast posterior TTFTT
  reformcast posterior --union-cooperative --constitutional-challenge=false`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPosterior,
}

func init() {
	rootCmd.AddCommand(posteriorCmd)

	base := model.DefaultConfig().Baseline
	for _, f := range model.Factors() {
		factorFlags[f] = posteriorCmd.Flags().Bool(flagName(f), base.Get(f), f.String())
	}
}

func flagName(f model.Factor) string {
	return strings.ReplaceAll(f.Key(), "_", "-")
}

func runPosterior(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a := cfg.Baseline
	if len(args) == 1 {
		if a, err = model.ParseAssignment(args[0]); err != nil {
			return err
		}
	}
	for _, f := range model.Factors() {
		if cmd.Flags().Changed(flagName(f)) {
			a = a.With(f, *factorFlags[f])
		}
	}

	cfg.Cache.Enabled = false
	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(p.Table().Posterior(a), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal posterior: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
