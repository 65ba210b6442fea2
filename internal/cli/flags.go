package cli

import (
	"github.com/ppiankov/reformcast/internal/model"
	"github.com/spf13/cobra"
)

// Simulation flags shared by analyze and simulate.
var (
	simTrials    int
	simSeed      int64
	simWorkers   int
	simChunkSize int
	noCache      bool
)

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&simTrials, "trials", 10000, "number of Monte Carlo trials")
	cmd.Flags().Int64Var(&simSeed, "seed", 42, "random seed (0 = time-based, never cached)")
	cmd.Flags().IntVar(&simWorkers, "workers", 0, "parallel workers (0 = number of CPUs)")
	cmd.Flags().IntVar(&simChunkSize, "chunk-size", 1000, "trials per independently seeded chunk")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable simulation cache")
}

// applySimulationFlags overrides cfg with flags the user set explicitly, so
// config file and environment values survive when a flag is omitted.
func applySimulationFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		cfg.Simulation.Trials = simTrials
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = simSeed
	}
	if flags.Changed("workers") {
		cfg.Simulation.Workers = simWorkers
	}
	if flags.Changed("chunk-size") {
		cfg.Simulation.ChunkSize = simChunkSize
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
}
