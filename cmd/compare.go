package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/trunkfit/internal/orchestrator"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare fixed and dynamic channel provisioning over a day",
	Long: `Simulates a day of call attempts under fixed provisioning and under dynamic
provisioning, where the channel count is resized every hour to the smallest
count (or block multiple) that meets the GOS target. Scenarios are ranked by
energy use and by how close their grade of service stays to the fixed baseline.`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.String("strategy", "", "scenarios to run: fixed, dynamic, both")
	f.Int("fixed-channels", 0, "channel count of the fixed baseline")
	f.Int("runs", 0, "number of Monte Carlo runs per scenario")
	f.Uint64("seed", 0, "random seed")
	f.String("generator", "", "random generator: pcg, mrg32k3a")
	f.Int("parallelism", 0, "concurrent runs (default: number of CPUs)")
	f.Int("bins", 0, "histogram bins")
	f.Bool("no-progress", false, "disable the progress bar")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if s, _ := cmd.Flags().GetString("strategy"); cmd.Flags().Changed("strategy") {
		cfg.Simulation.Strategy = s
	}
	if n, _ := cmd.Flags().GetInt("fixed-channels"); cmd.Flags().Changed("fixed-channels") {
		cfg.Sizing.FixedChannels = n
	}
	applySimulationFlags(cmd)

	if err := cfg.Validate(); err != nil {
		return err
	}

	loader, err := orchestrator.NewLoader(cfg)
	if err != nil {
		return fmt.Errorf("creating profile loader: %w", err)
	}

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	orch := orchestrator.New(loader, cfg)
	orch.Writer = w

	finish := attachProgress(orch, cfg.Simulation.Runs*scenarioCount())
	_, err = orch.Compare(ctx)
	finish()
	return err
}

// scenarioCount returns how many day scenarios the configured strategy runs.
func scenarioCount() int {
	seen := make(map[int]bool)
	for _, b := range cfg.Sizing.BlockSizes {
		seen[b] = true
	}
	dynamic := max(len(seen), 1)

	switch cfg.Simulation.Strategy {
	case "fixed":
		return 1
	case "dynamic":
		return dynamic
	default:
		return 1 + dynamic
	}
}
