package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guimove/trunkfit/internal/orchestrator"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Monte Carlo simulation of fixed channel provisioning",
	Long: `Simulates call attempts on a fixed number of channels, repeated over many
independent runs. With --hour-only a single busy hour is simulated and the
distribution of its empirical GOS is reported; otherwise a full day following
the hourly profile is simulated.`,
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.Bool("hour-only", false, "simulate only the busy hour")
	f.Int("channels", 0, "fixed channel count (default: fixed_channels)")
	f.Int("runs", 0, "number of Monte Carlo runs")
	f.Uint64("seed", 0, "random seed")
	f.String("generator", "", "random generator: pcg, mrg32k3a")
	f.Int("parallelism", 0, "concurrent runs (default: number of CPUs)")
	f.Int("bins", 0, "histogram bins")
	f.Bool("no-progress", false, "disable the progress bar")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if n, _ := cmd.Flags().GetInt("channels"); cmd.Flags().Changed("channels") {
		cfg.Sizing.FixedChannels = n
	}
	applySimulationFlags(cmd)
	cfg.Simulation.Strategy = "fixed"

	if err := cfg.Validate(); err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	hourOnly, _ := cmd.Flags().GetBool("hour-only")

	var orch *orchestrator.Orchestrator
	if hourOnly {
		orch = orchestrator.New(nil, cfg)
	} else {
		loader, err := orchestrator.NewLoader(cfg)
		if err != nil {
			return fmt.Errorf("creating profile loader: %w", err)
		}
		orch = orchestrator.New(loader, cfg)
	}
	orch.Writer = w

	finish := attachProgress(orch, cfg.Simulation.Runs)
	if hourOnly {
		_, err = orch.SimulateHour(ctx)
	} else {
		_, err = orch.Compare(ctx)
	}
	finish()
	return err
}

// applySimulationFlags copies the Monte Carlo flags shared by simulate and
// compare into the config.
func applySimulationFlags(cmd *cobra.Command) {
	if n, _ := cmd.Flags().GetInt("runs"); cmd.Flags().Changed("runs") {
		cfg.Simulation.Runs = n
	}
	if s, _ := cmd.Flags().GetUint64("seed"); cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = s
	}
	if g, _ := cmd.Flags().GetString("generator"); cmd.Flags().Changed("generator") {
		cfg.Simulation.Generator = g
	}
	if p, _ := cmd.Flags().GetInt("parallelism"); cmd.Flags().Changed("parallelism") {
		cfg.Simulation.Parallelism = p
	}
	if b, _ := cmd.Flags().GetInt("bins"); cmd.Flags().Changed("bins") {
		cfg.Output.HistogramBins = b
	}
	if off, _ := cmd.Flags().GetBool("no-progress"); off {
		cfg.Output.Progress = false
	}
}
