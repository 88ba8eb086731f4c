package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guimove/trunkfit/internal/orchestrator"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Display the hourly traffic profile and channel plan",
	Long: `Loads the hourly traffic profile and displays, for every hour, its share of
the daily attempts, the offered traffic, and the channel count dynamic
provisioning would use. Useful for checking a profile file or a Prometheus
counter before running simulations.`,
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.Int("block-size", 1, "channel block size of the plan")
	f.String("sort-by", "hour", "sort hours by: hour, traffic")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		return err
	}

	loader, err := orchestrator.NewLoader(cfg)
	if err != nil {
		return fmt.Errorf("creating profile loader: %w", err)
	}

	block, _ := cmd.Flags().GetInt("block-size")
	orch := orchestrator.New(loader, cfg)
	plan, err := orch.Plan(ctx, block)
	if err != nil {
		return err
	}

	// Sort hours
	sortBy, _ := cmd.Flags().GetString("sort-by")
	sortPlan(plan, sortBy)

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	// Table output
	fmt.Fprintf(w, "Profile: %s\n", loader.Source())
	fmt.Fprintf(w, "Traffic: %d attempts/day | GOS target %g | block %d\n\n",
		cfg.Traffic.DailyAttempts, cfg.Sizing.GOSTarget, block)

	fmt.Fprintf(w, "%-5s %9s %9s %9s %9s %10s %10s %s\n",
		"HOUR", "FRACTION", "ATTEMPTS", "ERLANGS", "CHANNELS", "GOS",
		fmt.Sprintf("GOS@%d", cfg.Sizing.FixedChannels), "FLAGS")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

	energy, attempts := 0, 0
	for _, hp := range plan {
		flags := ""
		if hp.Unsized {
			flags = "[unsized]"
		}
		fmt.Fprintf(w, "%-5s %9.4f %9d %9.3f %9d %10.6f %10.6f %s\n",
			fmt.Sprintf("%02d:00", hp.Hour),
			hp.Fraction,
			hp.Attempts,
			hp.OfferedTraffic,
			hp.Channels,
			hp.GOS,
			hp.FixedGOS,
			flags,
		)
		energy += hp.Channels
		attempts += hp.Attempts
	}

	fmt.Fprintf(w, "\nTotal: %d attempts, %d channel-hours (fixed: %d)\n",
		attempts, energy, cfg.Sizing.FixedChannels*len(plan))
	return nil
}

func sortPlan(plan []orchestrator.HourPlan, by string) {
	switch by {
	case "traffic":
		sort.SliceStable(plan, func(i, j int) bool {
			return plan[i].OfferedTraffic > plan[j].OfferedTraffic
		})
	default: // hour
		sort.SliceStable(plan, func(i, j int) bool {
			return plan[i].Hour < plan[j].Hour
		})
	}
}
