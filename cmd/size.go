package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guimove/trunkfit/internal/orchestrator"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Compute the channels the busy hour needs",
	Long: `Computes the offered traffic of the busy hour and finds the smallest channel
count whose Erlang-B blocking meets the GOS target, once unconstrained and once
per configured block size. The full GOS curve up to the channel ceiling is
printed alongside.`,
	RunE: runSize,
}

func init() {
	f := sizeCmd.Flags()
	f.Int("attempts", 0, "call attempts in the hour (default: busy_hour_attempts)")
	f.String("output-file", "", "write output to file")

	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if n, _ := cmd.Flags().GetInt("attempts"); cmd.Flags().Changed("attempts") {
		cfg.Traffic.BusyHourAttempts = n
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput()

	orch := orchestrator.New(nil, cfg)
	orch.Writer = w

	_, err = orch.Size(ctx)
	return err
}

// openOutput returns stdout, or the file named by --output-file.
func openOutput(cmd *cobra.Command) (*os.File, func(), error) {
	outFile, _ := cmd.Flags().GetString("output-file")
	if outFile == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
