package cmd

import (
	"os"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/guimove/trunkfit/internal/orchestrator"
)

// attachProgress drives a stderr progress bar from the engine's run hook. The
// returned func finishes the bar.
func attachProgress(orch *orchestrator.Orchestrator, totalRuns int) func() {
	if !cfg.Output.Progress || totalRuns <= 0 {
		return func() {}
	}

	bar := pb.New(totalRuns)
	bar.Output = os.Stderr
	bar.ShowTimeLeft = false
	bar.Start()

	orch.OnRunComplete = func() { bar.Increment() }
	return bar.Finish
}
