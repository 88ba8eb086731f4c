package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guimove/trunkfit/internal/config"
	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/profile"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Simulation.Runs = 20
	cfg.Simulation.Parallelism = 4
	cfg.Sizing.BlockSizes = []int{1, 5}
	return cfg
}

func newTestOrchestrator(cfg config.Config) (*Orchestrator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Orchestrator{
		Loader:   profile.Static{Profile: model.DefaultHourlyProfile},
		Config:   cfg,
		Writer:   out,
		Progress: &bytes.Buffer{},
	}, out
}

func TestOrchestrator_Compare(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.File = filepath.Join(t.TempDir(), "metrics.prom")

	completed := 0
	orch, out := newTestOrchestrator(cfg)
	orch.OnRunComplete = func() { completed++ }
	orch.Config.Simulation.Parallelism = 1

	recs, err := orch.Compare(context.Background())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("expected 3 ranked scenarios (fixed, dynamic, block 5), got %d", len(recs))
	}
	if completed != 3*cfg.Simulation.Runs {
		t.Errorf("expected %d completed runs, got %d", 3*cfg.Simulation.Runs, completed)
	}

	// Verify recs are ranked
	for i := 0; i < len(recs)-1; i++ {
		if recs[i].OverallScore < recs[i+1].OverallScore {
			t.Errorf("recommendations not sorted: score[%d]=%v < score[%d]=%v",
				i, recs[i].OverallScore, i+1, recs[i+1].OverallScore)
		}
	}

	for _, rec := range recs {
		switch rec.Scenario.Name {
		case "fixed-25":
			if rec.Summary.MeanEnergy != 600 {
				t.Errorf("fixed energy: got %v, want 600", rec.Summary.MeanEnergy)
			}
			if rec.Summary.EnergyReduction != 0 {
				t.Errorf("baseline energy reduction: got %v, want 0", rec.Summary.EnergyReduction)
			}
		case "dynamic":
			if rec.Summary.EnergyReduction <= 0 {
				t.Errorf("dynamic provisioning should save energy, got %v%%", rec.Summary.EnergyReduction)
			}
		}
	}

	if !strings.Contains(out.String(), "Provisioning Comparison") {
		t.Error("expected the table report in the output")
	}
	data, err := os.ReadFile(cfg.Metrics.File)
	if err != nil {
		t.Fatalf("reading metrics file: %v", err)
	}
	if !strings.Contains(string(data), "trunkfit_simulation_runs_total") {
		t.Error("expected the run counter in the metrics dump")
	}
}

func TestOrchestrator_CompareDynamicOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Simulation.Strategy = "dynamic"
	cfg.Output.Format = "json"
	orch, out := newTestOrchestrator(cfg)

	recs, err := orch.Compare(context.Background())
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	for _, rec := range recs {
		if rec.Scenario.Strategy != model.StrategyDynamic {
			t.Errorf("unexpected %s scenario %q", rec.Scenario.Strategy, rec.Scenario.Name)
		}
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if meta := got["meta"].(map[string]any); meta["baseline"] != nil {
		t.Errorf("expected no baseline without a fixed scenario, got %v", meta["baseline"])
	}
}

func TestOrchestrator_CompareLoaderError(t *testing.T) {
	orch, _ := newTestOrchestrator(testConfig())
	orch.Loader = profile.NewFileLoader(filepath.Join(t.TempDir(), "missing.csv"))

	if _, err := orch.Compare(context.Background()); err == nil {
		t.Fatal("expected error for a missing profile file")
	}
}

func TestOrchestrator_SimulateHour(t *testing.T) {
	cfg := testConfig()
	orch, out := newTestOrchestrator(cfg)

	res, err := orch.SimulateHour(context.Background())
	if err != nil {
		t.Fatalf("SimulateHour failed: %v", err)
	}
	if len(res.Runs) != cfg.Simulation.Runs {
		t.Fatalf("expected %d runs, got %d", cfg.Simulation.Runs, len(res.Runs))
	}
	if res.Attempts != 400 || res.Channels != 25 {
		t.Errorf("unexpected hour parameters: %d attempts on %d channels", res.Attempts, res.Channels)
	}
	if !strings.Contains(out.String(), "Busy-Hour Simulation") {
		t.Error("expected the hour report in the output")
	}
}

func TestOrchestrator_Size(t *testing.T) {
	cfg := testConfig()
	cfg.Sizing.BlockSizes = []int{1, 10, 40}
	orch, out := newTestOrchestrator(cfg)

	sr, err := orch.Size(context.Background())
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if len(sr.Curve) != cfg.Sizing.MaxChannels {
		t.Errorf("expected %d curve points, got %d", cfg.Sizing.MaxChannels, len(sr.Curve))
	}

	want := []struct {
		channels int
		found    bool
	}{{25, true}, {30, true}, {40, true}}
	for i, w := range want {
		got := sr.Required[i]
		if got.Found != w.found || got.Channels != w.channels {
			t.Errorf("block %d: got (%d, %v), want (%d, %v)",
				got.BlockSize, got.Channels, got.Found, w.channels, w.found)
		}
	}
	if !strings.Contains(out.String(), "Channel Sizing") {
		t.Error("expected the sizing report in the output")
	}
}

func TestOrchestrator_SizeNotFound(t *testing.T) {
	cfg := testConfig()
	cfg.Traffic.BusyHourAttempts = 2000
	orch, _ := newTestOrchestrator(cfg)

	sr, err := orch.Size(context.Background())
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	for _, bs := range sr.Required {
		if bs.Found {
			t.Errorf("block %d: expected no channel count within the ceiling", bs.BlockSize)
		}
	}
}

func TestNewLoader(t *testing.T) {
	cfg := config.Default()
	l, err := NewLoader(cfg)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	if _, ok := l.(profile.Static); !ok {
		t.Errorf("expected the inline profile, got %T", l)
	}

	cfg.Traffic.ProfileFile = "profile.csv"
	l, _ = NewLoader(cfg)
	if _, ok := l.(*profile.FileLoader); !ok {
		t.Errorf("expected a file loader, got %T", l)
	}

	cfg.Traffic.ProfileFile = ""
	cfg.Traffic.Prometheus.URL = "http://localhost:9090"
	l, err = NewLoader(cfg)
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	if _, ok := l.(*profile.PrometheusLoader); !ok {
		t.Errorf("expected a prometheus loader, got %T", l)
	}
}

func TestOrchestrator_Plan(t *testing.T) {
	orch, _ := newTestOrchestrator(testConfig())

	plan, err := orch.Plan(context.Background(), 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan) != model.HoursPerDay {
		t.Fatalf("expected %d hours, got %d", model.HoursPerDay, len(plan))
	}

	energy := 0
	for _, hp := range plan {
		energy += hp.Channels
		if hp.Unsized {
			t.Errorf("hour %d: unexpected unsized hour", hp.Hour)
		}
		if hp.GOS > 0.015 {
			t.Errorf("hour %d: GOS %v above target", hp.Hour, hp.GOS)
		}
	}
	// Sum of the per-hour requirements for 4444 attempts/day at 0.015.
	if energy != 320 {
		t.Errorf("planned channel-hours: got %d, want 320", energy)
	}
	if plan[14].Attempts != 399 {
		t.Errorf("hour 14 attempts: got %d, want 399", plan[14].Attempts)
	}
}

func TestOrchestrator_PlanUnsized(t *testing.T) {
	cfg := testConfig()
	cfg.Traffic.DailyAttempts = 40000
	orch, _ := newTestOrchestrator(cfg)

	plan, err := orch.Plan(context.Background(), 1)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan[14].Unsized || plan[14].Channels != cfg.Sizing.MaxChannels {
		t.Errorf("expected the busy hour to hit the ceiling, got %+v", plan[14])
	}
}

func TestOrchestrator_PlanRejectsBlockSize(t *testing.T) {
	cfg := testConfig()
	orch, _ := newTestOrchestrator(cfg)

	for _, block := range []int{0, -1, cfg.Sizing.MaxChannels + 10} {
		if _, err := orch.Plan(context.Background(), block); !errors.Is(err, erlang.ErrInvalidInput) {
			t.Errorf("block %d: expected ErrInvalidInput, got %v", block, err)
		}
	}

	plan, err := orch.Plan(context.Background(), cfg.Sizing.MaxChannels)
	if err != nil {
		t.Fatalf("Plan failed at the ceiling: %v", err)
	}
	for _, hp := range plan {
		if hp.Channels > cfg.Sizing.MaxChannels {
			t.Errorf("hour %d: %d channels above the ceiling", hp.Hour, hp.Channels)
		}
	}
}
