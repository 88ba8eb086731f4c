package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"k8s.io/klog/v2"

	"github.com/guimove/trunkfit/internal/config"
	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/metrics"
	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/profile"
	"github.com/guimove/trunkfit/internal/report"
	"github.com/guimove/trunkfit/internal/simulation"
)

// Orchestrator coordinates the sizing, simulation and comparison pipelines.
type Orchestrator struct {
	Loader profile.Loader
	Config config.Config

	// Writer receives the report. Progress receives human-facing status lines.
	Writer   io.Writer
	Progress io.Writer

	// OnRunComplete, if set, is passed to the simulation engine.
	OnRunComplete func()
}

// New creates an orchestrator with the given dependencies.
func New(loader profile.Loader, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		Loader:   loader,
		Config:   cfg,
		Writer:   os.Stdout,
		Progress: os.Stderr,
	}
}

// NewLoader picks the profile source configured in cfg: a file, a Prometheus
// counter, or the inline hourly_profile.
func NewLoader(cfg config.Config) (profile.Loader, error) {
	switch {
	case cfg.Traffic.ProfileFile != "":
		return profile.NewFileLoader(cfg.Traffic.ProfileFile), nil
	case cfg.Traffic.Prometheus.URL != "":
		pc := cfg.Traffic.Prometheus
		loc, err := time.LoadLocation(pc.Timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone: %w", err)
		}
		return profile.NewPrometheusLoader(pc.URL, pc.Counter,
			profile.WithWindow(pc.Window),
			profile.WithTimeout(pc.Timeout),
			profile.WithLocation(loc),
		)
	default:
		p, err := cfg.Profile()
		if err != nil {
			return nil, err
		}
		return profile.Static{Profile: p}, nil
	}
}

// Compare runs the configured day scenarios, ranks them against the fixed
// baseline and writes the report.
func (o *Orchestrator) Compare(ctx context.Context) ([]model.Recommendation, error) {
	cfg := o.Config

	// Step 1: Load the traffic profile
	o.progressf("Loading traffic profile from %s...\n", o.Loader.Source())
	p, err := o.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading traffic profile: %w", err)
	}
	klog.V(2).InfoS("Loaded traffic profile", "source", o.Loader.Source(), "busyHour", p.BusyHour())

	// Step 2: Generate and run simulations
	spec := simulation.ScenarioSpec{
		DailyAttempts:     cfg.Traffic.DailyAttempts,
		Profile:           p,
		MeanDurationHours: cfg.MeanCallHours(),
		FixedChannels:     cfg.Sizing.FixedChannels,
		Target:            cfg.Sizing.GOSTarget,
		BlockSizes:        cfg.Sizing.BlockSizes,
		MaxChannels:       cfg.Sizing.MaxChannels,
	}
	scenarios := simulation.GenerateScenarios(spec, cfg.Simulation.Strategy)

	o.progressf("Running %d scenarios x %d runs...\n", len(scenarios), cfg.Simulation.Runs)

	engine, err := o.engine()
	if err != nil {
		return nil, err
	}
	results, err := engine.RunAll(ctx, scenarios, cfg.Simulation.Runs)
	if err != nil {
		return nil, fmt.Errorf("running simulations: %w", err)
	}

	// Step 3: Rank against the fixed baseline
	baseline := findBaseline(results)
	scorer := simulation.NewScorer(simulation.ScoringWeights{
		Energy:  cfg.Scoring.Weights.Energy,
		Service: cfg.Scoring.Weights.Service,
	})
	recs := scorer.RankResults(results, baseline)

	// Step 4: Report
	meta := report.ReportMeta{
		ProfileSource:   o.Loader.Source(),
		DailyAttempts:   cfg.Traffic.DailyAttempts,
		MeanCallMinutes: cfg.Traffic.MeanCallMinutes,
		GOSTarget:       cfg.Sizing.GOSTarget,
		Strategy:        cfg.Simulation.Strategy,
		Runs:            cfg.Simulation.Runs,
		Seed:            cfg.Simulation.Seed,
		Generator:       cfg.Simulation.Generator,
		GeneratedAt:     time.Now(),
		HistogramBins:   cfg.Output.HistogramBins,
	}
	if baseline != nil {
		meta.Baseline = baseline.Name
	}

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	if err := reporter.Report(ctx, recs, meta); err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	if err := o.writeMetrics(); err != nil {
		return nil, err
	}
	return recs, nil
}

// SimulateHour repeats the busy hour on the fixed channel count and reports
// the distribution of its empirical GOS.
func (o *Orchestrator) SimulateHour(ctx context.Context) (model.HourScenarioResult, error) {
	cfg := o.Config

	o.progressf("Simulating %d busy-hour attempts on %d channels x %d runs...\n",
		cfg.Traffic.BusyHourAttempts, cfg.Sizing.FixedChannels, cfg.Simulation.Runs)

	engine, err := o.engine()
	if err != nil {
		return model.HourScenarioResult{}, err
	}
	res, err := engine.RunHour(ctx, simulation.HourScenario{
		Attempts:          cfg.Traffic.BusyHourAttempts,
		MeanDurationHours: cfg.MeanCallHours(),
		Channels:          cfg.Sizing.FixedChannels,
	}, cfg.Simulation.Runs)
	if err != nil {
		return model.HourScenarioResult{}, fmt.Errorf("running simulations: %w", err)
	}

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	if err := reporter.ReportHour(ctx, report.HourReport{
		Result:          res,
		MeanCallMinutes: cfg.Traffic.MeanCallMinutes,
		Runs:            cfg.Simulation.Runs,
		Seed:            cfg.Simulation.Seed,
		Generator:       cfg.Simulation.Generator,
		HistogramBins:   cfg.Output.HistogramBins,
	}); err != nil {
		return model.HourScenarioResult{}, fmt.Errorf("generating report: %w", err)
	}

	if err := o.writeMetrics(); err != nil {
		return model.HourScenarioResult{}, err
	}
	return res, nil
}

// Size computes the channels the busy hour needs for every configured block
// size and reports them with the GOS curve up to the ceiling.
func (o *Orchestrator) Size(ctx context.Context) (report.SizingReport, error) {
	cfg := o.Config
	traffic := model.OfferedTraffic(cfg.Traffic.BusyHourAttempts, cfg.MeanCallHours())

	curve, err := erlang.Curve(traffic, cfg.Sizing.MaxChannels)
	if err != nil {
		return report.SizingReport{}, fmt.Errorf("computing GOS curve: %w", err)
	}

	sr := report.SizingReport{
		Attempts:        cfg.Traffic.BusyHourAttempts,
		MeanCallMinutes: cfg.Traffic.MeanCallMinutes,
		OfferedTraffic:  traffic,
		Target:          cfg.Sizing.GOSTarget,
		MaxChannels:     cfg.Sizing.MaxChannels,
		Curve:           curve,
	}

	for _, block := range cfg.Sizing.BlockSizes {
		bs := report.BlockSizing{BlockSize: block}
		n, err := erlang.RequiredChannelsInBlocks(traffic, cfg.Sizing.GOSTarget, block, cfg.Sizing.MaxChannels)
		switch {
		case err == nil:
			bs.Channels = n
			bs.GOS = curve[n-1].GOS
			bs.Found = true
		case errors.Is(err, erlang.ErrNotFound):
			klog.InfoS("No channel count meets the target", "blockSize", block, "traffic", traffic)
		default:
			return report.SizingReport{}, fmt.Errorf("sizing block %d: %w", block, err)
		}
		sr.Required = append(sr.Required, bs)
	}

	reporter := report.NewReporter(cfg.Output.Format, o.Writer)
	if err := reporter.ReportSizing(ctx, sr); err != nil {
		return report.SizingReport{}, fmt.Errorf("generating report: %w", err)
	}
	return sr, nil
}

func (o *Orchestrator) engine() (*simulation.Engine, error) {
	gen, err := simulation.ParseGenerator(o.Config.Simulation.Generator)
	if err != nil {
		return nil, err
	}
	engine := simulation.NewEngine(o.Config.Simulation.Seed, gen)
	if o.Config.Simulation.Parallelism > 0 {
		engine.Parallelism = o.Config.Simulation.Parallelism
	}
	engine.OnRunComplete = o.OnRunComplete
	return engine, nil
}

func (o *Orchestrator) writeMetrics() error {
	path := o.Config.Metrics.File
	if path == "" {
		return nil
	}
	if err := metrics.WriteFile(path); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	klog.V(2).InfoS("Wrote metrics", "path", path)
	return nil
}

func (o *Orchestrator) progressf(format string, args ...any) {
	if o.Progress == nil {
		return
	}
	_, _ = fmt.Fprintf(o.Progress, format, args...)
}

// findBaseline returns the first fixed-strategy result, or nil.
func findBaseline(results []model.ScenarioResult) *model.ScenarioResult {
	for i := range results {
		if results[i].Strategy == model.StrategyFixed {
			return &results[i]
		}
	}
	return nil
}

// HourPlan is the analytic channel plan for one hour of the profile.
type HourPlan struct {
	Hour           int     `json:"hour"`
	Fraction       float64 `json:"fraction"`
	Attempts       int     `json:"attempts"`
	OfferedTraffic float64 `json:"offered_traffic_erlangs"`
	Channels       int     `json:"channels"`
	GOS            float64 `json:"gos"`
	Unsized        bool    `json:"unsized,omitempty"`
	FixedGOS       float64 `json:"fixed_gos"`
}

// Plan loads the profile and sizes every hour with the given block size,
// without simulating. FixedGOS is the blocking of the fixed channel count.
// The block size must lie within [1, max_channels].
func (o *Orchestrator) Plan(ctx context.Context, blockSize int) ([]HourPlan, error) {
	cfg := o.Config
	if blockSize < 1 || blockSize > cfg.Sizing.MaxChannels {
		return nil, fmt.Errorf("%w: block size must be within [1, %d], got %d",
			erlang.ErrInvalidInput, cfg.Sizing.MaxChannels, blockSize)
	}

	p, err := o.Loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading traffic profile: %w", err)
	}

	sizer := erlang.Sizer{
		Target:      cfg.Sizing.GOSTarget,
		BlockSize:   blockSize,
		MaxChannels: cfg.Sizing.MaxChannels,
	}
	attempts := p.Attempts(cfg.Traffic.DailyAttempts)

	plan := make([]HourPlan, model.HoursPerDay)
	for h := range plan {
		traffic := model.OfferedTraffic(attempts[h], cfg.MeanCallHours())
		hp := HourPlan{
			Hour:           h,
			Fraction:       p[h],
			Attempts:       attempts[h],
			OfferedTraffic: traffic,
		}

		n, err := sizer.Size(traffic)
		if errors.Is(err, erlang.ErrNotFound) {
			n, hp.Unsized = sizer.Largest(), true
		} else if err != nil {
			return nil, fmt.Errorf("sizing hour %d: %w", h, err)
		}
		hp.Channels = n

		if hp.GOS, err = erlang.ErlangB(traffic, n); err != nil {
			return nil, err
		}
		if hp.FixedGOS, err = erlang.ErlangB(traffic, cfg.Sizing.FixedChannels); err != nil {
			return nil, err
		}
		plan[h] = hp
	}
	return plan, nil
}
