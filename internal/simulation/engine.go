package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/guimove/trunkfit/internal/metrics"
	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

// Engine repeats daily and hourly simulations as independent Monte Carlo runs.
type Engine struct {
	Parallelism int
	Seed        uint64
	Generator   Generator

	// OnRunComplete, if set, is called once after every finished run. It may
	// be called from several goroutines at once.
	OnRunComplete func()
}

// NewEngine creates a simulation engine.
func NewEngine(seed uint64, gen Generator) *Engine {
	return &Engine{
		Parallelism: runtime.NumCPU(),
		Seed:        seed,
		Generator:   gen,
	}
}

// Scenario defines one provisioning strategy applied to a traffic day.
type Scenario struct {
	Name     string
	Strategy model.Strategy
	Input    DayInput
}

// HourScenario defines a single busy hour simulated on a fixed channel count.
type HourScenario struct {
	Attempts          int
	MeanDurationHours float64
	Channels          int
}

// RunAll executes every scenario and returns the results in input order.
func (e *Engine) RunAll(ctx context.Context, scenarios []Scenario, runs int) ([]model.ScenarioResult, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no simulation scenarios provided")
	}

	results := make([]model.ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		res, err := e.Run(ctx, sc, runs)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Run simulates the scenario's day runs times. Each run draws from its own
// random source.
func (e *Engine) Run(ctx context.Context, sc Scenario, runs int) (model.ScenarioResult, error) {
	if runs < 1 {
		return model.ScenarioResult{}, fmt.Errorf("number of runs must be positive, got %d", runs)
	}

	start := time.Now()
	sources := newSources(e.Generator, e.Seed, runs)
	out := make([]model.RunResult, runs)

	err := e.forEach(ctx, runs, func(i int) error {
		runStart := time.Now()
		day, err := SimulateDay(sources[i], sc.Input)
		if err != nil {
			return fmt.Errorf("scenario %q run %d: %w", sc.Name, i, err)
		}
		out[i] = model.RunResult{
			Run:          i,
			AverageGOS:   day.AverageGOS,
			Energy:       day.Energy,
			UnsizedHours: day.UnsizedHours,
		}
		for _, hr := range day.Hours {
			metrics.HourlyGOS.Observe(hr.GOS)
		}
		metrics.SizingNotFoundTotal.Add(float64(day.UnsizedHours))
		metrics.RunDurationSeconds.Observe(time.Since(runStart).Seconds())
		metrics.RunsTotal.WithLabelValues(sc.Name).Inc()
		return nil
	})
	if err != nil {
		return model.ScenarioResult{}, err
	}

	res := buildScenarioResult(sc, out, time.Since(start))
	metrics.MeanGOS.WithLabelValues(sc.Name).Set(stats.Mean(res.GOSSamples()))
	metrics.MeanEnergy.WithLabelValues(sc.Name).Set(stats.Mean(res.EnergySamples()))

	klog.V(2).InfoS("Scenario complete",
		"scenario", sc.Name,
		"runs", runs,
		"unsizedHours", res.UnsizedHours(),
		"duration", res.Duration)
	return res, nil
}

// RunHour repeats a single-hour simulation runs times.
func (e *Engine) RunHour(ctx context.Context, hs HourScenario, runs int) (model.HourScenarioResult, error) {
	if runs < 1 {
		return model.HourScenarioResult{}, fmt.Errorf("number of runs must be positive, got %d", runs)
	}

	label := fmt.Sprintf("hour-%d", hs.Channels)
	sources := newSources(e.Generator, e.Seed, runs)
	out := make([]model.HourResult, runs)

	err := e.forEach(ctx, runs, func(i int) error {
		hr, err := SimulateHour(sources[i], hs.Attempts, hs.MeanDurationHours, hs.Channels)
		if err != nil {
			return fmt.Errorf("hour run %d: %w", i, err)
		}
		out[i] = hr
		metrics.HourlyGOS.Observe(hr.GOS)
		metrics.RunsTotal.WithLabelValues(label).Inc()
		return nil
	})
	if err != nil {
		return model.HourScenarioResult{}, err
	}

	res := model.HourScenarioResult{
		Attempts: hs.Attempts,
		Channels: hs.Channels,
		Runs:     out,
	}
	if len(out) > 0 {
		res.AnalyticGOS = out[0].AnalyticGOS
	}
	return res, nil
}

// forEach calls fn for 0..n-1 on a bounded pool of goroutines and returns the
// first error in index order. Indices not yet started when ctx is cancelled
// are skipped.
func (e *Engine) forEach(ctx context.Context, n int, fn func(i int) error) error {
	parallelism := e.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	errs := make([]error, n)
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			errs[idx] = fn(idx)
			if errs[idx] == nil && e.OnRunComplete != nil {
				e.OnRunComplete()
			}
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return firstError(errs)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// buildScenarioResult attaches scenario metadata to the collected runs.
func buildScenarioResult(sc Scenario, runs []model.RunResult, duration time.Duration) model.ScenarioResult {
	res := model.ScenarioResult{
		Name:     sc.Name,
		Strategy: sc.Strategy,
		Runs:     runs,
		Duration: duration,
	}

	switch p := sc.Input.Provisioner.(type) {
	case FixedProvisioner:
		res.Channels = p.N
	case DynamicProvisioner:
		res.BlockSize = p.Sizer.BlockSize
		if res.BlockSize < 1 {
			res.BlockSize = 1
		}
		res.Target = p.Sizer.Target
	}
	return res
}
