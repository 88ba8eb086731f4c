// Package metrics exposes Prometheus instrumentation for simulation runs.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every trunkfit metric.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// RunsTotal counts completed Monte Carlo runs per scenario.
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "trunkfit",
	Name:      "simulation_runs_total",
	Help:      "Completed Monte Carlo runs by scenario",
}, []string{"scenario"})

// HourlyGOS tracks the empirical GOS of every simulated hour.
var HourlyGOS = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "trunkfit",
	Name:      "hourly_gos",
	Help:      "Empirical grade of service of simulated hours",
	Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
})

// SizingNotFoundTotal counts hours whose sizing search hit the ceiling.
var SizingNotFoundTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "trunkfit",
	Name:      "sizing_not_found_total",
	Help:      "Hours for which no channel count within the ceiling met the GOS target",
})

// MeanEnergy holds the mean channel-hours of the last completed scenario.
var MeanEnergy = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "trunkfit",
	Name:      "run_energy_units",
	Help:      "Mean channel-hours per simulated day by scenario",
}, []string{"scenario"})

// MeanGOS holds the mean daily GOS of the last completed scenario.
var MeanGOS = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "trunkfit",
	Name:      "run_mean_gos",
	Help:      "Mean of the per-run average GOS by scenario",
}, []string{"scenario"})

// RunDurationSeconds tracks wall time of a single run.
var RunDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "trunkfit",
	Name:      "run_duration_seconds",
	Help:      "Wall time of one Monte Carlo run",
	Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
})

// WriteFile dumps the registry to path in the Prometheus text format.
func WriteFile(path string) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close()

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			return fmt.Errorf("writing metric %s: %w", mf.GetName(), err)
		}
	}
	return f.Close()
}
