package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/guimove/trunkfit/internal/model"
)

// Config is the top-level configuration for trunkfit.
type Config struct {
	Traffic    TrafficConfig    `mapstructure:"traffic" yaml:"traffic"`
	Sizing     SizingConfig     `mapstructure:"sizing" yaml:"sizing"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Scoring    ScoringConfig    `mapstructure:"scoring" yaml:"scoring"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Metrics    MetricsConfig    `mapstructure:"metrics" yaml:"metrics"`
}

type TrafficConfig struct {
	DailyAttempts    int       `mapstructure:"daily_attempts" yaml:"daily_attempts"`
	BusyHourAttempts int       `mapstructure:"busy_hour_attempts" yaml:"busy_hour_attempts"`
	MeanCallMinutes  float64   `mapstructure:"mean_call_minutes" yaml:"mean_call_minutes"`
	HourlyProfile    []float64 `mapstructure:"hourly_profile" yaml:"hourly_profile"`
	ProfileFile      string    `mapstructure:"profile_file" yaml:"profile_file"` // overrides hourly_profile

	Prometheus PrometheusConfig `mapstructure:"prometheus" yaml:"prometheus"`
}

// PrometheusConfig points at a call-attempt counter to derive the profile from.
type PrometheusConfig struct {
	URL      string        `mapstructure:"url" yaml:"url"`
	Counter  string        `mapstructure:"counter" yaml:"counter"`
	Window   time.Duration `mapstructure:"window" yaml:"window"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Timezone string        `mapstructure:"timezone" yaml:"timezone"`
}

type SizingConfig struct {
	GOSTarget     float64 `mapstructure:"gos_target" yaml:"gos_target"`
	FixedChannels int     `mapstructure:"fixed_channels" yaml:"fixed_channels"`
	BlockSizes    []int   `mapstructure:"block_sizes" yaml:"block_sizes"`
	MaxChannels   int     `mapstructure:"max_channels" yaml:"max_channels"`
}

type SimulationConfig struct {
	Runs        int    `mapstructure:"runs" yaml:"runs"`
	Seed        uint64 `mapstructure:"seed" yaml:"seed"`
	Parallelism int    `mapstructure:"parallelism" yaml:"parallelism"`
	Generator   string `mapstructure:"generator" yaml:"generator"`
	Strategy    string `mapstructure:"strategy" yaml:"strategy"`
}

type ScoringConfig struct {
	Weights ScoringWeightsConf `mapstructure:"weights" yaml:"weights"`
}

type ScoringWeightsConf struct {
	Energy  float64 `mapstructure:"energy" yaml:"energy"`
	Service float64 `mapstructure:"service" yaml:"service"`
}

type OutputConfig struct {
	Format        string `mapstructure:"format" yaml:"format"`
	HistogramBins int    `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	Progress      bool   `mapstructure:"progress" yaml:"progress"`
}

type MetricsConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config with the reference cell-site scenario.
func Default() Config {
	return Config{
		Traffic: TrafficConfig{
			DailyAttempts:    4444,
			BusyHourAttempts: 400,
			MeanCallMinutes:  2.5,
			HourlyProfile:    append([]float64(nil), model.DefaultHourlyProfile[:]...),
			Prometheus: PrometheusConfig{
				Counter:  "calls_attempted_total",
				Window:   7 * 24 * time.Hour,
				Timeout:  60 * time.Second,
				Timezone: "UTC",
			},
		},
		Sizing: SizingConfig{
			GOSTarget:     0.015,
			FixedChannels: 25,
			BlockSizes:    []int{1},
			MaxChannels:   50,
		},
		Simulation: SimulationConfig{
			Runs:        1000,
			Seed:        1,
			Parallelism: runtime.NumCPU(),
			Generator:   "pcg",
			Strategy:    "both",
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeightsConf{
				Energy:  0.6,
				Service: 0.4,
			},
		},
		Output: OutputConfig{
			Format:        "table",
			HistogramBins: 20,
			Progress:      true,
		},
	}
}

// MeanCallHours returns the mean holding time in hours.
func (c *Config) MeanCallHours() float64 {
	return c.Traffic.MeanCallMinutes / 60
}

// Profile returns the configured hourly profile.
func (c *Config) Profile() (model.HourlyProfile, error) {
	return model.NewHourlyProfile(c.Traffic.HourlyProfile)
}

// Validate checks the config for structural consistency.
func (c *Config) Validate() error {
	if c.Traffic.DailyAttempts < 0 {
		return fmt.Errorf("daily_attempts must be non-negative, got %d", c.Traffic.DailyAttempts)
	}
	if c.Traffic.BusyHourAttempts < 0 {
		return fmt.Errorf("busy_hour_attempts must be non-negative, got %d", c.Traffic.BusyHourAttempts)
	}
	if !(c.Traffic.MeanCallMinutes > 0) {
		return fmt.Errorf("mean_call_minutes must be positive, got %v", c.Traffic.MeanCallMinutes)
	}
	if c.Traffic.ProfileFile == "" && c.Traffic.Prometheus.URL == "" {
		if _, err := c.Profile(); err != nil {
			return err
		}
	}
	if c.Traffic.Prometheus.URL != "" {
		if c.Traffic.Prometheus.Counter == "" {
			return fmt.Errorf("prometheus counter must be set when a prometheus url is given")
		}
		if _, err := time.LoadLocation(c.Traffic.Prometheus.Timezone); err != nil {
			return fmt.Errorf("invalid prometheus timezone %q: %w", c.Traffic.Prometheus.Timezone, err)
		}
	}

	if c.Sizing.GOSTarget <= 0 || c.Sizing.GOSTarget >= 1.0 {
		return fmt.Errorf("gos_target must be between 0 and 1.0, got %v", c.Sizing.GOSTarget)
	}
	if c.Sizing.FixedChannels < 1 {
		return fmt.Errorf("fixed_channels must be at least 1, got %d", c.Sizing.FixedChannels)
	}
	if c.Sizing.MaxChannels < 1 {
		return fmt.Errorf("max_channels must be at least 1, got %d", c.Sizing.MaxChannels)
	}
	for _, b := range c.Sizing.BlockSizes {
		if b < 1 || b > c.Sizing.MaxChannels {
			return fmt.Errorf("block sizes must be between 1 and max_channels (%d), got %d", c.Sizing.MaxChannels, b)
		}
	}
	if len(c.Sizing.BlockSizes) == 0 {
		c.Sizing.BlockSizes = []int{1}
	}

	if c.Simulation.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Simulation.Runs)
	}
	validStrats := map[string]bool{"fixed": true, "dynamic": true, "both": true}
	if !validStrats[c.Simulation.Strategy] {
		return fmt.Errorf("strategy must be fixed, dynamic, or both, got %q", c.Simulation.Strategy)
	}
	validGens := map[string]bool{"pcg": true, "mrg32k3a": true}
	if !validGens[c.Simulation.Generator] {
		return fmt.Errorf("generator must be pcg or mrg32k3a, got %q", c.Simulation.Generator)
	}
	if c.Simulation.Parallelism <= 0 {
		c.Simulation.Parallelism = runtime.NumCPU()
	}

	if c.Scoring.Weights.Energy < 0 || c.Scoring.Weights.Service < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}

	validFormats := map[string]bool{"table": true, "json": true, "markdown": true, "csv": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, markdown, or csv, got %q", c.Output.Format)
	}
	if c.Output.HistogramBins <= 0 {
		c.Output.HistogramBins = 20
	}
	return nil
}
