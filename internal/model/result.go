package model

import "time"

// HourResult is the outcome of simulating one hour of call attempts.
type HourResult struct {
	Hour           int     `json:"hour"`
	Attempts       int     `json:"attempts"`
	OfferedTraffic float64 `json:"offered_traffic_erlangs"`
	Channels       int     `json:"channels"`
	AnalyticGOS    float64 `json:"analytic_gos"`

	// Dropped counts calls that ran past the end of the hour or failed the
	// blocking draw; Overflowed counts only the former.
	Dropped    int     `json:"dropped"`
	Overflowed int     `json:"overflowed"`
	GOS        float64 `json:"gos"`

	// Unsized is set when no channel count within the search ceiling met the
	// target and the hour ran on the largest searched count instead.
	Unsized bool `json:"unsized,omitempty"`
}

// CompletionRatio returns the share of attempts that were not dropped.
func (hr HourResult) CompletionRatio() float64 {
	if hr.Attempts == 0 {
		return 0
	}
	return float64(hr.Attempts-hr.Dropped) / float64(hr.Attempts)
}

// DayResult aggregates the 24 hourly results of one simulated day.
type DayResult struct {
	Hours      [HoursPerDay]HourResult `json:"hours"`
	AverageGOS float64                 `json:"average_gos"`

	// Energy is the channel-hours provisioned over the day.
	Energy       int `json:"energy_channel_hours"`
	UnsizedHours int `json:"unsized_hours"`
}

// TotalAttempts returns the number of call attempts simulated over the day.
func (dr DayResult) TotalAttempts() int {
	total := 0
	for _, h := range dr.Hours {
		total += h.Attempts
	}
	return total
}

// RunResult is one Monte Carlo repetition.
type RunResult struct {
	Run          int     `json:"run"`
	AverageGOS   float64 `json:"average_gos"`
	Energy       int     `json:"energy_channel_hours"`
	UnsizedHours int     `json:"unsized_hours,omitempty"`
}

// Strategy names how channels are provisioned in a scenario.
type Strategy string

const (
	StrategyFixed   Strategy = "fixed"
	StrategyDynamic Strategy = "dynamic"
)

// ScenarioResult collects every run of one scenario.
type ScenarioResult struct {
	Name      string   `json:"name"`
	Strategy  Strategy `json:"strategy"`
	Channels  int      `json:"channels,omitempty"`   // fixed strategy only
	BlockSize int      `json:"block_size,omitempty"` // dynamic strategy only
	Target    float64  `json:"gos_target,omitempty"`

	Runs     []RunResult   `json:"runs"`
	Duration time.Duration `json:"duration"`
}

// GOSSamples returns the per-run average GOS values in run order.
func (sr ScenarioResult) GOSSamples() []float64 {
	out := make([]float64, len(sr.Runs))
	for i, r := range sr.Runs {
		out[i] = r.AverageGOS
	}
	return out
}

// EnergySamples returns the per-run energy totals in run order.
func (sr ScenarioResult) EnergySamples() []float64 {
	out := make([]float64, len(sr.Runs))
	for i, r := range sr.Runs {
		out[i] = float64(r.Energy)
	}
	return out
}

// UnsizedHours returns the number of hours across all runs that could not be
// sized within the search ceiling.
func (sr ScenarioResult) UnsizedHours() int {
	total := 0
	for _, r := range sr.Runs {
		total += r.UnsizedHours
	}
	return total
}

// Summary holds the scalar statistics of a scenario.
type Summary struct {
	MeanGOS         float64 `json:"mean_gos"`
	StdDevGOS       float64 `json:"stddev_gos"`
	MeanEnergy      float64 `json:"mean_energy"`
	EnergyReduction float64 `json:"energy_reduction_pct"` // versus the fixed baseline
	UnsizedHours    int     `json:"unsized_hours"`
}

// Recommendation is a ranked, summarised scenario.
type Recommendation struct {
	Rank     int            `json:"rank"`
	Scenario ScenarioResult `json:"scenario"`
	Summary  Summary        `json:"summary"`

	// Scores (0-100)
	OverallScore float64 `json:"overall_score"`
	EnergyScore  float64 `json:"energy_score"`
	GOSScore     float64 `json:"gos_score"`

	Rationale string   `json:"rationale"`
	Warnings  []string `json:"warnings,omitempty"`
}

// HourScenarioResult is the distribution of a repeated single-hour simulation.
type HourScenarioResult struct {
	Attempts    int          `json:"attempts"`
	Channels    int          `json:"channels"`
	AnalyticGOS float64      `json:"analytic_gos"`
	Runs        []HourResult `json:"runs"`
}

// GOSSamples returns the empirical GOS of every run.
func (hs HourScenarioResult) GOSSamples() []float64 {
	out := make([]float64, len(hs.Runs))
	for i, r := range hs.Runs {
		out[i] = r.GOS
	}
	return out
}
