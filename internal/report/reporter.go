package report

import (
	"context"
	"io"
	"time"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

// Reporter formats and writes results to an output destination.
type Reporter interface {
	// Report writes ranked day-scenario results.
	Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error

	// ReportSizing writes the channel requirements for one hour of traffic.
	ReportSizing(ctx context.Context, sizing SizingReport) error

	// ReportHour writes the distribution of a repeated busy-hour simulation.
	ReportHour(ctx context.Context, hour HourReport) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	ProfileSource   string    `json:"profile_source"`
	DailyAttempts   int       `json:"daily_attempts"`
	MeanCallMinutes float64   `json:"mean_call_minutes"`
	GOSTarget       float64   `json:"gos_target"`
	Strategy        string    `json:"strategy"`
	Runs            int       `json:"runs"`
	Seed            uint64    `json:"seed"`
	Generator       string    `json:"generator"`
	Baseline        string    `json:"baseline,omitempty"` // scenario energy reductions refer to
	GeneratedAt     time.Time `json:"generated_at"`

	HistogramBins int `json:"-"`
}

// BlockSizing is the sizing result for one block size.
type BlockSizing struct {
	BlockSize int     `json:"block_size"`
	Channels  int     `json:"channels"`
	GOS       float64 `json:"gos"`
	Found     bool    `json:"found"`
}

// SizingReport describes the channel requirements for one hour of traffic.
type SizingReport struct {
	Attempts        int                 `json:"attempts"`
	MeanCallMinutes float64             `json:"mean_call_minutes"`
	OfferedTraffic  float64             `json:"offered_traffic_erlangs"`
	Target          float64             `json:"gos_target"`
	MaxChannels     int                 `json:"max_channels"`
	Required        []BlockSizing       `json:"required"`
	Curve           []erlang.CurvePoint `json:"curve"`
}

// HourReport wraps a repeated busy-hour simulation with its parameters.
type HourReport struct {
	Result          model.HourScenarioResult `json:"result"`
	MeanCallMinutes float64                  `json:"mean_call_minutes"`
	Runs            int                      `json:"runs"`
	Seed            uint64                   `json:"seed"`
	Generator       string                   `json:"generator"`
	HistogramBins   int                      `json:"-"`
}

// hourSummary holds the statistics shared by every hour report format.
type hourSummary struct {
	OfferedTraffic float64     `json:"offered_traffic_erlangs"`
	MeanGOS        float64     `json:"mean_gos"`
	StdDevGOS      float64     `json:"stddev_gos"`
	MinGOS         float64     `json:"min_gos"`
	MaxGOS         float64     `json:"max_gos"`
	Overflowed     float64     `json:"mean_overflowed"`
	Histogram      []stats.Bin `json:"histogram"`
}

func summarizeHour(h HourReport) hourSummary {
	samples := h.Result.GOSSamples()
	s := hourSummary{
		OfferedTraffic: model.OfferedTraffic(h.Result.Attempts, h.MeanCallMinutes/60),
		MeanGOS:        stats.Mean(samples),
		StdDevGOS:      stats.StdDev(samples),
		Histogram:      stats.Histogram(samples, bins(h.HistogramBins)),
	}
	if len(samples) > 0 {
		s.MinGOS, s.MaxGOS = samples[0], samples[0]
		for _, g := range samples[1:] {
			s.MinGOS = min(s.MinGOS, g)
			s.MaxGOS = max(s.MaxGOS, g)
		}
	}
	overflowed := make([]float64, len(h.Result.Runs))
	for i, r := range h.Result.Runs {
		overflowed[i] = float64(r.Overflowed)
	}
	s.Overflowed = stats.Mean(overflowed)
	return s
}

func bins(n int) int {
	if n <= 0 {
		return 20
	}
	return n
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "markdown":
		return &MarkdownReporter{w: w}
	case "csv":
		return &CSVReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
