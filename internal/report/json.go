package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

// JSONReporter outputs results as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonRecommendation struct {
	Rank         int           `json:"rank"`
	Scenario     string        `json:"scenario"`
	Strategy     string        `json:"strategy"`
	Channels     int           `json:"channels,omitempty"`
	BlockSize    int           `json:"block_size,omitempty"`
	Summary      model.Summary `json:"summary"`
	OverallScore float64       `json:"overall_score"`
	EnergyScore  float64       `json:"energy_score"`
	GOSScore     float64       `json:"gos_score"`
	Rationale    string        `json:"rationale"`
	Warnings     []string      `json:"warnings,omitempty"`
	Histogram    []stats.Bin   `json:"gos_histogram"`
}

type jsonOutput struct {
	Meta            ReportMeta           `json:"meta"`
	Recommendations []jsonRecommendation `json:"recommendations"`
}

func (r *JSONReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	output := jsonOutput{
		Meta:            meta,
		Recommendations: make([]jsonRecommendation, len(recs)),
	}
	for i, rec := range recs {
		output.Recommendations[i] = jsonRecommendation{
			Rank:         rec.Rank,
			Scenario:     rec.Scenario.Name,
			Strategy:     string(rec.Scenario.Strategy),
			Channels:     rec.Scenario.Channels,
			BlockSize:    rec.Scenario.BlockSize,
			Summary:      rec.Summary,
			OverallScore: rec.OverallScore,
			EnergyScore:  rec.EnergyScore,
			GOSScore:     rec.GOSScore,
			Rationale:    rec.Rationale,
			Warnings:     rec.Warnings,
			Histogram:    stats.Histogram(rec.Scenario.GOSSamples(), bins(meta.HistogramBins)),
		}
	}
	return r.encode(output)
}

func (r *JSONReporter) ReportSizing(ctx context.Context, s SizingReport) error {
	return r.encode(s)
}

type jsonHour struct {
	Attempts        int     `json:"attempts"`
	Channels        int     `json:"channels"`
	MeanCallMinutes float64 `json:"mean_call_minutes"`
	AnalyticGOS     float64 `json:"analytic_gos"`
	Runs            int     `json:"runs"`
	Seed            uint64  `json:"seed"`
	Generator       string  `json:"generator"`
	hourSummary
}

func (r *JSONReporter) ReportHour(ctx context.Context, h HourReport) error {
	return r.encode(jsonHour{
		Attempts:        h.Result.Attempts,
		Channels:        h.Result.Channels,
		MeanCallMinutes: h.MeanCallMinutes,
		AnalyticGOS:     h.Result.AnalyticGOS,
		Runs:            h.Runs,
		Seed:            h.Seed,
		Generator:       h.Generator,
		hourSummary:     summarizeHour(h),
	})
}

func (r *JSONReporter) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
