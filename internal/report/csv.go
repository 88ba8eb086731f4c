package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/guimove/trunkfit/internal/model"
)

// CSVReporter outputs one CSV table per report, for spreadsheets and plotting.
type CSVReporter struct {
	w io.Writer
}

func (r *CSVReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	rows := [][]string{{
		"rank", "scenario", "strategy", "channels", "block_size",
		"mean_gos", "stddev_gos", "mean_energy", "energy_reduction_pct", "unsized_hours", "overall_score",
	}}
	for _, rec := range recs {
		sm := rec.Summary
		rows = append(rows, []string{
			strconv.Itoa(rec.Rank),
			rec.Scenario.Name,
			string(rec.Scenario.Strategy),
			strconv.Itoa(rec.Scenario.Channels),
			strconv.Itoa(rec.Scenario.BlockSize),
			formatFloat(sm.MeanGOS),
			formatFloat(sm.StdDevGOS),
			formatFloat(sm.MeanEnergy),
			formatFloat(sm.EnergyReduction),
			strconv.Itoa(sm.UnsizedHours),
			formatFloat(rec.OverallScore),
		})
	}
	return r.write(rows)
}

// ReportSizing writes the GOS curve. Required counts follow from the
// meets_target column.
func (r *CSVReporter) ReportSizing(ctx context.Context, s SizingReport) error {
	rows := [][]string{{"channels", "gos", "meets_target"}}
	for _, p := range s.Curve {
		rows = append(rows, []string{
			strconv.Itoa(p.Channels),
			formatFloat(p.GOS),
			strconv.FormatBool(p.GOS <= s.Target),
		})
	}
	return r.write(rows)
}

// ReportHour writes one row per run.
func (r *CSVReporter) ReportHour(ctx context.Context, h HourReport) error {
	rows := [][]string{{"run", "attempts", "channels", "dropped", "overflowed", "gos", "analytic_gos"}}
	for i, run := range h.Result.Runs {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(run.Attempts),
			strconv.Itoa(run.Channels),
			strconv.Itoa(run.Dropped),
			strconv.Itoa(run.Overflowed),
			formatFloat(run.GOS),
			formatFloat(run.AnalyticGOS),
		})
	}
	return r.write(rows)
}

func (r *CSVReporter) write(rows [][]string) error {
	cw := csv.NewWriter(r.w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV output: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
