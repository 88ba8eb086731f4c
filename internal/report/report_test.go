package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

func sampleRecs() []model.Recommendation {
	fixed := model.ScenarioResult{
		Name:     "fixed-25",
		Strategy: model.StrategyFixed,
		Channels: 25,
		Runs: []model.RunResult{
			{Run: 0, AverageGOS: 0.010, Energy: 600},
			{Run: 1, AverageGOS: 0.012, Energy: 600},
		},
	}
	dynamic := model.ScenarioResult{
		Name:      "dynamic",
		Strategy:  model.StrategyDynamic,
		BlockSize: 1,
		Runs: []model.RunResult{
			{Run: 0, AverageGOS: 0.011, Energy: 320},
			{Run: 1, AverageGOS: 0.013, Energy: 320, UnsizedHours: 1},
		},
	}
	return []model.Recommendation{
		{
			Rank:         1,
			Scenario:     dynamic,
			Summary:      model.Summary{MeanGOS: 0.012, MeanEnergy: 320, EnergyReduction: 46.7, UnsizedHours: 1},
			OverallScore: 90,
			Rationale:    "dynamic: 320 channel-hours/day",
			Warnings:     []string{"1 hours could not meet the GOS target within the channel ceiling"},
		},
		{
			Rank:         2,
			Scenario:     fixed,
			Summary:      model.Summary{MeanGOS: 0.011, MeanEnergy: 600},
			OverallScore: 40,
			Rationale:    "fixed-25: 600 channel-hours/day",
		},
	}
}

func sampleMeta() ReportMeta {
	return ReportMeta{
		ProfileSource:   "built-in",
		DailyAttempts:   4444,
		MeanCallMinutes: 2.5,
		GOSTarget:       0.015,
		Strategy:        "both",
		Runs:            2,
		Seed:            1,
		Generator:       "pcg",
		Baseline:        "fixed-25",
		HistogramBins:   4,
	}
}

func sampleSizing(t *testing.T) SizingReport {
	t.Helper()
	traffic := model.OfferedTraffic(400, 2.5/60)
	curve, err := erlang.Curve(traffic, 30)
	require.NoError(t, err)
	return SizingReport{
		Attempts:        400,
		MeanCallMinutes: 2.5,
		OfferedTraffic:  traffic,
		Target:          0.015,
		MaxChannels:     30,
		Required: []BlockSizing{
			{BlockSize: 1, Channels: 25, GOS: curve[24].GOS, Found: true},
			{BlockSize: 20, Found: false},
		},
		Curve: curve,
	}
}

func sampleHour() HourReport {
	return HourReport{
		Result: model.HourScenarioResult{
			Attempts:    400,
			Channels:    25,
			AnalyticGOS: 0.0134,
			Runs: []model.HourResult{
				{Attempts: 400, Channels: 25, Dropped: 6, Overflowed: 1, GOS: 0.015},
				{Attempts: 400, Channels: 25, Dropped: 4, Overflowed: 3, GOS: 0.010},
			},
		},
		MeanCallMinutes: 2.5,
		Runs:            2,
		Seed:            1,
		Generator:       "pcg",
		HistogramBins:   5,
	}
}

func TestNewReporter(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &TableReporter{}, NewReporter("table", &buf))
	assert.IsType(t, &JSONReporter{}, NewReporter("json", &buf))
	assert.IsType(t, &MarkdownReporter{}, NewReporter("markdown", &buf))
	assert.IsType(t, &CSVReporter{}, NewReporter("csv", &buf))
	assert.IsType(t, &TableReporter{}, NewReporter("", &buf))
}

func TestTableReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("table", &buf).Report(context.Background(), sampleRecs(), sampleMeta()))

	out := buf.String()
	assert.Contains(t, out, "Provisioning Comparison")
	assert.Contains(t, out, "Recommended: dynamic")
	assert.Contains(t, out, "baseline")
	assert.Contains(t, out, "[1 unsized hours]")
	assert.Contains(t, out, "Average GOS distribution: fixed-25")
	assert.Contains(t, out, "#")
}

func TestTableReporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("table", &buf).Report(context.Background(), nil, sampleMeta()))
	assert.Contains(t, buf.String(), "No results available.")
}

func TestTableReporter_Sizing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("table", &buf).ReportSizing(context.Background(), sampleSizing(t)))

	out := buf.String()
	assert.Contains(t, out, "16.667 E")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "GOS curve")
	// Channels 25..30 meet the target.
	assert.Equal(t, 6, strings.Count(out, " *\n"))
}

func TestTableReporter_Hour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("table", &buf).ReportHour(context.Background(), sampleHour()))

	out := buf.String()
	assert.Contains(t, out, "Busy-Hour Simulation")
	assert.Contains(t, out, "Mean GOS:        0.012500")
	assert.Contains(t, out, "Mean overflowed: 2.0 calls")
}

func TestJSONReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("json", &buf).Report(context.Background(), sampleRecs(), sampleMeta()))

	var got jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Recommendations, 2)
	assert.Equal(t, "dynamic", got.Recommendations[0].Scenario)
	assert.Equal(t, "fixed", got.Recommendations[1].Strategy)
	assert.Equal(t, 25, got.Recommendations[1].Channels)
	assert.Equal(t, "fixed-25", got.Meta.Baseline)

	total := 0
	for _, b := range got.Recommendations[0].Histogram {
		total += b.Count
	}
	assert.Equal(t, 2, total)
}

func TestJSONReporter_Hour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("json", &buf).ReportHour(context.Background(), sampleHour()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.InDelta(t, 0.0125, got["mean_gos"], 1e-12)
	assert.Equal(t, 25.0, got["channels"])
	assert.Contains(t, got, "histogram")
}

func TestJSONReporter_Sizing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("json", &buf).ReportSizing(context.Background(), sampleSizing(t)))

	var got SizingReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Curve, 30)
	assert.Equal(t, 25, got.Required[0].Channels)
	assert.False(t, got.Required[1].Found)
}

func TestMarkdownReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter("markdown", &buf)
	require.NoError(t, r.Report(context.Background(), sampleRecs(), sampleMeta()))
	require.NoError(t, r.ReportSizing(context.Background(), sampleSizing(t)))
	require.NoError(t, r.ReportHour(context.Background(), sampleHour()))

	out := buf.String()
	assert.Contains(t, out, "| 2 | fixed-25 (baseline) |")
	assert.Contains(t, out, "## Recommended: dynamic")
	assert.Contains(t, out, "| 20 | - | not found |")
	assert.Contains(t, out, "| Analytic GOS | 0.013400 |")
	assert.Contains(t, out, "```")
}

func TestCSVReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("csv", &buf).Report(context.Background(), sampleRecs(), sampleMeta()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "rank", rows[0][0])
	assert.Equal(t, "dynamic", rows[1][1])
	assert.Equal(t, "320", rows[1][7])
	assert.Equal(t, "25", rows[2][3])
}

func TestCSVReporter_SizingAndHour(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter("csv", &buf).ReportSizing(context.Background(), sampleSizing(t)))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 31)
	assert.Equal(t, []string{"24", rows[24][1], "false"}, rows[24])
	assert.Equal(t, "true", rows[25][2])

	buf.Reset()
	require.NoError(t, NewReporter("csv", &buf).ReportHour(context.Background(), sampleHour()))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "400", "25", "4", "3", "0.01", "0"}, rows[2])
}

func TestWriteHistogram_ScalesToPeak(t *testing.T) {
	var buf bytes.Buffer
	writeHistogram(&buf, sampleHistogram(), "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], strings.Repeat("#", barWidth)))
	assert.True(t, strings.HasSuffix(lines[1], " ."))
	assert.True(t, strings.HasSuffix(lines[2], " 0"))
}

func sampleHistogram() []stats.Bin {
	return []stats.Bin{
		{Lo: 0, Hi: 1, Count: 100},
		{Lo: 1, Hi: 2, Count: 1},
		{Lo: 2, Hi: 3, Count: 0},
	}
}
