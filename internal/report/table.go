package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

// TableReporter outputs results as formatted terminal tables.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	// Header
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "trunkfit Provisioning Comparison\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Profile:     %s\n", meta.ProfileSource)
	fmt.Fprintf(r.w, "Traffic:     %d attempts/day, %.2f min mean call\n", meta.DailyAttempts, meta.MeanCallMinutes)
	fmt.Fprintf(r.w, "GOS target:  %g\n", meta.GOSTarget)
	fmt.Fprintf(r.w, "Runs:        %d (%s, seed %d)\n", meta.Runs, meta.Generator, meta.Seed)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "No results available.\n")
		return nil
	}

	// Column headers
	fmt.Fprintf(r.w, "%-4s %-20s %9s %9s %10s %8s %6s %s\n",
		"Rank", "Scenario", "Mean GOS", "Std GOS", "Energy", "Saved", "Score", "Notes")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 90))

	for _, rec := range recs {
		sm := rec.Summary
		name := rec.Scenario.Name
		if len(name) > 20 {
			name = name[:17] + "..."
		}

		notes := ""
		if rec.Scenario.Name == meta.Baseline {
			notes = "baseline"
		}
		if sm.UnsizedHours > 0 {
			notes += fmt.Sprintf(" [%d unsized hours]", sm.UnsizedHours)
		}

		fmt.Fprintf(r.w, "#%-3d %-20s %9.5f %9.5f %10.1f %7.1f%% %6.1f %s\n",
			rec.Rank,
			name,
			sm.MeanGOS,
			sm.StdDevGOS,
			sm.MeanEnergy,
			sm.EnergyReduction,
			rec.OverallScore,
			strings.TrimSpace(notes),
		)
	}

	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 90))

	// Top recommendation detail
	top := recs[0]
	fmt.Fprintf(r.w, "\nRecommended: %s\n", top.Scenario.Name)
	fmt.Fprintf(r.w, "  %s\n", top.Rationale)
	fmt.Fprintf(r.w, "  Energy score:   %.1f\n", top.EnergyScore)
	fmt.Fprintf(r.w, "  Service score:  %.1f\n", top.GOSScore)

	if len(top.Warnings) > 0 {
		fmt.Fprintf(r.w, "\n  Warnings:\n")
		for _, w := range top.Warnings {
			fmt.Fprintf(r.w, "    - %s\n", w)
		}
	}

	for _, rec := range recs {
		fmt.Fprintf(r.w, "\nAverage GOS distribution: %s\n", rec.Scenario.Name)
		writeHistogram(r.w, stats.Histogram(rec.Scenario.GOSSamples(), bins(meta.HistogramBins)), "  ")
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}

func (r *TableReporter) ReportSizing(ctx context.Context, s SizingReport) error {
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "trunkfit Channel Sizing\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Attempts:    %d per hour, %.2f min mean call\n", s.Attempts, s.MeanCallMinutes)
	fmt.Fprintf(r.w, "Traffic:     %.3f E\n", s.OfferedTraffic)
	fmt.Fprintf(r.w, "GOS target:  %g (ceiling %d channels)\n", s.Target, s.MaxChannels)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(r.w, "%-6s %9s %10s\n", "Block", "Channels", "GOS")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 27))
	for _, b := range s.Required {
		if !b.Found {
			fmt.Fprintf(r.w, "%-6d %9s %10s\n", b.BlockSize, "-", "not found")
			continue
		}
		fmt.Fprintf(r.w, "%-6d %9d %10.6f\n", b.BlockSize, b.Channels, b.GOS)
	}

	if len(s.Curve) > 0 {
		fmt.Fprintf(r.w, "\nGOS curve\n")
		fmt.Fprintf(r.w, "%-9s %10s\n", "Channels", "GOS")
		fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 20))
		for _, p := range s.Curve {
			mark := ""
			if p.GOS <= s.Target {
				mark = " *"
			}
			fmt.Fprintf(r.w, "%-9d %10.6f%s\n", p.Channels, p.GOS, mark)
		}
	}

	fmt.Fprintf(r.w, "\n")
	return nil
}

func (r *TableReporter) ReportHour(ctx context.Context, h HourReport) error {
	s := summarizeHour(h)

	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "trunkfit Busy-Hour Simulation\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Attempts:      %d, %.2f min mean call (%.3f E)\n",
		h.Result.Attempts, h.MeanCallMinutes, s.OfferedTraffic)
	fmt.Fprintf(r.w, "Channels:      %d\n", h.Result.Channels)
	fmt.Fprintf(r.w, "Runs:          %d (%s, seed %d)\n", h.Runs, h.Generator, h.Seed)
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(r.w, "  Analytic GOS:    %.6f\n", h.Result.AnalyticGOS)
	fmt.Fprintf(r.w, "  Mean GOS:        %.6f\n", s.MeanGOS)
	fmt.Fprintf(r.w, "  Std dev:         %.6f\n", s.StdDevGOS)
	fmt.Fprintf(r.w, "  Range:           %.6f - %.6f\n", s.MinGOS, s.MaxGOS)
	fmt.Fprintf(r.w, "  Mean overflowed: %.1f calls\n", s.Overflowed)

	fmt.Fprintf(r.w, "\nGOS distribution\n")
	writeHistogram(r.w, s.Histogram, "  ")
	fmt.Fprintf(r.w, "\n")
	return nil
}
