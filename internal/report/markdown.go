package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

// MarkdownReporter outputs results as Markdown tables.
type MarkdownReporter struct {
	w io.Writer
}

func (r *MarkdownReporter) Report(ctx context.Context, recs []model.Recommendation, meta ReportMeta) error {
	fmt.Fprintf(r.w, "# trunkfit Provisioning Comparison\n\n")
	fmt.Fprintf(r.w, "- **Profile:** %s\n", meta.ProfileSource)
	fmt.Fprintf(r.w, "- **Traffic:** %d attempts/day, %.2f min mean call\n", meta.DailyAttempts, meta.MeanCallMinutes)
	fmt.Fprintf(r.w, "- **GOS target:** %g\n", meta.GOSTarget)
	fmt.Fprintf(r.w, "- **Runs:** %d (%s, seed %d)\n\n", meta.Runs, meta.Generator, meta.Seed)

	if len(recs) == 0 {
		fmt.Fprintf(r.w, "_No results available._\n")
		return nil
	}

	fmt.Fprintf(r.w, "| Rank | Scenario | Mean GOS | Std GOS | Energy | Saved | Score |\n")
	fmt.Fprintf(r.w, "|-----:|----------|---------:|--------:|-------:|------:|------:|\n")
	for _, rec := range recs {
		sm := rec.Summary
		name := rec.Scenario.Name
		if name == meta.Baseline {
			name += " (baseline)"
		}
		fmt.Fprintf(r.w, "| %d | %s | %.5f | %.5f | %.1f | %.1f%% | %.1f |\n",
			rec.Rank, name, sm.MeanGOS, sm.StdDevGOS, sm.MeanEnergy, sm.EnergyReduction, rec.OverallScore)
	}

	top := recs[0]
	fmt.Fprintf(r.w, "\n## Recommended: %s\n\n%s\n", top.Scenario.Name, top.Rationale)
	if len(top.Warnings) > 0 {
		fmt.Fprintf(r.w, "\n**Warnings:**\n\n")
		for _, w := range top.Warnings {
			fmt.Fprintf(r.w, "- %s\n", w)
		}
	}

	for _, rec := range recs {
		fmt.Fprintf(r.w, "\n### Average GOS distribution: %s\n\n```\n", rec.Scenario.Name)
		writeHistogram(r.w, stats.Histogram(rec.Scenario.GOSSamples(), bins(meta.HistogramBins)), "")
		fmt.Fprintf(r.w, "```\n")
	}
	return nil
}

func (r *MarkdownReporter) ReportSizing(ctx context.Context, s SizingReport) error {
	fmt.Fprintf(r.w, "# trunkfit Channel Sizing\n\n")
	fmt.Fprintf(r.w, "- **Attempts:** %d per hour, %.2f min mean call\n", s.Attempts, s.MeanCallMinutes)
	fmt.Fprintf(r.w, "- **Traffic:** %.3f E\n", s.OfferedTraffic)
	fmt.Fprintf(r.w, "- **GOS target:** %g (ceiling %d channels)\n\n", s.Target, s.MaxChannels)

	fmt.Fprintf(r.w, "| Block | Channels | GOS |\n")
	fmt.Fprintf(r.w, "|------:|---------:|----:|\n")
	for _, b := range s.Required {
		if !b.Found {
			fmt.Fprintf(r.w, "| %d | - | not found |\n", b.BlockSize)
			continue
		}
		fmt.Fprintf(r.w, "| %d | %d | %.6f |\n", b.BlockSize, b.Channels, b.GOS)
	}

	if len(s.Curve) > 0 {
		fmt.Fprintf(r.w, "\n## GOS curve\n\n")
		fmt.Fprintf(r.w, "| Channels | GOS | Meets target |\n")
		fmt.Fprintf(r.w, "|---------:|----:|:------------:|\n")
		for _, p := range s.Curve {
			meets := ""
			if p.GOS <= s.Target {
				meets = "yes"
			}
			fmt.Fprintf(r.w, "| %d | %.6f | %s |\n", p.Channels, p.GOS, meets)
		}
	}
	return nil
}

func (r *MarkdownReporter) ReportHour(ctx context.Context, h HourReport) error {
	s := summarizeHour(h)

	fmt.Fprintf(r.w, "# trunkfit Busy-Hour Simulation\n\n")
	fmt.Fprintf(r.w, "| Parameter | Value |\n")
	fmt.Fprintf(r.w, "|-----------|------:|\n")
	rows := [][2]string{
		{"Attempts", fmt.Sprint(h.Result.Attempts)},
		{"Offered traffic (E)", fmt.Sprintf("%.3f", s.OfferedTraffic)},
		{"Channels", fmt.Sprint(h.Result.Channels)},
		{"Runs", fmt.Sprint(h.Runs)},
		{"Analytic GOS", fmt.Sprintf("%.6f", h.Result.AnalyticGOS)},
		{"Mean GOS", fmt.Sprintf("%.6f", s.MeanGOS)},
		{"Std dev", fmt.Sprintf("%.6f", s.StdDevGOS)},
		{"Mean overflowed", fmt.Sprintf("%.1f", s.Overflowed)},
	}
	for _, row := range rows {
		fmt.Fprintf(r.w, "| %s | %s |\n", row[0], row[1])
	}

	fmt.Fprintf(r.w, "\n## GOS distribution\n\n```\n%s```\n", histogramString(s.Histogram))
	return nil
}

func histogramString(hist []stats.Bin) string {
	var sb strings.Builder
	writeHistogram(&sb, hist, "")
	return sb.String()
}
