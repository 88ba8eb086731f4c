// Package stats provides the sample statistics reported for Monte Carlo runs.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean of samples, or 0 for an empty slice.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return stat.Mean(samples, nil)
}

// StdDev returns the sample standard deviation, or 0 with fewer than two samples.
func StdDev(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	return stat.StdDev(samples, nil)
}

// Bin is one equal-width histogram bucket covering [Lo, Hi).
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram buckets samples into the given number of equal-width bins spanning
// their range. The last bin is closed so the maximum is counted. A sample whose
// values are all equal yields a single bin.
func Histogram(samples []float64, bins int) []Bin {
	if len(samples) == 0 || bins < 1 {
		return nil
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	lo, hi := floats.Min(sorted), floats.Max(sorted)
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(sorted)}}
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram wants every sample strictly below the last divider.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Hi = hi
	return out
}

// PercentChange returns how much smaller value is than baseline, in percent.
// A zero baseline yields 0.
func PercentChange(baseline, value float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - value) / baseline * 100
}
