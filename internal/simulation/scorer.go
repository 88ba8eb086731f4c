package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/guimove/trunkfit/internal/model"
	"github.com/guimove/trunkfit/internal/stats"
)

const (
	// GOSDriftTolerance is the absolute GOS gap to the baseline at which the
	// service score reaches zero.
	GOSDriftTolerance = 0.05

	// HighVariationRatio flags scenarios whose run-to-run GOS spread is large
	// compared to the mean.
	HighVariationRatio = 0.25
)

// ScoringWeights sets the relative importance of energy savings and of
// staying close to the baseline grade of service.
type ScoringWeights struct {
	Energy  float64
	Service float64
}

// DefaultScoringWeights returns the default scoring weights.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Energy: 0.6, Service: 0.4}
}

// Scorer summarises scenario results and ranks them.
type Scorer struct {
	Weights ScoringWeights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights ScoringWeights) *Scorer {
	return &Scorer{Weights: weights}
}

// Summarize computes the scalar statistics of a scenario. Energy reduction is
// measured against baseline when it is non-nil.
func Summarize(r model.ScenarioResult, baseline *model.ScenarioResult) model.Summary {
	gos := r.GOSSamples()
	s := model.Summary{
		MeanGOS:      stats.Mean(gos),
		StdDevGOS:    stats.StdDev(gos),
		MeanEnergy:   stats.Mean(r.EnergySamples()),
		UnsizedHours: r.UnsizedHours(),
	}
	if baseline != nil {
		s.EnergyReduction = stats.PercentChange(stats.Mean(baseline.EnergySamples()), s.MeanEnergy)
	}
	return s
}

// RankResults scores and ranks a set of scenario results.
// If baseline is non-nil, energy and GOS are compared against it.
func (s *Scorer) RankResults(results []model.ScenarioResult, baseline *model.ScenarioResult) []model.Recommendation {
	if len(results) == 0 {
		return nil
	}

	summaries := make([]model.Summary, len(results))
	for i, r := range results {
		summaries[i] = Summarize(r, baseline)
	}

	// Find energy bounds for normalization
	minEnergy, maxEnergy := summaries[0].MeanEnergy, summaries[0].MeanEnergy
	for _, sm := range summaries[1:] {
		minEnergy = math.Min(minEnergy, sm.MeanEnergy)
		maxEnergy = math.Max(maxEnergy, sm.MeanEnergy)
	}

	refGOS := math.NaN()
	if baseline != nil {
		refGOS = stats.Mean(baseline.GOSSamples())
	}

	recs := make([]model.Recommendation, len(results))
	for i, r := range results {
		recs[i] = s.score(r, summaries[i], refGOS, minEnergy, maxEnergy)
	}

	// Sort by overall score descending
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].OverallScore > recs[j].OverallScore
	})

	for i := range recs {
		recs[i].Rank = i + 1
	}

	return recs
}

func (s *Scorer) score(
	r model.ScenarioResult,
	sm model.Summary,
	refGOS float64,
	minEnergy, maxEnergy float64,
) model.Recommendation {
	rec := model.Recommendation{
		Scenario: r,
		Summary:  sm,
	}

	// Energy score: 100 = fewest channel-hours, 0 = most
	if energyRange := maxEnergy - minEnergy; energyRange > 0 {
		rec.EnergyScore = (1.0 - (sm.MeanEnergy-minEnergy)/energyRange) * 100
	} else {
		rec.EnergyScore = 100
	}

	// Service score: 100 = same mean GOS as the baseline
	rec.GOSScore = 100
	if !math.IsNaN(refGOS) {
		drift := math.Abs(sm.MeanGOS - refGOS)
		rec.GOSScore = math.Max(0, 1-drift/GOSDriftTolerance) * 100
	}

	// Hours run past the sizing ceiling did not meet the target
	if sm.UnsizedHours > 0 && len(r.Runs) > 0 {
		perRun := float64(sm.UnsizedHours) / float64(len(r.Runs))
		rec.GOSScore = math.Max(0, rec.GOSScore-math.Min(perRun*10, 50))
	}

	rec.OverallScore = s.Weights.Energy*rec.EnergyScore + s.Weights.Service*rec.GOSScore
	rec.Rationale = generateRationale(rec)
	rec.Warnings = generateWarnings(rec, refGOS)
	return rec
}

func generateRationale(rec model.Recommendation) string {
	sm := rec.Summary
	rationale := fmt.Sprintf("%s: %.0f channel-hours/day, mean GOS %.4f",
		rec.Scenario.Name, sm.MeanEnergy, sm.MeanGOS)

	if sm.EnergyReduction > 0 {
		rationale += fmt.Sprintf(" (%.1f%% less energy)", sm.EnergyReduction)
	}
	return rationale
}

func generateWarnings(rec model.Recommendation, refGOS float64) []string {
	var warnings []string
	sm := rec.Summary

	if sm.UnsizedHours > 0 {
		warnings = append(warnings,
			fmt.Sprintf("%d hours could not meet the GOS target within the channel ceiling", sm.UnsizedHours))
	}

	if !math.IsNaN(refGOS) && math.Abs(sm.MeanGOS-refGOS) > GOSDriftTolerance {
		warnings = append(warnings,
			fmt.Sprintf("Mean GOS %.4f drifts from the fixed baseline %.4f", sm.MeanGOS, refGOS))
	}

	if sm.MeanGOS > 0 && sm.StdDevGOS/sm.MeanGOS > HighVariationRatio {
		warnings = append(warnings, "High run-to-run GOS variation; consider more runs")
	}

	if sm.EnergyReduction < 0 {
		warnings = append(warnings,
			fmt.Sprintf("Uses %.1f%% more energy than the fixed baseline", -sm.EnergyReduction))
	}

	return warnings
}
