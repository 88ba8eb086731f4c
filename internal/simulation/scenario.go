package simulation

import (
	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
)

// Strategy selectors accepted by GenerateScenarios.
const (
	StrategyFixed   = "fixed"
	StrategyDynamic = "dynamic"
	StrategyBoth    = "both"
)

// ScenarioSpec holds the traffic and provisioning parameters shared by the
// generated scenarios.
type ScenarioSpec struct {
	DailyAttempts     int
	Profile           model.HourlyProfile
	MeanDurationHours float64

	FixedChannels int
	Target        float64
	BlockSizes    []int
	MaxChannels   int
}

// GenerateScenarios creates simulation scenarios for a strategy.
// For "fixed": one scenario running FixedChannels all day.
// For "dynamic": one resizing scenario per block size (block size 1 is the
// unconstrained search).
// For "both": the fixed scenario first, then the dynamic ones.
func GenerateScenarios(spec ScenarioSpec, strategy string) []Scenario {
	var scenarios []Scenario

	day := func(p Provisioner) DayInput {
		return DayInput{
			DailyAttempts:     spec.DailyAttempts,
			Profile:           spec.Profile,
			MeanDurationHours: spec.MeanDurationHours,
			Provisioner:       p,
		}
	}

	if strategy == StrategyFixed || strategy == StrategyBoth {
		p := FixedProvisioner{N: spec.FixedChannels}
		scenarios = append(scenarios, Scenario{
			Name:     p.Name(),
			Strategy: model.StrategyFixed,
			Input:    day(p),
		})
	}

	if strategy == StrategyDynamic || strategy == StrategyBoth {
		blocks := spec.BlockSizes
		if len(blocks) == 0 {
			blocks = []int{1}
		}
		seen := make(map[int]bool, len(blocks))
		for _, b := range blocks {
			if seen[b] {
				continue
			}
			seen[b] = true
			p := DynamicProvisioner{Sizer: erlang.Sizer{
				Target:      spec.Target,
				BlockSize:   b,
				MaxChannels: spec.MaxChannels,
			}}
			scenarios = append(scenarios, Scenario{
				Name:     p.Name(),
				Strategy: model.StrategyDynamic,
				Input:    day(p),
			})
		}
	}

	return scenarios
}
