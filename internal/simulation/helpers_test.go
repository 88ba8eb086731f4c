package simulation

import (
	"math/rand/v2"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
)

const meanCall = 2.5 / 60

func newSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, 0)
}

// helper to build a day on the default busy-day profile
func makeDay(daily int, p Provisioner) DayInput {
	return DayInput{
		DailyAttempts:     daily,
		Profile:           model.DefaultHourlyProfile,
		MeanDurationHours: meanCall,
		Provisioner:       p,
	}
}

func dynamic(target float64, block int) DynamicProvisioner {
	return DynamicProvisioner{Sizer: erlang.Sizer{
		Target:      target,
		BlockSize:   block,
		MaxChannels: erlang.DefaultMaxChannels,
	}}
}

// helper to build a scenario result from (gos, energy) pairs
func makeScenarioResult(name string, runs ...[2]float64) model.ScenarioResult {
	sr := model.ScenarioResult{Name: name, Strategy: model.StrategyDynamic}
	for i, r := range runs {
		sr.Runs = append(sr.Runs, model.RunResult{Run: i, AverageGOS: r[0], Energy: int(r[1])})
	}
	return sr
}
