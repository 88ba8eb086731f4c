package simulation

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
)

// DayInput describes one simulated day.
type DayInput struct {
	DailyAttempts     int
	Profile           model.HourlyProfile
	MeanDurationHours float64
	Provisioner       Provisioner
}

// SimulateDay runs SimulateHour for each hour of the profile, provisioning
// channels hour by hour, and returns the mean hourly GOS and the channel-hours
// spent.
func SimulateDay(src rand.Source, in DayInput) (model.DayResult, error) {
	var dr model.DayResult
	if in.Provisioner == nil {
		return dr, fmt.Errorf("%w: no provisioner", erlang.ErrInvalidInput)
	}
	if in.DailyAttempts < 0 {
		return dr, fmt.Errorf("%w: daily attempts must be non-negative, got %d", erlang.ErrInvalidInput, in.DailyAttempts)
	}
	if err := in.Profile.Validate(); err != nil {
		return dr, err
	}

	attempts := in.Profile.Attempts(in.DailyAttempts)
	gos := make([]float64, model.HoursPerDay)

	for hour := range model.HoursPerDay {
		traffic := model.OfferedTraffic(attempts[hour], in.MeanDurationHours)

		channels, err := in.Provisioner.Channels(hour, traffic)
		unsized := false
		if err != nil {
			if !errors.Is(err, erlang.ErrNotFound) || channels < 1 {
				return dr, fmt.Errorf("provisioning hour %d: %w", hour, err)
			}
			unsized = true
		}

		hr, err := SimulateHour(src, attempts[hour], in.MeanDurationHours, channels)
		if err != nil {
			return dr, fmt.Errorf("simulating hour %d: %w", hour, err)
		}
		hr.Hour = hour
		hr.Unsized = unsized

		dr.Hours[hour] = hr
		dr.Energy += channels
		if unsized {
			dr.UnsizedHours++
		}
		gos[hour] = hr.GOS
	}

	dr.AverageGOS = stat.Mean(gos, nil)
	return dr, nil
}
