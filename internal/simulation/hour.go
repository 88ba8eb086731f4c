package simulation

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
)

// SimulateHour draws one hour of call attempts and returns the share of them
// that were dropped.
//
// Start times are uniform on [0,1) and holding times exponential with the given
// mean (hours). A call is dropped when it would end after the hour boundary or
// when a uniform draw lands above the Erlang-B blocking of the hour's offered
// traffic on the given channels. Occupancy is not tracked: the analytic
// blocking probability stands in for it.
//
// An hour without attempts has a GOS of 0 and consumes no draws.
func SimulateHour(src rand.Source, attempts int, meanDurationHours float64, channels int) (model.HourResult, error) {
	if attempts < 0 {
		return model.HourResult{}, fmt.Errorf("%w: attempts must be non-negative, got %d", erlang.ErrInvalidInput, attempts)
	}
	if !(meanDurationHours > 0) {
		return model.HourResult{}, fmt.Errorf("%w: mean call duration must be positive, got %v", erlang.ErrInvalidInput, meanDurationHours)
	}
	if channels < 1 {
		return model.HourResult{}, fmt.Errorf("%w: channels must be at least 1, got %d", erlang.ErrInvalidInput, channels)
	}

	traffic := model.OfferedTraffic(attempts, meanDurationHours)
	blocking, err := erlang.ErlangB(traffic, channels)
	if err != nil {
		return model.HourResult{}, err
	}

	hr := model.HourResult{
		Attempts:       attempts,
		OfferedTraffic: traffic,
		Channels:       channels,
		AnalyticGOS:    blocking,
	}
	if attempts == 0 {
		return hr, nil
	}

	uniform := distuv.Uniform{Min: 0, Max: 1, Src: src}
	holding := distuv.Exponential{Rate: 1 / meanDurationHours, Src: src}

	starts := make([]float64, attempts)
	for i := range starts {
		starts[i] = uniform.Rand()
	}
	sort.Float64s(starts)

	durations := make([]float64, attempts)
	for i := range durations {
		durations[i] = holding.Rand()
	}

	for i, start := range starts {
		end := start + durations[i]
		overflow := end > 1
		if overflow {
			hr.Overflowed++
		}
		// The blocking draw is taken for every call so the stream position
		// does not depend on earlier outcomes.
		if u := uniform.Rand(); overflow || u > blocking {
			hr.Dropped++
		}
	}

	hr.GOS = float64(hr.Dropped) / float64(attempts)
	return hr, nil
}
