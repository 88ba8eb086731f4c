package model

import (
	"errors"
	"fmt"
	"math"
)

// HoursPerDay is the length of a daily traffic profile.
const HoursPerDay = 24

// profileSumTolerance absorbs rounding in hand-entered profiles.
const profileSumTolerance = 1e-3

var ErrInvalidProfile = errors.New("invalid hourly profile")

// HourlyProfile holds the fraction of daily call attempts that falls in each
// hour of the day.
type HourlyProfile [HoursPerDay]float64

// DefaultHourlyProfile is the busy-day profile of a suburban cell site.
var DefaultHourlyProfile = HourlyProfile{
	0.0009, 0.0005, 0.0004, 0.0004, 0.0008, 0.0044,
	0.0168, 0.051, 0.0813, 0.0884, 0.0743, 0.0695,
	0.0866, 0.0881, 0.09, 0.0848, 0.0721, 0.068,
	0.047, 0.0406, 0.0183, 0.0095, 0.0043, 0.002,
}

// NewHourlyProfile builds a validated profile from a slice of exactly 24 fractions.
func NewHourlyProfile(fractions []float64) (HourlyProfile, error) {
	var p HourlyProfile
	if len(fractions) != HoursPerDay {
		return p, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidProfile, HoursPerDay, len(fractions))
	}
	copy(p[:], fractions)
	if err := p.Validate(); err != nil {
		return HourlyProfile{}, err
	}
	return p, nil
}

// Validate checks that every fraction is a non-negative number and that the
// fractions add up to one.
func (p HourlyProfile) Validate() error {
	for h, f := range p {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("%w: hour %d has fraction %v", ErrInvalidProfile, h, f)
		}
	}
	if sum := p.Sum(); math.Abs(sum-1) > profileSumTolerance {
		return fmt.Errorf("%w: fractions sum to %v, want 1", ErrInvalidProfile, sum)
	}
	return nil
}

// Sum returns the total of all hourly fractions.
func (p HourlyProfile) Sum() float64 {
	var sum float64
	for _, f := range p {
		sum += f
	}
	return sum
}

// Attempts splits a daily attempt count across the hours, rounding each hour down.
func (p HourlyProfile) Attempts(daily int) [HoursPerDay]int {
	var out [HoursPerDay]int
	for h, f := range p {
		out[h] = int(math.Floor(float64(daily) * f))
	}
	return out
}

// BusyHour returns the hour with the largest fraction.
func (p HourlyProfile) BusyHour() int {
	busy := 0
	for h, f := range p {
		if f > p[busy] {
			busy = h
		}
	}
	return busy
}

// OfferedTraffic returns the load in erlangs of attempts calls per hour with
// the given mean holding time in hours.
func OfferedTraffic(attemptsPerHour int, meanDurationHours float64) float64 {
	return float64(attemptsPerHour) * meanDurationHours
}
