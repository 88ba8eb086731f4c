// Package erlang implements the Erlang-B loss formula and the channel sizing
// searches built on top of it.
package erlang

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("no channel count meets the target")
)

// ErlangB returns the blocking probability of an M/M/N/N loss system offered
// traffic erlangs on the given number of channels.
//
// It evaluates B(A,n) = A*B(A,n-1) / (n + A*B(A,n-1)) with B(A,0) = 1, which is
// the closed form (A^N/N!) / sum(A^i/i!) without the factorials. B(A,0) is 1 for
// every A, zero traffic included.
func ErlangB(traffic float64, channels int) (float64, error) {
	if err := checkTraffic(traffic); err != nil {
		return 0, err
	}
	if channels < 0 {
		return 0, fmt.Errorf("%w: channels must be non-negative, got %d", ErrInvalidInput, channels)
	}

	b := 1.0
	for n := 1; n <= channels; n++ {
		b = step(traffic, n, b)
	}
	return b, nil
}

// CurvePoint is one sample of the GOS-versus-channels curve.
type CurvePoint struct {
	Channels int     `json:"channels"`
	GOS      float64 `json:"gos"`
}

// Curve returns B(traffic, n) for n = 1..maxChannels.
func Curve(traffic float64, maxChannels int) ([]CurvePoint, error) {
	if err := checkTraffic(traffic); err != nil {
		return nil, err
	}
	if maxChannels < 1 {
		return nil, fmt.Errorf("%w: max channels must be positive, got %d", ErrInvalidInput, maxChannels)
	}

	points := make([]CurvePoint, maxChannels)
	b := 1.0
	for n := 1; n <= maxChannels; n++ {
		b = step(traffic, n, b)
		points[n-1] = CurvePoint{Channels: n, GOS: b}
	}
	return points, nil
}

func step(traffic float64, n int, prev float64) float64 {
	ab := traffic * prev
	return ab / (float64(n) + ab)
}

func checkTraffic(traffic float64) error {
	if math.IsNaN(traffic) || math.IsInf(traffic, 0) || traffic < 0 {
		return fmt.Errorf("%w: traffic must be a finite non-negative value, got %v", ErrInvalidInput, traffic)
	}
	return nil
}
