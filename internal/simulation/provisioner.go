package simulation

import (
	"errors"
	"fmt"

	"github.com/guimove/trunkfit/internal/erlang"
)

// Provisioner decides how many channels are active in a given hour.
type Provisioner interface {
	// Channels returns the channel count for the hour. A provisioner that
	// cannot meet its target returns an error wrapping erlang.ErrNotFound
	// along with the count to fall back on.
	Channels(hour int, traffic float64) (int, error)

	// Name returns a short label for reports.
	Name() string
}

// FixedProvisioner keeps the same channel count all day.
type FixedProvisioner struct {
	N int
}

func (p FixedProvisioner) Channels(int, float64) (int, error) {
	if p.N < 1 {
		return 0, fmt.Errorf("%w: fixed channel count must be at least 1, got %d", erlang.ErrInvalidInput, p.N)
	}
	return p.N, nil
}

func (p FixedProvisioner) Name() string {
	return fmt.Sprintf("fixed-%d", p.N)
}

// DynamicProvisioner resizes every hour to the smallest count that meets the
// sizer's target.
type DynamicProvisioner struct {
	Sizer erlang.Sizer
}

func (p DynamicProvisioner) Channels(_ int, traffic float64) (int, error) {
	n, err := p.Sizer.Size(traffic)
	if errors.Is(err, erlang.ErrNotFound) {
		return p.Sizer.Largest(), err
	}
	return n, err
}

func (p DynamicProvisioner) Name() string {
	block := p.Sizer.BlockSize
	if block <= 1 {
		return "dynamic"
	}
	return fmt.Sprintf("dynamic-block-%d", block)
}
