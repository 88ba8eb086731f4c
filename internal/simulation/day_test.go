package simulation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guimove/trunkfit/internal/erlang"
	"github.com/guimove/trunkfit/internal/model"
)

func TestSimulateDay_Fixed(t *testing.T) {
	dr, err := SimulateDay(newSource(1), makeDay(4444, FixedProvisioner{N: 25}))
	require.NoError(t, err)

	assert.Equal(t, 24*25, dr.Energy)
	assert.Equal(t, 0, dr.UnsizedHours)
	assert.Equal(t, 4430, dr.TotalAttempts())

	var sum float64
	for h, hr := range dr.Hours {
		assert.Equal(t, h, hr.Hour)
		assert.Equal(t, 25, hr.Channels)
		sum += hr.GOS
	}
	assert.InDelta(t, sum/24, dr.AverageGOS, 1e-12)
}

func TestSimulateDay_DynamicEnergy(t *testing.T) {
	dr, err := SimulateDay(newSource(2), makeDay(4444, dynamic(0.015, 1)))
	require.NoError(t, err)

	total := 0
	for _, hr := range dr.Hours {
		want, err := erlang.RequiredChannels(hr.OfferedTraffic, 0.015, erlang.DefaultMaxChannels)
		require.NoError(t, err)
		assert.Equal(t, want, hr.Channels, "hour %d", hr.Hour)
		total += hr.Channels
	}
	assert.Equal(t, total, dr.Energy)
	assert.Equal(t, 320, dr.Energy)
	assert.GreaterOrEqual(t, dr.Energy, 24)
	assert.LessOrEqual(t, dr.Energy, 24*erlang.DefaultMaxChannels)
}

func TestSimulateDay_BlockSizes(t *testing.T) {
	want := map[int]int{1: 320, 2: 328, 5: 370, 10: 460}
	for block, energy := range want {
		dr, err := SimulateDay(newSource(3), makeDay(4444, dynamic(0.015, block)))
		require.NoError(t, err)
		assert.Equal(t, energy, dr.Energy, "block %d", block)
		for _, hr := range dr.Hours {
			assert.Zero(t, hr.Channels%block, "block %d hour %d", block, hr.Hour)
		}
	}
}

func TestSimulateDay_UnsizedHours(t *testing.T) {
	// The busy hours offer ~170 E, far beyond what 50 channels can carry.
	dr, err := SimulateDay(newSource(4), makeDay(44440, dynamic(0.01, 1)))
	require.NoError(t, err)

	assert.Greater(t, dr.UnsizedHours, 0)
	assert.LessOrEqual(t, dr.Energy, 24*erlang.DefaultMaxChannels)
	for _, hr := range dr.Hours {
		if hr.Unsized {
			assert.Equal(t, erlang.DefaultMaxChannels, hr.Channels)
		}
	}
}

func TestSimulateDay_ZeroAttempts(t *testing.T) {
	dr, err := SimulateDay(newSource(5), makeDay(0, dynamic(0.01, 1)))
	require.NoError(t, err)
	assert.Equal(t, 0.0, dr.AverageGOS)
	assert.Equal(t, 24, dr.Energy)
}

func TestSimulateDay_InvalidInput(t *testing.T) {
	_, err := SimulateDay(newSource(1), makeDay(100, nil))
	assert.ErrorIs(t, err, erlang.ErrInvalidInput)

	_, err = SimulateDay(newSource(1), makeDay(-1, FixedProvisioner{N: 5}))
	assert.ErrorIs(t, err, erlang.ErrInvalidInput)

	_, err = SimulateDay(newSource(1), makeDay(100, FixedProvisioner{N: 0}))
	assert.ErrorIs(t, err, erlang.ErrInvalidInput)

	in := makeDay(100, FixedProvisioner{N: 5})
	in.Profile = model.HourlyProfile{}
	_, err = SimulateDay(newSource(1), in)
	assert.True(t, errors.Is(err, model.ErrInvalidProfile))
}

func TestProvisionerNames(t *testing.T) {
	assert.Equal(t, "fixed-25", FixedProvisioner{N: 25}.Name())
	assert.Equal(t, "dynamic", dynamic(0.01, 1).Name())
	assert.Equal(t, "dynamic-block-5", dynamic(0.01, 5).Name())
}

func TestDynamicProvisioner_FallsBackOnCeiling(t *testing.T) {
	n, err := dynamic(0.01, 10).Channels(0, 500)
	assert.ErrorIs(t, err, erlang.ErrNotFound)
	assert.Equal(t, 50, n)
}
