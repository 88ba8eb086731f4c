package erlang

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedForm evaluates (A^N/N!) / sum(A^i/i!) directly; only safe for small N.
func closedForm(a float64, n int) float64 {
	term := 1.0
	sum := 1.0
	for i := 1; i <= n; i++ {
		term *= a / float64(i)
		sum += term
	}
	return term / sum
}

func TestErlangB_MatchesClosedForm(t *testing.T) {
	for _, a := range []float64{0.1, 1, 2.5, 16.6667, 40} {
		for n := 0; n <= 30; n++ {
			got, err := ErlangB(a, n)
			require.NoError(t, err)
			assert.InDelta(t, closedForm(a, n), got, 1e-12, "A=%v N=%d", a, n)
		}
	}
}

func TestErlangB_ZeroChannelsBlocksEverything(t *testing.T) {
	for _, a := range []float64{0, 0.5, 10, 1e6} {
		got, err := ErlangB(a, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got, "A=%v", a)
	}
}

func TestErlangB_ZeroTraffic(t *testing.T) {
	got, err := ErlangB(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestErlangB_RangeAndMonotonic(t *testing.T) {
	for _, a := range []float64{0.01, 1, 16.6667, 100, 900} {
		prev := 1.0
		for n := 0; n <= 400; n++ {
			b, err := ErlangB(a, n)
			require.NoError(t, err)
			require.GreaterOrEqual(t, b, 0.0)
			require.LessOrEqual(t, b, 1.0)
			require.LessOrEqual(t, b, prev, "not monotone at A=%v N=%d", a, n)
			prev = b
		}
	}
}

func TestErlangB_LargeChannelCountsStayFinite(t *testing.T) {
	// The factorial form overflows float64 well before these counts.
	b, err := ErlangB(180, 200)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(b) || math.IsInf(b, 0))
	assert.Greater(t, b, 0.0)
	assert.Less(t, b, 0.05)

	b, err = ErlangB(900, 1000)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(b))
}

func TestErlangB_InvalidInput(t *testing.T) {
	cases := []struct {
		name     string
		traffic  float64
		channels int
	}{
		{"negative traffic", -1, 3},
		{"negative channels", 2, -1},
		{"NaN traffic", math.NaN(), 3},
		{"infinite traffic", math.Inf(1), 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ErlangB(tc.traffic, tc.channels)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCurve(t *testing.T) {
	points, err := Curve(400*2.5/60, 50)
	require.NoError(t, err)
	require.Len(t, points, 50)

	for i, p := range points {
		assert.Equal(t, i+1, p.Channels)
		want, _ := ErlangB(400*2.5/60, p.Channels)
		assert.InDelta(t, want, p.GOS, 1e-15)
	}

	_, err = Curve(1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
