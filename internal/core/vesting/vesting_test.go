package vesting

import (
	"math"
	"math/rand"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCumulativeClaimableBoundary(t *testing.T) {
	s := Schedule{VestStart: 1000, VestDuration: 100}

	tt := []struct {
		now      uint64
		expected uint64
	}{
		{0, 0},
		{999, 0},
		{1000, 0},
		{1050, 125},
		{1100, 250},
		{5000, 250},
	}

	for _, tc := range tt {
		got, err := CumulativeClaimable(s, 1000, tc.now, 50, 200)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "now=%d", tc.now)
	}
}

func TestCumulativeClaimableImmediate(t *testing.T) {
	s := Schedule{
		ImmediateBps:       2_000,
		ImmediateReleaseAt: 500,
		VestStart:          1000,
		VestDuration:       100,
	}

	// 200 of 1000 is released at 500, the remaining 800 drips.
	tt := []struct {
		now      uint64
		expected uint64
	}{
		{499, 0},
		{500, 50},
		{1000, 50},
		{1050, 150},
		{1100, 250},
	}

	for _, tc := range tt {
		got, err := CumulativeClaimable(s, 1000, tc.now, 50, 200)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, got, "now=%d", tc.now)
	}
}

func TestCumulativeClaimableEdges(t *testing.T) {
	t.Run("no deposit", func(t *testing.T) {
		got, err := CumulativeClaimable(Schedule{}, 1000, 10, 0, 200)
		require.NoError(t, err)
		assert.Zero(t, got)

		got, err = CumulativeClaimable(Schedule{}, 1000, 10, 5, 0)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("zero duration releases at start", func(t *testing.T) {
		s := Schedule{VestStart: 100}
		got, err := CumulativeClaimable(s, 1000, 99, 1, 1)
		require.NoError(t, err)
		assert.Zero(t, got)

		got, err = CumulativeClaimable(s, 1000, 100, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), got)
	})

	t.Run("wide products do not overflow", func(t *testing.T) {
		s := Schedule{VestStart: 0, VestDuration: math.MaxUint64}
		got, err := CumulativeClaimable(s, math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), got)
	})

	t.Run("share above pool fails narrowing", func(t *testing.T) {
		s := Schedule{VestStart: 0}
		_, err := CumulativeClaimable(s, math.MaxUint64, 1, 2, 1)
		require.ErrorIs(t, err, safemath.ErrTypeCast)
	})
}

func TestCumulativeClaimableMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		s := Schedule{
			ImmediateBps:       uint16(rng.Intn(10_001)),
			ImmediateReleaseAt: uint64(rng.Intn(2_000)),
			VestStart:          uint64(rng.Intn(2_000)),
			VestDuration:       uint64(rng.Intn(1_000)),
		}
		total := uint64(rng.Int63n(1_000_000_000))
		tranche := uint64(rng.Int63n(1_000_000)) + 1
		user := uint64(rng.Int63n(int64(tranche))) + 1

		var prev uint64
		for now := uint64(0); now < 4_000; now += uint64(rng.Intn(37)) + 1 {
			got, err := CumulativeClaimable(s, total, now, user, tranche)
			require.NoError(t, err)
			require.GreaterOrEqual(t, got, prev)
			prev = got
		}
	}
}
