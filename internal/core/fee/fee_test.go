package fee

import (
	"math/rand"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludedAmount(t *testing.T) {
	tt := []struct {
		description string
		amount      uint64
		bps         uint16
		cap         uint64
		rounding    safemath.Rounding
		fee, total  uint64
	}{
		{"zero rate", 1000, 0, 0, safemath.RoundUp, 0, 1000},
		{"one percent exact", 9900, 100, 0, safemath.RoundUp, 100, 10000},
		{"one percent rounds up", 1000, 100, 0, safemath.RoundUp, 11, 1011},
		{"one percent rounds down", 1000, 100, 0, safemath.RoundDown, 10, 1010},
		{"capped", 1_000_000, 500, 7, safemath.RoundUp, 7, 1_000_007},
		{"cap above fee is inert", 1000, 100, 50, safemath.RoundUp, 11, 1011},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			got, err := IncludedAmount(tc.amount, tc.bps, tc.cap, tc.rounding)
			require.NoError(t, err)
			assert.Equal(t, tc.fee, got.Fee)
			assert.Equal(t, tc.total, got.Total)
		})
	}
}

func TestIncludedAmountErrors(t *testing.T) {
	_, err := IncludedAmount(10, 10_001, 0, safemath.RoundUp)
	require.ErrorIs(t, err, ErrInvalidBps)

	_, err = IncludedAmount(10, 10_000, 0, safemath.RoundUp)
	require.ErrorIs(t, err, safemath.ErrDivideByZero)

	require.ErrorIs(t, ValidateBps(10_000), ErrInvalidBps)
	require.NoError(t, ValidateBps(9_999))
}

func TestExcludedAmount(t *testing.T) {
	got, err := ExcludedAmount(1011, 100, 0, safemath.RoundUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), got.Fee)
	assert.Equal(t, uint64(1000), got.Net)

	got, err = ExcludedAmount(1011, 100, 0, safemath.RoundDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), got.Fee)
	assert.Equal(t, uint64(1001), got.Net)

	got, err = ExcludedAmount(1_000_007, 500, 7, safemath.RoundUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.Fee)
	assert.Equal(t, uint64(1_000_000), got.Net)
}

func TestFeeReciprocity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	check := func(amount uint64, bps uint16, cap uint64) {
		in, err := IncludedAmount(amount, bps, cap, safemath.RoundUp)
		require.NoError(t, err)
		out, err := ExcludedAmount(in.Total, bps, cap, safemath.RoundUp)
		require.NoError(t, err)
		require.Equal(t, amount, out.Net, "amount=%d bps=%d cap=%d", amount, bps, cap)
		require.Equal(t, in.Fee, out.Fee, "amount=%d bps=%d cap=%d", amount, bps, cap)
	}

	for bps := uint16(0); bps <= 1000; bps += 25 {
		for _, amount := range []uint64{1, 2, 3, 99, 100, 101, 9_999, 1_000_000_000_000} {
			check(amount, bps, 0)
			check(amount, bps, 1)
			check(amount, bps, 1_000)
		}
	}
	for i := 0; i < 2000; i++ {
		amount := uint64(rng.Int63n(1_000_000_000_000)) + 1
		bps := uint16(rng.Intn(1001))
		cap := uint64(0)
		if i%2 == 0 {
			cap = uint64(rng.Int63n(10_000))
		}
		check(amount, bps, cap)
	}
}

func TestFeeCap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		amount := uint64(rng.Int63n(1_000_000_000_000)) + 1
		bps := uint16(rng.Intn(10_000))
		cap := uint64(rng.Int63n(1_000)) + 1
		got, err := IncludedAmount(amount, bps, cap, safemath.RoundUp)
		require.NoError(t, err)
		require.LessOrEqual(t, got.Fee, cap)
		require.Equal(t, amount+got.Fee, got.Total)
	}
}

func TestIncludeOfExcludeNeverExceedsGross(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		gross := uint64(rng.Int63n(1_000_000_000)) + 1
		bps := uint16(rng.Intn(2_000))
		cap := uint64(0)
		if i%3 == 0 {
			cap = uint64(rng.Int63n(500)) + 1
		}
		ex, err := ExcludedAmount(gross, bps, cap, safemath.RoundUp)
		require.NoError(t, err)
		in, err := IncludedAmount(ex.Net, bps, cap, safemath.RoundUp)
		require.NoError(t, err)
		require.LessOrEqual(t, in.Total, gross)
	}
}
