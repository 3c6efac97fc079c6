package safemath

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedOps(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		v, err := Add(1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), v)

		_, err = Add(math.MaxUint64, 1)
		require.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("Sub", func(t *testing.T) {
		v, err := Sub(5, 5)
		require.NoError(t, err)
		assert.Zero(t, v)

		_, err = Sub(4, 5)
		require.ErrorIs(t, err, ErrUnderflow)
	})

	t.Run("Mul", func(t *testing.T) {
		v, err := Mul(1<<32, 1<<31)
		require.NoError(t, err)
		assert.Equal(t, uint64(1)<<63, v)

		_, err = Mul(1<<32, 1<<32)
		require.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("Div", func(t *testing.T) {
		v, err := Div(7, 2)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), v)

		_, err = Div(7, 0)
		require.ErrorIs(t, err, ErrDivideByZero)
	})

	t.Run("errors share a parent", func(t *testing.T) {
		for _, err := range []error{ErrOverflow, ErrUnderflow, ErrDivideByZero, ErrTypeCast} {
			assert.True(t, errors.Is(err, ErrArithmetic), err.Error())
		}
	})
}

func TestMulDiv(t *testing.T) {
	tt := []struct {
		description string
		x, y, d     uint64
		rounding    Rounding
		expected    uint64
		err         error
	}{
		{"exact", 10, 10, 4, RoundDown, 25, nil},
		{"floor", 10, 1, 3, RoundDown, 3, nil},
		{"ceil", 10, 1, 3, RoundUp, 4, nil},
		{"ceil exact stays", 9, 1, 3, RoundUp, 3, nil},
		{"wide intermediate", math.MaxUint64, math.MaxUint64, math.MaxUint64, RoundDown, math.MaxUint64, nil},
		{"narrowing fails", math.MaxUint64, 2, 1, RoundDown, 0, ErrTypeCast},
		{"zero divisor", 1, 1, 0, RoundDown, 0, ErrDivideByZero},
	}

	for _, tc := range tt {
		t.Run(tc.description, func(t *testing.T) {
			got, err := MulDiv(tc.x, tc.y, tc.d, tc.rounding)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestShiftHelpers(t *testing.T) {
	price := new(uint256.Int).Lsh(Wide(5), 64)

	base, err := ShlDiv(7, 64, price, RoundDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), base)

	quote, err := MulShr(base, price, 64, RoundUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), quote)

	half := new(uint256.Int).Lsh(Wide(1), 63)
	up, err := MulShr(3, half, 64, RoundUp)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), up)

	down, err := MulShr(3, half, 64, RoundDown)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), down)

	_, err = ShlDiv(1, 64, new(uint256.Int), RoundDown)
	require.ErrorIs(t, err, ErrDivideByZero)

	_, err = ShlDiv(math.MaxUint64, 64, Wide(1), RoundDown)
	require.ErrorIs(t, err, ErrTypeCast)
}
