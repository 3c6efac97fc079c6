package presale

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var q64 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)

// ParsePrice converts a decimal quote-per-base price such as "0.025" into
// its Q64.64 form, rounding down.
func ParsePrice(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if !d.IsPositive() {
		return nil, ErrInvalidPrice
	}
	q, overflow := uint256.FromBig(d.Mul(q64).Floor().BigInt())
	if overflow || q.IsZero() {
		return nil, ErrInvalidPrice
	}
	return q, nil
}

// FormatPrice renders a Q64.64 price as a decimal with the given number of
// fractional digits.
func FormatPrice(q *uint256.Int, places int32) string {
	if q == nil {
		return ""
	}
	return decimal.NewFromBigInt(q.ToBig(), 0).DivRound(q64, places).String()
}
