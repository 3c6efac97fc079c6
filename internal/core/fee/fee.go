// Package fee computes deposit fees expressed in basis points with an
// optional absolute cap per deposit.
package fee

import (
	"errors"

	"github.com/LeJamon/goPresale/internal/core/safemath"
)

// MaxBps is the basis point denominator.
const MaxBps uint64 = 10_000

// ErrInvalidBps is returned when a fee rate exceeds MaxBps.
var ErrInvalidBps = errors.New("fee bps out of range")

// Included is the result of grossing a net amount up by its fee.
type Included struct {
	Fee   uint64
	Total uint64
}

// Excluded is the result of splitting a gross amount into net and fee.
type Excluded struct {
	Fee uint64
	Net uint64
}

// ValidateBps checks the rate can be used for fee inclusion. A rate of
// MaxBps is rejected because the inclusion denominator would be zero.
func ValidateBps(bps uint16) error {
	if uint64(bps) >= MaxBps {
		return ErrInvalidBps
	}
	return nil
}

// IncludedAmount returns the amount a depositor must send so that amount
// remains after the fee. cap of zero means uncapped.
func IncludedAmount(amount uint64, bps uint16, cap uint64, rounding safemath.Rounding) (Included, error) {
	if uint64(bps) > MaxBps {
		return Included{}, ErrInvalidBps
	}
	denominator := MaxBps - uint64(bps)
	total, err := safemath.MulDiv(amount, MaxBps, denominator, rounding)
	if err != nil {
		return Included{}, err
	}
	fee, err := safemath.Sub(total, amount)
	if err != nil {
		return Included{}, err
	}
	if cap > 0 && fee > cap {
		fee = cap
	}
	total, err = safemath.Add(amount, fee)
	if err != nil {
		return Included{}, err
	}
	return Included{Fee: fee, Total: total}, nil
}

// ExcludedAmount splits gross into the fee charged on it and the remainder.
// With RoundUp it inverts IncludedAmount computed with RoundUp.
func ExcludedAmount(gross uint64, bps uint16, cap uint64, rounding safemath.Rounding) (Excluded, error) {
	if uint64(bps) > MaxBps {
		return Excluded{}, ErrInvalidBps
	}
	fee, err := safemath.MulDiv(gross, uint64(bps), MaxBps, rounding)
	if err != nil {
		return Excluded{}, err
	}
	if cap > 0 && fee > cap {
		fee = cap
	}
	net, err := safemath.Sub(gross, fee)
	if err != nil {
		return Excluded{}, err
	}
	return Excluded{Fee: fee, Net: net}, nil
}
