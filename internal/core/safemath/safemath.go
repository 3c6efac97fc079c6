// Package safemath provides checked unsigned arithmetic. Every helper fails
// with an ErrArithmetic instead of wrapping, saturating or truncating.
package safemath

import (
	"math/bits"

	"github.com/holiman/uint256"
)

// Rounding selects how an inexact quotient is resolved.
type Rounding uint8

const (
	RoundDown Rounding = iota
	RoundUp
)

func (r Rounding) String() string {
	if r == RoundUp {
		return "up"
	}
	return "down"
}

func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// Wide lifts v into the 256-bit domain.
func Wide(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

// Narrow converts z back to uint64, failing if any high bits are set.
func Narrow(z *uint256.Int) (uint64, error) {
	if !z.IsUint64() {
		return 0, ErrTypeCast
	}
	return z.Uint64(), nil
}

// MulDivWide computes x*y/d in the 256-bit domain.
func MulDivWide(x, y, d *uint256.Int, r Rounding) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	prod, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	quo, rem := new(uint256.Int), new(uint256.Int)
	quo.DivMod(prod, d, rem)
	if r == RoundUp && !rem.IsZero() {
		if _, overflow := quo.AddOverflow(quo, uint256.NewInt(1)); overflow {
			return nil, ErrOverflow
		}
	}
	return quo, nil
}

// MulDiv computes x*y/d without intermediate overflow and narrows the result.
func MulDiv(x, y, d uint64, r Rounding) (uint64, error) {
	q, err := MulDivWide(Wide(x), Wide(y), Wide(d), r)
	if err != nil {
		return 0, err
	}
	return Narrow(q)
}

// ShlDiv computes (x << shift) / d. It is the Q64 "amount over price" form.
func ShlDiv(x uint64, shift uint, d *uint256.Int, r Rounding) (uint64, error) {
	if shift > 128 {
		return 0, ErrOverflow
	}
	num := new(uint256.Int).Lsh(Wide(x), shift)
	q, err := MulDivWide(num, Wide(1), d, r)
	if err != nil {
		return 0, err
	}
	return Narrow(q)
}

// MulShr computes (x * y) >> shift. RoundUp adds one when any shifted-out
// bit was set.
func MulShr(x uint64, y *uint256.Int, shift uint, r Rounding) (uint64, error) {
	prod, overflow := new(uint256.Int).MulOverflow(Wide(x), y)
	if overflow {
		return 0, ErrOverflow
	}
	q := new(uint256.Int).Rsh(prod, shift)
	if r == RoundUp {
		back := new(uint256.Int).Lsh(q, shift)
		if !back.Eq(prod) {
			q.AddUint64(q, 1)
		}
	}
	return Narrow(q)
}
