package safemath

import (
	"errors"
	"fmt"
)

// ErrArithmetic is the parent of every error returned by this package.
var ErrArithmetic = errors.New("arithmetic error")

var (
	ErrOverflow     = fmt.Errorf("%w: overflow", ErrArithmetic)
	ErrUnderflow    = fmt.Errorf("%w: underflow", ErrArithmetic)
	ErrDivideByZero = fmt.Errorf("%w: divide by zero", ErrArithmetic)
	ErrTypeCast     = fmt.Errorf("%w: type cast loses precision", ErrArithmetic)
)
