// Package vesting computes how much of a participant's allocation has
// unlocked at a given time.
package vesting

import (
	"github.com/LeJamon/goPresale/internal/core/fee"
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/holiman/uint256"
)

// Schedule describes the release curve of a sale. ImmediateBps of the pool
// unlocks at ImmediateReleaseAt; the rest drips linearly from VestStart over
// VestDuration seconds.
type Schedule struct {
	ImmediateBps       uint16
	ImmediateReleaseAt uint64
	VestStart          uint64
	VestDuration       uint64
}

// CumulativeClaimable returns the total base a participant holding
// userDeposit out of trancheDeposit may have claimed by now. The result is
// non-decreasing in now.
func CumulativeClaimable(s Schedule, totalSold, now, userDeposit, trancheDeposit uint64) (uint64, error) {
	if userDeposit == 0 || trancheDeposit == 0 {
		return 0, nil
	}

	immediate, err := safemath.MulDiv(totalSold, uint64(s.ImmediateBps), fee.MaxBps, safemath.RoundDown)
	if err != nil {
		return 0, err
	}
	pool, err := safemath.Sub(totalSold, immediate)
	if err != nil {
		return 0, err
	}

	var userImmediate uint64
	if now >= s.ImmediateReleaseAt {
		userImmediate, err = safemath.MulDiv(immediate, userDeposit, trancheDeposit, safemath.RoundDown)
		if err != nil {
			return 0, err
		}
	}

	dripped, err := drip(pool, s.VestStart, s.VestDuration, now)
	if err != nil {
		return 0, err
	}
	userDripped, err := safemath.MulDivWide(dripped, safemath.Wide(userDeposit), safemath.Wide(trancheDeposit), safemath.RoundDown)
	if err != nil {
		return 0, err
	}
	narrowed, err := safemath.Narrow(userDripped)
	if err != nil {
		return 0, err
	}
	return safemath.Add(userImmediate, narrowed)
}

// drip returns the portion of pool unlocked linearly at now.
func drip(pool, start, duration, now uint64) (*uint256.Int, error) {
	if now < start {
		return new(uint256.Int), nil
	}
	if duration == 0 {
		return safemath.Wide(pool), nil
	}
	elapsed := safemath.Min(now-start, duration)
	return safemath.MulDivWide(safemath.Wide(pool), safemath.Wide(elapsed), safemath.Wide(duration), safemath.RoundDown)
}
