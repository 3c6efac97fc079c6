package presale

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/safemath"
)

// ModeHandler is the per-mode policy applied on top of the shared ledger.
// The set of implementations is closed; HandlerFor is the only constructor.
type ModeHandler interface {
	Mode() SaleMode

	// RemainingDepositQuota is the net quote e may still deposit into t.
	RemainingDepositQuota(p *Presale, t *Tranche, e *Escrow) (uint64, error)
	// AdjustDepositAmount trims a net deposit to what the mode can consume.
	AdjustDepositAmount(p *Presale, net uint64) (uint64, error)
	// MaybeCompleteOnCap ends the sale at now when the cap is reached.
	MaybeCompleteOnCap(p *Presale, now uint64) (bool, error)
	CanWithdraw(p *Presale) bool

	// TrancheBaseSold is the base allocated to the depositors of t.
	TrancheBaseSold(p *Presale, t *Tranche) (uint64, error)
	// CreatorQuote is the raised quote the owner may withdraw.
	CreatorQuote(p *Presale) uint64
	// OverflowQuote is the quote raised above the cap owed back to depositors.
	OverflowQuote(p *Presale) uint64

	sealed()
}

// HandlerFor returns the strategy for mode.
func HandlerFor(mode SaleMode) (ModeHandler, error) {
	switch mode {
	case ModeFixedPrice:
		return fixedPriceHandler{}, nil
	case ModeProrata:
		return prorataHandler{}, nil
	case ModeFcfs:
		return fcfsHandler{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownSaleMode, mode)
}

func (p *Presale) handler() ModeHandler {
	h, err := HandlerFor(p.mode)
	if err != nil {
		// Modes are validated before a sale exists.
		panic(err)
	}
	return h
}

// personalHeadroom is the deposit still allowed by the escrow's own cap.
func personalHeadroom(t *Tranche, e *Escrow) uint64 {
	limit := t.personalCap(e)
	if e.totalDeposit >= limit {
		return 0
	}
	return limit - e.totalDeposit
}

// cappedHeadroom is the lesser of the sale and personal headroom.
func cappedHeadroom(p *Presale, t *Tranche, e *Escrow) uint64 {
	var global uint64
	if p.totalDeposit < p.maximumCap {
		global = p.maximumCap - p.totalDeposit
	}
	return safemath.Min(global, personalHeadroom(t, e))
}

// completeOnCap is shared by the modes that may end early.
func completeOnCap(p *Presale, now uint64) (bool, error) {
	return completeWithin(p, now, 0)
}

// completeWithin ends the sale once total deposits are within slack of the
// maximum cap.
func completeWithin(p *Presale, now, slack uint64) (bool, error) {
	if p.disableEarlierEnd {
		return false, nil
	}
	if p.totalDeposit < p.maximumCap && p.maximumCap-p.totalDeposit > slack {
		return false, nil
	}
	if p.Progress(now) != ProgressOngoing {
		return false, nil
	}
	if err := p.completeEarly(now); err != nil {
		return false, err
	}
	return true, nil
}

// supplyIfSold allocates the whole tranche supply once anyone deposited.
func supplyIfSold(t *Tranche) uint64 {
	if t.totalDeposit == 0 {
		return 0
	}
	return t.config.Supply
}
