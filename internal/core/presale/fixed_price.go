package presale

import (
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/holiman/uint256"
)

// fixedPriceHandler sells base at a constant Q64.64 quote-per-base price.
type fixedPriceHandler struct{}

func (fixedPriceHandler) sealed() {}

func (fixedPriceHandler) Mode() SaleMode { return ModeFixedPrice }

func (fixedPriceHandler) RemainingDepositQuota(p *Presale, t *Tranche, e *Escrow) (uint64, error) {
	return cappedHeadroom(p, t, e), nil
}

// AdjustDepositAmount drops the quote that cannot buy a whole base unit.
func (fixedPriceHandler) AdjustDepositAmount(p *Presale, net uint64) (uint64, error) {
	base, err := BaseForQuote(p.qPrice, net)
	if err != nil {
		return 0, err
	}
	if base == 0 {
		return 0, ErrZeroTokenAmount
	}
	return QuoteForBase(p.qPrice, base)
}

// MaybeCompleteOnCap ends the sale once the headroom left under the cap
// cannot buy one more base unit.
func (fixedPriceHandler) MaybeCompleteOnCap(p *Presale, now uint64) (bool, error) {
	unit, err := QuoteForBase(p.qPrice, 1)
	if err != nil {
		return false, err
	}
	return completeWithin(p, now, unit-1)
}

func (fixedPriceHandler) CanWithdraw(p *Presale) bool { return !p.disableWithdraw }

func (fixedPriceHandler) TrancheBaseSold(p *Presale, t *Tranche) (uint64, error) {
	return BaseForQuote(p.qPrice, t.totalDeposit)
}

func (fixedPriceHandler) CreatorQuote(p *Presale) uint64 { return p.totalDeposit }

func (fixedPriceHandler) OverflowQuote(*Presale) uint64 { return 0 }

// buyableCap is the largest quote amount not above maxCap that buys whole
// base units without surplus.
func buyableCap(qPrice *uint256.Int, maxCap uint64) (uint64, error) {
	base, err := BaseForQuote(qPrice, maxCap)
	if err != nil {
		return 0, err
	}
	return QuoteForBase(qPrice, base)
}

// BaseForQuote returns floor((quote << 64) / qPrice).
func BaseForQuote(qPrice *uint256.Int, quote uint64) (uint64, error) {
	if qPrice == nil || qPrice.IsZero() {
		return 0, ErrInvalidPrice
	}
	return safemath.ShlDiv(quote, 64, qPrice, safemath.RoundDown)
}

// QuoteForBase returns ceil((base * qPrice) >> 64), the quote needed to buy
// base without surplus.
func QuoteForBase(qPrice *uint256.Int, base uint64) (uint64, error) {
	if qPrice == nil || qPrice.IsZero() {
		return 0, ErrInvalidPrice
	}
	return safemath.MulShr(base, qPrice, 64, safemath.RoundUp)
}

// PriceToQ64 converts a whole quote-per-base price to Q64.64.
func PriceToQ64(price uint64) *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(price), 64)
}
