package presale

import "github.com/LeJamon/goPresale/internal/core/safemath"

// counterDelta is one counter adjusted by a batch update.
type counterDelta struct {
	field  *uint64
	amount uint64
}

// addAll applies every increment or none of them.
func addAll(deltas ...counterDelta) error {
	next := make([]uint64, len(deltas))
	for i, d := range deltas {
		v, err := safemath.Add(*d.field, d.amount)
		if err != nil {
			return err
		}
		next[i] = v
	}
	for i, d := range deltas {
		*d.field = next[i]
	}
	return nil
}

// subAll applies every decrement or none of them.
func subAll(deltas ...counterDelta) error {
	next := make([]uint64, len(deltas))
	for i, d := range deltas {
		v, err := safemath.Sub(*d.field, d.amount)
		if err != nil {
			return err
		}
		next[i] = v
	}
	for i, d := range deltas {
		*d.field = next[i]
	}
	return nil
}

func (p *Presale) trancheOf(e *Escrow) (*Tranche, error) {
	if e.sale != p.id {
		return nil, ErrSaleMismatch
	}
	return p.Tranche(e.trancheIndex)
}

func (p *Presale) registerEscrow(t *Tranche) error {
	return addAll(
		counterDelta{&t.escrowCount, 1},
		counterDelta{&p.escrowCount, 1},
	)
}

func (p *Presale) unregisterEscrow(t *Tranche) error {
	return subAll(
		counterDelta{&t.escrowCount, 1},
		counterDelta{&p.escrowCount, 1},
	)
}

func (p *Presale) recordDeposit(t *Tranche, e *Escrow, net, fee uint64) error {
	return addAll(
		counterDelta{&e.totalDeposit, net},
		counterDelta{&e.totalDepositFee, fee},
		counterDelta{&t.totalDeposit, net},
		counterDelta{&t.totalDepositFee, fee},
		counterDelta{&p.totalDeposit, net},
		counterDelta{&p.totalDepositFee, fee},
	)
}

func (p *Presale) recordWithdraw(t *Tranche, e *Escrow, net, fee uint64) error {
	if net > e.totalDeposit || fee > e.totalDepositFee {
		return ErrWithdrawExceedsDeposit
	}
	return subAll(
		counterDelta{&e.totalDeposit, net},
		counterDelta{&e.totalDepositFee, fee},
		counterDelta{&t.totalDeposit, net},
		counterDelta{&t.totalDepositFee, fee},
		counterDelta{&p.totalDeposit, net},
		counterDelta{&p.totalDepositFee, fee},
	)
}

func (p *Presale) recordClaim(t *Tranche, e *Escrow, amount uint64) error {
	if amount > e.pendingClaim {
		return safemath.ErrUnderflow
	}
	err := addAll(
		counterDelta{&e.totalClaimed, amount},
		counterDelta{&t.totalClaimed, amount},
		counterDelta{&p.totalClaimed, amount},
	)
	if err != nil {
		return err
	}
	e.pendingClaim -= amount
	return nil
}

func (p *Presale) recordRefund(t *Tranche, e *Escrow, r Refund) error {
	return addAll(
		counterDelta{&e.refundedQuote, r.Quote},
		counterDelta{&e.refundedFee, r.Fee},
		counterDelta{&t.totalRefundedQuote, r.Quote},
		counterDelta{&t.totalRefundedFee, r.Fee},
		counterDelta{&p.totalRefundedQuote, r.Quote},
		counterDelta{&p.totalRefundedFee, r.Fee},
	)
}

// Refund is quote owed back to a participant, split into deposit and the
// deposit fee charged on it.
type Refund struct {
	Quote uint64 `json:"quote"`
	Fee   uint64 `json:"fee"`
}

// Total is the amount moved out of the quote vault.
func (r Refund) Total() (uint64, error) {
	return safemath.Add(r.Quote, r.Fee)
}

func (r Refund) IsZero() bool {
	return r.Quote == 0 && r.Fee == 0
}

// mulDivOrZero is the refund split ratio. A bucket that never received a
// deposit refunds nothing.
func mulDivOrZero(x, y, d uint64) (uint64, error) {
	if d == 0 {
		return 0, nil
	}
	return safemath.MulDiv(x, y, d, safemath.RoundDown)
}

// trancheOverflow returns the part of overflow quote and fee attributed to t.
func (p *Presale) trancheOverflow(t *Tranche, overflow uint64) (Refund, error) {
	quote, err := mulDivOrZero(overflow, t.totalDeposit, p.totalDeposit)
	if err != nil {
		return Refund{}, err
	}
	fee, err := mulDivOrZero(t.totalDepositFee, overflow, p.totalDeposit)
	if err != nil {
		return Refund{}, err
	}
	return Refund{Quote: quote, Fee: fee}, nil
}

// overflowRefund splits the quote raised above the maximum cap across
// tranches by deposit share and then across the escrows of the tranche.
// Rounding is always down so the vault covers every escrow.
func (p *Presale) overflowRefund(t *Tranche, e *Escrow, overflow uint64) (Refund, error) {
	if overflow == 0 {
		return Refund{}, nil
	}
	share, err := p.trancheOverflow(t, overflow)
	if err != nil {
		return Refund{}, err
	}
	quote, err := mulDivOrZero(share.Quote, e.totalDeposit, t.totalDeposit)
	if err != nil {
		return Refund{}, err
	}
	fee, err := mulDivOrZero(share.Fee, e.totalDeposit, t.totalDeposit)
	if err != nil {
		return Refund{}, err
	}
	return Refund{Quote: quote, Fee: fee}, nil
}

// overflowFeeReserved is the fee held back for overflow refunds.
func (p *Presale) overflowFeeReserved(overflow uint64) (uint64, error) {
	if overflow == 0 {
		return 0, nil
	}
	var total uint64
	for _, t := range p.Tranches() {
		share, err := p.trancheOverflow(t, overflow)
		if err != nil {
			return 0, err
		}
		if total, err = safemath.Add(total, share.Fee); err != nil {
			return 0, err
		}
	}
	return total, nil
}
