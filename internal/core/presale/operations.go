package presale

import (
	"github.com/LeJamon/goPresale/internal/core/fee"
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/LeJamon/goPresale/internal/core/vesting"
)

// OpenEscrow creates the escrow of owner in tranche idx. A zero depositCap
// leaves the tranche maximum as the only personal limit.
func (p *Presale) OpenEscrow(owner AccountID, idx uint8, depositCap, now uint64) (*Escrow, error) {
	if p.Progress(now).Ended() {
		return nil, ErrInvalidProgress
	}
	t, err := p.Tranche(idx)
	if err != nil {
		return nil, err
	}
	if depositCap > 0 && depositCap < t.config.BuyerMinDeposit {
		return nil, ErrInvalidDepositCap
	}
	if err := p.registerEscrow(t); err != nil {
		return nil, err
	}
	return &Escrow{
		sale:         p.id,
		owner:        owner,
		trancheIndex: idx,
		depositCap:   depositCap,
		createdAt:    now,
	}, nil
}

// DepositPlan sizes a deposit before any value moves. Gross is what the
// depositor sends, Net is credited to the escrow and Fee is kept by the sale.
type DepositPlan struct {
	Net   uint64 `json:"net"`
	Fee   uint64 `json:"fee"`
	Gross uint64 `json:"gross"`
}

// PlanDeposit sizes a deposit of at most maxAmount, fee included.
func (p *Presale) PlanDeposit(e *Escrow, maxAmount, now uint64) (DepositPlan, error) {
	if p.Progress(now) != ProgressOngoing {
		return DepositPlan{}, ErrInvalidProgress
	}
	if maxAmount == 0 {
		return DepositPlan{}, ErrZeroAmount
	}
	t, err := p.trancheOf(e)
	if err != nil {
		return DepositPlan{}, err
	}
	cfg := t.config
	h := p.handler()

	excluded, err := fee.ExcludedAmount(maxAmount, cfg.DepositFeeBps, cfg.DepositFeeCap, safemath.RoundUp)
	if err != nil {
		return DepositPlan{}, err
	}
	quota, err := h.RemainingDepositQuota(p, t, e)
	if err != nil {
		return DepositPlan{}, err
	}
	if quota == 0 {
		return DepositPlan{}, ErrDepositQuotaExhausted
	}
	net := safemath.Min(excluded.Net, quota)
	if net == 0 {
		return DepositPlan{}, ErrZeroAmount
	}
	if net, err = h.AdjustDepositAmount(p, net); err != nil {
		return DepositPlan{}, err
	}
	after, err := safemath.Add(e.totalDeposit, net)
	if err != nil {
		return DepositPlan{}, err
	}
	if after < cfg.BuyerMinDeposit {
		return DepositPlan{}, ErrDepositBelowMinimum
	}

	included, err := fee.IncludedAmount(net, cfg.DepositFeeBps, cfg.DepositFeeCap, safemath.RoundUp)
	if err != nil {
		return DepositPlan{}, err
	}
	return DepositPlan{Net: net, Fee: included.Fee, Gross: included.Total}, nil
}

// ApplyDeposit books the quote that actually reached the vault. When a
// transfer fee shrank the amount, received is split into net and fee again.
// It reports whether the deposit ended the sale.
func (p *Presale) ApplyDeposit(e *Escrow, plan DepositPlan, received, now uint64) (DepositPlan, bool, error) {
	t, err := p.trancheOf(e)
	if err != nil {
		return DepositPlan{}, false, err
	}
	booked := plan
	if received != plan.Gross {
		if received > plan.Gross {
			return DepositPlan{}, false, ErrReceivedExceedsSent
		}
		cfg := t.config
		excluded, err := fee.ExcludedAmount(received, cfg.DepositFeeBps, cfg.DepositFeeCap, safemath.RoundUp)
		if err != nil {
			return DepositPlan{}, false, err
		}
		booked = DepositPlan{Net: excluded.Net, Fee: excluded.Fee, Gross: received}
	}
	if err := p.recordDeposit(t, e, booked.Net, booked.Fee); err != nil {
		return DepositPlan{}, false, err
	}
	completed, err := p.handler().MaybeCompleteOnCap(p, now)
	if err != nil {
		return DepositPlan{}, false, err
	}
	return booked, completed, nil
}

// Withdraw takes amount of net deposit back out of e while the sale runs.
// The fee charged on it is returned in proportion.
func (p *Presale) Withdraw(e *Escrow, amount, now uint64) (Refund, error) {
	if p.Progress(now) != ProgressOngoing {
		return Refund{}, ErrInvalidProgress
	}
	if !p.handler().CanWithdraw(p) {
		return Refund{}, ErrWithdrawDisabled
	}
	if amount == 0 {
		return Refund{}, ErrZeroAmount
	}
	if amount > e.totalDeposit {
		return Refund{}, ErrWithdrawExceedsDeposit
	}
	t, err := p.trancheOf(e)
	if err != nil {
		return Refund{}, err
	}
	remaining := e.totalDeposit - amount
	if remaining > 0 && remaining < t.config.BuyerMinDeposit {
		return Refund{}, ErrRemainingBelowMinimum
	}
	feeRefund, err := safemath.MulDiv(e.totalDepositFee, amount, e.totalDeposit, safemath.RoundDown)
	if err != nil {
		return Refund{}, err
	}
	if err := p.recordWithdraw(t, e, amount, feeRefund); err != nil {
		return Refund{}, err
	}
	return Refund{Quote: amount, Fee: feeRefund}, nil
}

// RemainingQuote is what WithdrawRemainingQuote would pay out at now.
func (p *Presale) RemainingQuote(e *Escrow, now uint64) (Refund, error) {
	t, err := p.trancheOf(e)
	if err != nil {
		return Refund{}, err
	}
	switch p.Progress(now) {
	case ProgressFailed:
		return Refund{Quote: e.totalDeposit, Fee: e.totalDepositFee}, nil
	case ProgressCompleted:
		return p.overflowRefund(t, e, p.handler().OverflowQuote(p))
	}
	return Refund{}, ErrInvalidProgress
}

// WithdrawRemainingQuote refunds a failed sale in full, or the share of the
// overflow of a completed prorata sale. It succeeds once per escrow.
func (p *Presale) WithdrawRemainingQuote(e *Escrow, now uint64) (Refund, error) {
	if e.remainingQuoteWithdrawn {
		return Refund{}, ErrAlreadyWithdrawn
	}
	r, err := p.RemainingQuote(e, now)
	if err != nil {
		return Refund{}, err
	}
	if r.IsZero() {
		return Refund{}, ErrNothingToWithdraw
	}
	t, err := p.trancheOf(e)
	if err != nil {
		return Refund{}, err
	}
	if err := p.recordRefund(t, e, r); err != nil {
		return Refund{}, err
	}
	e.remainingQuoteWithdrawn = true
	return r, nil
}

// CumulativeClaimable is the base e may have claimed in total by now.
func (p *Presale) CumulativeClaimable(e *Escrow, now uint64) (uint64, error) {
	t, err := p.trancheOf(e)
	if err != nil {
		return 0, err
	}
	sold, err := p.handler().TrancheBaseSold(p, t)
	if err != nil {
		return 0, err
	}
	return vesting.CumulativeClaimable(p.schedule(), sold, now, e.totalDeposit, t.totalDeposit)
}

// Refresh accrues newly vested base into the pending claim of e.
func (p *Presale) Refresh(e *Escrow, now uint64) error {
	if p.Progress(now) != ProgressCompleted {
		return ErrInvalidProgress
	}
	cumulative, err := p.CumulativeClaimable(e, now)
	if err != nil {
		return err
	}
	accounted, err := safemath.Add(e.totalClaimed, e.pendingClaim)
	if err != nil {
		return err
	}
	delta, err := safemath.Sub(cumulative, accounted)
	if err != nil {
		return err
	}
	pending, err := safemath.Add(e.pendingClaim, delta)
	if err != nil {
		return err
	}
	e.pendingClaim = pending
	e.lastRefreshedAt = now
	return nil
}

// Claim releases the pending base of e. The escrow must have been
// refreshed at now.
func (p *Presale) Claim(e *Escrow, now uint64) (uint64, error) {
	if p.Progress(now) != ProgressCompleted {
		return 0, ErrInvalidProgress
	}
	if e.lastRefreshedAt != now {
		return 0, ErrEscrowNotRefreshed
	}
	amount := e.pendingClaim
	if amount == 0 {
		return 0, ErrNothingToClaim
	}
	t, err := p.trancheOf(e)
	if err != nil {
		return 0, err
	}
	if err := p.recordClaim(t, e, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// CreatorProceeds is what the owner takes out of the vaults once the sale
// ended: raised quote when it completed, the base supply when it failed.
type CreatorProceeds struct {
	Quote uint64 `json:"quote"`
	Base  uint64 `json:"base"`
}

// CreatorWithdraw releases the proceeds of the sale to the owner once.
func (p *Presale) CreatorWithdraw(now uint64) (CreatorProceeds, error) {
	if p.creatorWithdrawn {
		return CreatorProceeds{}, ErrAlreadyPerformed
	}
	var out CreatorProceeds
	switch p.Progress(now) {
	case ProgressCompleted:
		out.Quote = p.handler().CreatorQuote(p)
	case ProgressFailed:
		out.Base = p.TotalSupply()
	default:
		return CreatorProceeds{}, ErrInvalidProgress
	}
	p.creatorWithdrawn = true
	return out, nil
}

// CollectableFee is the deposit fee the owner may collect, net of the fee
// reserved for overflow refunds.
func (p *Presale) CollectableFee() (uint64, error) {
	reserved, err := p.overflowFeeReserved(p.handler().OverflowQuote(p))
	if err != nil {
		return 0, err
	}
	return safemath.Sub(p.totalDepositFee, reserved)
}

// CollectFee marks the fee collected and returns its amount.
func (p *Presale) CollectFee(now uint64) (uint64, error) {
	if p.Progress(now) != ProgressCompleted {
		return 0, ErrInvalidProgress
	}
	if p.feeCollected {
		return 0, ErrAlreadyPerformed
	}
	amount, err := p.CollectableFee()
	if err != nil {
		return 0, err
	}
	p.feeCollected = true
	return amount, nil
}

// TotalBaseSold sums the base allocated over the initialized tranches.
func (p *Presale) TotalBaseSold() (uint64, error) {
	h := p.handler()
	var total uint64
	for _, t := range p.Tranches() {
		sold, err := h.TrancheBaseSold(p, t)
		if err != nil {
			return 0, err
		}
		if total, err = safemath.Add(total, sold); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// PerformUnsoldBaseAction returns the base nobody bought. The caller
// refunds or burns it according to UnsoldAction.
func (p *Presale) PerformUnsoldBaseAction(now uint64) (uint64, error) {
	if p.Progress(now) != ProgressCompleted {
		return 0, ErrInvalidProgress
	}
	if p.unsoldActionPerformed {
		return 0, ErrAlreadyPerformed
	}
	sold, err := p.TotalBaseSold()
	if err != nil {
		return 0, err
	}
	unsold, err := safemath.Sub(p.TotalSupply(), sold)
	if err != nil {
		return 0, err
	}
	p.unsoldActionPerformed = true
	return unsold, nil
}

// finalAllocation is the cumulative claimable once every window elapsed.
func (p *Presale) finalAllocation(e *Escrow) (uint64, error) {
	at := p.timings.VestEnd
	if p.immediateReleaseAt > at {
		at = p.immediateReleaseAt
	}
	return p.CumulativeClaimable(e, at)
}

// CloseEscrow unregisters e once nothing is owed in either direction.
func (p *Presale) CloseEscrow(e *Escrow, now uint64) error {
	t, err := p.trancheOf(e)
	if err != nil {
		return err
	}
	switch p.Progress(now) {
	case ProgressNotStarted, ProgressOngoing:
		if e.totalDeposit != 0 || e.totalDepositFee != 0 {
			return ErrEscrowNotSettled
		}
	case ProgressFailed:
		if (e.totalDeposit != 0 || e.totalDepositFee != 0) && !e.remainingQuoteWithdrawn {
			return ErrEscrowNotSettled
		}
	case ProgressCompleted:
		final, err := p.finalAllocation(e)
		if err != nil {
			return err
		}
		if e.totalClaimed < final || e.pendingClaim != 0 {
			return ErrEscrowNotSettled
		}
		if !e.remainingQuoteWithdrawn {
			r, err := p.RemainingQuote(e, now)
			if err != nil {
				return err
			}
			if !r.IsZero() {
				return ErrEscrowNotSettled
			}
		}
	}
	return p.unregisterEscrow(t)
}
