package presale

// prorataHandler discovers the price at close. Deposits above the cap are
// accepted and refunded pro-rata once the sale completes.
type prorataHandler struct{}

func (prorataHandler) sealed() {}

func (prorataHandler) Mode() SaleMode { return ModeProrata }

func (prorataHandler) RemainingDepositQuota(_ *Presale, t *Tranche, e *Escrow) (uint64, error) {
	return personalHeadroom(t, e), nil
}

func (prorataHandler) AdjustDepositAmount(_ *Presale, net uint64) (uint64, error) {
	return net, nil
}

// MaybeCompleteOnCap never ends a prorata sale early.
func (prorataHandler) MaybeCompleteOnCap(*Presale, uint64) (bool, error) {
	return false, nil
}

func (prorataHandler) CanWithdraw(*Presale) bool { return true }

func (prorataHandler) TrancheBaseSold(_ *Presale, t *Tranche) (uint64, error) {
	return supplyIfSold(t), nil
}

func (prorataHandler) CreatorQuote(p *Presale) uint64 {
	if p.totalDeposit > p.maximumCap {
		return p.maximumCap
	}
	return p.totalDeposit
}

func (prorataHandler) OverflowQuote(p *Presale) uint64 {
	if p.totalDeposit > p.maximumCap {
		return p.totalDeposit - p.maximumCap
	}
	return 0
}
