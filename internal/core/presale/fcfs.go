package presale

// fcfsHandler allocates like prorata but stops accepting deposits at the
// cap and never lets depositors withdraw.
type fcfsHandler struct{}

func (fcfsHandler) sealed() {}

func (fcfsHandler) Mode() SaleMode { return ModeFcfs }

func (fcfsHandler) RemainingDepositQuota(p *Presale, t *Tranche, e *Escrow) (uint64, error) {
	return cappedHeadroom(p, t, e), nil
}

func (fcfsHandler) AdjustDepositAmount(_ *Presale, net uint64) (uint64, error) {
	return net, nil
}

func (fcfsHandler) MaybeCompleteOnCap(p *Presale, now uint64) (bool, error) {
	return completeOnCap(p, now)
}

func (fcfsHandler) CanWithdraw(*Presale) bool { return false }

func (fcfsHandler) TrancheBaseSold(_ *Presale, t *Tranche) (uint64, error) {
	return supplyIfSold(t), nil
}

func (fcfsHandler) CreatorQuote(p *Presale) uint64 { return p.totalDeposit }

func (fcfsHandler) OverflowQuote(*Presale) uint64 { return 0 }
