package presale

// Escrow is one participant's position in one tranche of a sale.
type Escrow struct {
	sale         ID
	owner        AccountID
	trancheIndex uint8
	depositCap   uint64

	totalDeposit    uint64
	totalDepositFee uint64
	totalClaimed    uint64
	pendingClaim    uint64
	lastRefreshedAt uint64

	refundedQuote           uint64
	refundedFee             uint64
	remainingQuoteWithdrawn bool
	createdAt               uint64
}

func (e *Escrow) Sale() ID { return e.sale }
func (e *Escrow) Owner() AccountID { return e.owner }
func (e *Escrow) TrancheIndex() uint8 { return e.trancheIndex }
func (e *Escrow) DepositCap() uint64 { return e.depositCap }
func (e *Escrow) TotalDeposit() uint64 { return e.totalDeposit }
func (e *Escrow) TotalDepositFee() uint64 { return e.totalDepositFee }
func (e *Escrow) TotalClaimed() uint64 { return e.totalClaimed }
func (e *Escrow) PendingClaim() uint64 { return e.pendingClaim }
func (e *Escrow) LastRefreshedAt() uint64 { return e.lastRefreshedAt }
func (e *Escrow) RefundedQuote() uint64 { return e.refundedQuote }
func (e *Escrow) RefundedFee() uint64 { return e.refundedFee }
func (e *Escrow) RemainingQuoteWithdrawn() bool { return e.remainingQuoteWithdrawn }
func (e *Escrow) CreatedAt() uint64 { return e.createdAt }
