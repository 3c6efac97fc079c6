package presale

import "github.com/holiman/uint256"

// MerkleRootConfig is one whitelist root version of a sale.
type MerkleRootConfig struct {
	Sale      ID       `codec:"sale" json:"sale"`
	Version   uint64   `codec:"version" json:"version"`
	Root      [32]byte `codec:"root" json:"-"`
	CreatedAt uint64   `codec:"created_at" json:"created_at"`
}

// Operator may create authority gated escrows for a sale.
type Operator struct {
	Sale      ID        `codec:"sale" json:"sale"`
	Operator  AccountID `codec:"operator" json:"operator"`
	Creator   AccountID `codec:"creator" json:"creator"`
	CreatedAt uint64    `codec:"created_at" json:"created_at"`
}

// TrancheRecord is the stored form of a Tranche.
type TrancheRecord struct {
	Config             TrancheConfig `codec:"config" json:"config"`
	TotalDeposit       uint64        `codec:"total_deposit" json:"total_deposit"`
	TotalDepositFee    uint64        `codec:"total_deposit_fee" json:"total_deposit_fee"`
	TotalClaimed       uint64        `codec:"total_claimed" json:"total_claimed"`
	TotalRefundedQuote uint64        `codec:"total_refunded_quote" json:"total_refunded_quote"`
	TotalRefundedFee   uint64        `codec:"total_refunded_fee" json:"total_refunded_fee"`
	EscrowCount        uint64        `codec:"escrow_count" json:"escrow_count"`
}

// PresaleRecord is the stored form of a Presale.
type PresaleRecord struct {
	ID         ID        `codec:"id" json:"id"`
	Owner      AccountID `codec:"owner" json:"owner"`
	BaseAsset  AssetID   `codec:"base_asset" json:"base_asset"`
	QuoteAsset AssetID   `codec:"quote_asset" json:"quote_asset"`

	Mode         SaleMode      `codec:"mode" json:"-"`
	Whitelist    WhitelistMode `codec:"whitelist" json:"-"`
	UnsoldAction UnsoldAction  `codec:"unsold_action" json:"-"`

	MinimumCap uint64 `codec:"minimum_cap" json:"minimum_cap"`
	MaximumCap uint64 `codec:"maximum_cap" json:"maximum_cap"`

	StartTime    uint64  `codec:"start_time" json:"start_time"`
	EndTime      uint64  `codec:"end_time" json:"end_time"`
	LockDuration uint64  `codec:"lock_duration" json:"lock_duration"`
	VestDuration uint64  `codec:"vest_duration" json:"vest_duration"`
	Timings      Timings `codec:"timings" json:"timings"`

	ImmediateReleaseBps uint16 `codec:"immediate_release_bps" json:"immediate_release_bps"`
	ImmediateReleaseAt  uint64 `codec:"immediate_release_at" json:"immediate_release_at"`

	QPrice            []byte `codec:"q_price" json:"-"`
	DisableWithdraw   bool   `codec:"disable_withdraw" json:"disable_withdraw"`
	DisableEarlierEnd bool   `codec:"disable_earlier_end" json:"disable_earlier_end"`
	EndedEarly        bool   `codec:"ended_early" json:"ended_early"`

	TotalDeposit       uint64 `codec:"total_deposit" json:"total_deposit"`
	TotalDepositFee    uint64 `codec:"total_deposit_fee" json:"total_deposit_fee"`
	TotalClaimed       uint64 `codec:"total_claimed" json:"total_claimed"`
	TotalRefundedQuote uint64 `codec:"total_refunded_quote" json:"total_refunded_quote"`
	TotalRefundedFee   uint64 `codec:"total_refunded_fee" json:"total_refunded_fee"`
	EscrowCount        uint64 `codec:"escrow_count" json:"escrow_count"`

	FeeCollected          bool   `codec:"fee_collected" json:"fee_collected"`
	CreatorWithdrawn      bool   `codec:"creator_withdrawn" json:"creator_withdrawn"`
	UnsoldActionPerformed bool   `codec:"unsold_action_performed" json:"unsold_action_performed"`
	CreatedAt             uint64 `codec:"created_at" json:"created_at"`

	Tranches []TrancheRecord `codec:"tranches" json:"tranches"`
}

// EscrowRecord is the stored form of an Escrow.
type EscrowRecord struct {
	Sale         ID        `codec:"sale" json:"sale"`
	Owner        AccountID `codec:"owner" json:"owner"`
	TrancheIndex uint8     `codec:"tranche_index" json:"tranche_index"`
	DepositCap   uint64    `codec:"deposit_cap" json:"deposit_cap"`

	TotalDeposit    uint64 `codec:"total_deposit" json:"total_deposit"`
	TotalDepositFee uint64 `codec:"total_deposit_fee" json:"total_deposit_fee"`
	TotalClaimed    uint64 `codec:"total_claimed" json:"total_claimed"`
	PendingClaim    uint64 `codec:"pending_claim" json:"pending_claim"`
	LastRefreshedAt uint64 `codec:"last_refreshed_at" json:"last_refreshed_at"`

	RefundedQuote           uint64 `codec:"refunded_quote" json:"refunded_quote"`
	RefundedFee             uint64 `codec:"refunded_fee" json:"refunded_fee"`
	RemainingQuoteWithdrawn bool   `codec:"remaining_quote_withdrawn" json:"remaining_quote_withdrawn"`
	CreatedAt               uint64 `codec:"created_at" json:"created_at"`
}

// Record returns the stored form of p.
func (p *Presale) Record() PresaleRecord {
	r := PresaleRecord{
		ID:                    p.id,
		Owner:                 p.owner,
		BaseAsset:             p.baseAsset,
		QuoteAsset:            p.quoteAsset,
		Mode:                  p.mode,
		Whitelist:             p.whitelist,
		UnsoldAction:          p.unsoldAction,
		MinimumCap:            p.minimumCap,
		MaximumCap:            p.maximumCap,
		StartTime:             p.startTime,
		EndTime:               p.endTime,
		LockDuration:          p.lockDuration,
		VestDuration:          p.vestDuration,
		Timings:               p.timings,
		ImmediateReleaseBps:   p.immediateReleaseBps,
		ImmediateReleaseAt:    p.immediateReleaseAt,
		DisableWithdraw:       p.disableWithdraw,
		DisableEarlierEnd:     p.disableEarlierEnd,
		EndedEarly:            p.endedEarly,
		TotalDeposit:          p.totalDeposit,
		TotalDepositFee:       p.totalDepositFee,
		TotalClaimed:          p.totalClaimed,
		TotalRefundedQuote:    p.totalRefundedQuote,
		TotalRefundedFee:      p.totalRefundedFee,
		EscrowCount:           p.escrowCount,
		FeeCollected:          p.feeCollected,
		CreatorWithdrawn:      p.creatorWithdrawn,
		UnsoldActionPerformed: p.unsoldActionPerformed,
		CreatedAt:             p.createdAt,
	}
	if p.qPrice != nil {
		b := p.qPrice.Bytes32()
		r.QPrice = b[:]
	}
	for _, t := range p.Tranches() {
		r.Tranches = append(r.Tranches, TrancheRecord{
			Config:             t.config,
			TotalDeposit:       t.totalDeposit,
			TotalDepositFee:    t.totalDepositFee,
			TotalClaimed:       t.totalClaimed,
			TotalRefundedQuote: t.totalRefundedQuote,
			TotalRefundedFee:   t.totalRefundedFee,
			EscrowCount:        t.escrowCount,
		})
	}
	return r
}

// FromRecord rebuilds a Presale.
func FromRecord(r PresaleRecord) (*Presale, error) {
	if len(r.Tranches) == 0 {
		return nil, ErrInvalidTranche
	}
	if len(r.Tranches) > MaxTranches {
		return nil, ErrTooManyTranches
	}
	if !r.Mode.Valid() {
		return nil, ErrUnknownSaleMode
	}
	p := &Presale{
		id:                    r.ID,
		owner:                 r.Owner,
		baseAsset:             r.BaseAsset,
		quoteAsset:            r.QuoteAsset,
		mode:                  r.Mode,
		whitelist:             r.Whitelist,
		unsoldAction:          r.UnsoldAction,
		minimumCap:            r.MinimumCap,
		maximumCap:            r.MaximumCap,
		startTime:             r.StartTime,
		endTime:               r.EndTime,
		lockDuration:          r.LockDuration,
		vestDuration:          r.VestDuration,
		timings:               r.Timings,
		immediateReleaseBps:   r.ImmediateReleaseBps,
		immediateReleaseAt:    r.ImmediateReleaseAt,
		disableWithdraw:       r.DisableWithdraw,
		disableEarlierEnd:     r.DisableEarlierEnd,
		endedEarly:            r.EndedEarly,
		totalDeposit:          r.TotalDeposit,
		totalDepositFee:       r.TotalDepositFee,
		totalClaimed:          r.TotalClaimed,
		totalRefundedQuote:    r.TotalRefundedQuote,
		totalRefundedFee:      r.TotalRefundedFee,
		escrowCount:           r.EscrowCount,
		feeCollected:          r.FeeCollected,
		creatorWithdrawn:      r.CreatorWithdrawn,
		unsoldActionPerformed: r.UnsoldActionPerformed,
		createdAt:             r.CreatedAt,
		trancheUsed:           uint8(len(r.Tranches)),
	}
	if len(r.QPrice) > 0 {
		p.qPrice = new(uint256.Int).SetBytes(r.QPrice)
	}
	for i, t := range r.Tranches {
		p.tranches[i] = Tranche{
			config:             t.Config,
			totalDeposit:       t.TotalDeposit,
			totalDepositFee:    t.TotalDepositFee,
			totalClaimed:       t.TotalClaimed,
			totalRefundedQuote: t.TotalRefundedQuote,
			totalRefundedFee:   t.TotalRefundedFee,
			escrowCount:        t.EscrowCount,
		}
	}
	return p, nil
}

// Record returns the stored form of e.
func (e *Escrow) Record() EscrowRecord {
	return EscrowRecord{
		Sale:                    e.sale,
		Owner:                   e.owner,
		TrancheIndex:            e.trancheIndex,
		DepositCap:              e.depositCap,
		TotalDeposit:            e.totalDeposit,
		TotalDepositFee:         e.totalDepositFee,
		TotalClaimed:            e.totalClaimed,
		PendingClaim:            e.pendingClaim,
		LastRefreshedAt:         e.lastRefreshedAt,
		RefundedQuote:           e.refundedQuote,
		RefundedFee:             e.refundedFee,
		RemainingQuoteWithdrawn: e.remainingQuoteWithdrawn,
		CreatedAt:               e.createdAt,
	}
}

// EscrowFromRecord rebuilds an Escrow.
func EscrowFromRecord(r EscrowRecord) *Escrow {
	return &Escrow{
		sale:                    r.Sale,
		owner:                   r.Owner,
		trancheIndex:            r.TrancheIndex,
		depositCap:              r.DepositCap,
		totalDeposit:            r.TotalDeposit,
		totalDepositFee:         r.TotalDepositFee,
		totalClaimed:            r.TotalClaimed,
		pendingClaim:            r.PendingClaim,
		lastRefreshedAt:         r.LastRefreshedAt,
		refundedQuote:           r.RefundedQuote,
		refundedFee:             r.RefundedFee,
		remainingQuoteWithdrawn: r.RemainingQuoteWithdrawn,
		createdAt:               r.CreatedAt,
	}
}
