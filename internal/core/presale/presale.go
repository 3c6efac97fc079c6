package presale

import (
	"github.com/LeJamon/goPresale/internal/core/fee"
	"github.com/LeJamon/goPresale/internal/core/safemath"
	"github.com/LeJamon/goPresale/internal/core/vesting"
	"github.com/holiman/uint256"
)

// Limits bounds the durations accepted at initialization.
type Limits struct {
	MaxSaleDuration uint64
	MaxLockDuration uint64
	MaxVestDuration uint64
}

// DefaultLimits allows a 30 day sale with up to 10 years of lock and vest.
var DefaultLimits = Limits{
	MaxSaleDuration: 30 * 24 * 3600,
	MaxLockDuration: 10 * 365 * 24 * 3600,
	MaxVestDuration: 10 * 365 * 24 * 3600,
}

// InitParams is everything needed to create a sale.
type InitParams struct {
	Owner      AccountID
	BaseAsset  AssetID
	QuoteAsset AssetID

	Mode         SaleMode
	Whitelist    WhitelistMode
	UnsoldAction UnsoldAction

	MinimumCap uint64
	MaximumCap uint64

	StartTime    uint64
	EndTime      uint64
	LockDuration uint64
	VestDuration uint64

	// ImmediateReleaseAt of zero releases at vest start.
	ImmediateReleaseBps uint16
	ImmediateReleaseAt  uint64

	// QPrice is the Q64.64 quote-per-base price, FixedPrice only.
	QPrice            *uint256.Int
	DisableWithdraw   bool
	DisableEarlierEnd bool

	Tranches []TrancheConfig
}

// Timings are the derived window boundaries of a sale.
type Timings struct {
	LockStart uint64 `json:"lock_start"`
	LockEnd   uint64 `json:"lock_end"`
	VestStart uint64 `json:"vest_start"`
	VestEnd   uint64 `json:"vest_end"`
}

func computeTimings(end, lock, vest uint64) (Timings, error) {
	var t Timings
	var err error
	if t.LockStart, err = safemath.Add(end, 1); err != nil {
		return Timings{}, err
	}
	if t.LockEnd, err = safemath.Add(t.LockStart, lock); err != nil {
		return Timings{}, err
	}
	if t.VestStart, err = safemath.Add(t.LockEnd, 1); err != nil {
		return Timings{}, err
	}
	if t.VestEnd, err = safemath.Add(t.VestStart, vest); err != nil {
		return Timings{}, err
	}
	return t, nil
}

// Presale is the sale aggregate.
type Presale struct {
	id         ID
	owner      AccountID
	baseAsset  AssetID
	quoteAsset AssetID

	mode         SaleMode
	whitelist    WhitelistMode
	unsoldAction UnsoldAction

	minimumCap uint64
	maximumCap uint64

	startTime    uint64
	endTime      uint64
	lockDuration uint64
	vestDuration uint64
	timings      Timings

	immediateReleaseBps uint16
	immediateReleaseAt  uint64

	qPrice            *uint256.Int
	disableWithdraw   bool
	disableEarlierEnd bool

	// endedEarly is set once the maximum cap closed the sale at endTime.
	endedEarly bool

	totalDeposit       uint64
	totalDepositFee    uint64
	totalClaimed       uint64
	totalRefundedQuote uint64
	totalRefundedFee   uint64
	escrowCount        uint64

	feeCollected          bool
	creatorWithdrawn      bool
	unsoldActionPerformed bool
	createdAt             uint64

	tranches    [MaxTranches]Tranche
	trancheUsed uint8
}

// New validates params and builds the sale. now is the creation time.
func New(id ID, params InitParams, limits Limits, now uint64) (*Presale, error) {
	if err := Validate(params, limits, now); err != nil {
		return nil, err
	}
	timings, err := computeTimings(params.EndTime, params.LockDuration, params.VestDuration)
	if err != nil {
		return nil, err
	}

	p := &Presale{
		id:                  id,
		owner:               params.Owner,
		baseAsset:           params.BaseAsset,
		quoteAsset:          params.QuoteAsset,
		mode:                params.Mode,
		whitelist:           params.Whitelist,
		unsoldAction:        params.UnsoldAction,
		minimumCap:          params.MinimumCap,
		maximumCap:          params.MaximumCap,
		startTime:           params.StartTime,
		endTime:             params.EndTime,
		lockDuration:        params.LockDuration,
		vestDuration:        params.VestDuration,
		timings:             timings,
		immediateReleaseBps: params.ImmediateReleaseBps,
		immediateReleaseAt:  params.ImmediateReleaseAt,
		disableWithdraw:     params.DisableWithdraw,
		disableEarlierEnd:   params.DisableEarlierEnd,
		createdAt:           now,
	}
	if p.immediateReleaseAt == 0 {
		p.immediateReleaseAt = timings.VestStart
	}
	if params.Mode == ModeFixedPrice {
		p.qPrice = new(uint256.Int).Set(params.QPrice)
		if p.maximumCap, err = buyableCap(p.qPrice, params.MaximumCap); err != nil {
			return nil, err
		}
	}
	for i, c := range params.Tranches {
		p.tranches[i].config = c
	}
	p.trancheUsed = uint8(len(params.Tranches))
	return p, nil
}

// Validate checks params without building a sale.
func Validate(params InitParams, limits Limits, now uint64) error {
	if !params.Mode.Valid() {
		return ErrUnknownSaleMode
	}
	if !params.Whitelist.Valid() {
		return ErrUnknownWhitelistMode
	}
	if !params.UnsoldAction.Valid() {
		return ErrUnknownUnsoldAction
	}
	if params.MaximumCap == 0 || params.MinimumCap > params.MaximumCap {
		return ErrInvalidCaps
	}
	if params.StartTime >= params.EndTime || params.EndTime <= now {
		return ErrInvalidTimes
	}
	if params.EndTime-params.StartTime > limits.MaxSaleDuration {
		return ErrInvalidDuration
	}
	if params.LockDuration > limits.MaxLockDuration || params.VestDuration > limits.MaxVestDuration {
		return ErrInvalidDuration
	}
	timings, err := computeTimings(params.EndTime, params.LockDuration, params.VestDuration)
	if err != nil {
		return ErrInvalidDuration
	}
	if uint64(params.ImmediateReleaseBps) > fee.MaxBps {
		return ErrInvalidReleaseConfig
	}
	if params.ImmediateReleaseAt != 0 &&
		(params.ImmediateReleaseAt < params.EndTime || params.ImmediateReleaseAt > timings.VestEnd) {
		return ErrInvalidReleaseConfig
	}

	if len(params.Tranches) == 0 {
		return ErrInvalidTranche
	}
	if len(params.Tranches) > MaxTranches {
		return ErrTooManyTranches
	}
	var supply uint64
	for _, c := range params.Tranches {
		if err := c.validate(); err != nil {
			return err
		}
		if supply, err = safemath.Add(supply, c.Supply); err != nil {
			return ErrInvalidTranche
		}
	}

	if params.Mode == ModeFixedPrice {
		if params.QPrice == nil || params.QPrice.IsZero() {
			return ErrInvalidPrice
		}
		maxBase, err := safemath.ShlDiv(params.MaximumCap, 64, params.QPrice, safemath.RoundDown)
		if err != nil {
			return ErrInvalidPrice
		}
		if maxBase == 0 {
			return ErrInvalidPrice
		}
		buyable, err := QuoteForBase(params.QPrice, maxBase)
		if err != nil {
			return ErrInvalidPrice
		}
		if buyable < params.MinimumCap {
			return ErrInvalidCaps
		}
		for _, c := range params.Tranches {
			if c.Supply < maxBase {
				return ErrInsufficientSupply
			}
		}
	}
	return nil
}

// Progress derives the sale state at now.
func (p *Presale) Progress(now uint64) Progress {
	switch {
	case now < p.startTime:
		return ProgressNotStarted
	case now < p.endTime, now == p.endTime && !p.endedEarly:
		return ProgressOngoing
	case p.endedEarly, p.totalDeposit >= p.minimumCap:
		return ProgressCompleted
	default:
		return ProgressFailed
	}
}

// completeEarly ends the sale at now, so Progress(now) already reports
// it ended, and shifts every window after it by the same amount.
func (p *Presale) completeEarly(now uint64) error {
	if now > p.endTime {
		return nil
	}
	if now < p.endTime {
		timings, err := computeTimings(now, p.lockDuration, p.vestDuration)
		if err != nil {
			return err
		}
		shift := p.endTime - now
		p.endTime = now
		p.timings = timings
		p.immediateReleaseAt -= shift
	}
	p.endedEarly = true
	return nil
}

func (p *Presale) schedule() vesting.Schedule {
	return vesting.Schedule{
		ImmediateBps:       p.immediateReleaseBps,
		ImmediateReleaseAt: p.immediateReleaseAt,
		VestStart:          p.timings.VestStart,
		VestDuration:       p.vestDuration,
	}
}

// Tranche returns the initialized tranche at idx.
func (p *Presale) Tranche(idx uint8) (*Tranche, error) {
	if idx >= p.trancheUsed || !p.tranches[idx].Initialized() {
		return nil, ErrTrancheNotFound
	}
	return &p.tranches[idx], nil
}

// Tranches returns the initialized tranches in order.
func (p *Presale) Tranches() []*Tranche {
	out := make([]*Tranche, 0, p.trancheUsed)
	for i := range p.tranches {
		if !p.tranches[i].Initialized() {
			break
		}
		out = append(out, &p.tranches[i])
	}
	return out
}

// TotalSupply is the base locked in the sale vault at initialization.
func (p *Presale) TotalSupply() uint64 {
	var total uint64
	for _, t := range p.Tranches() {
		total += t.config.Supply
	}
	return total
}

func (p *Presale) ID() ID { return p.id }
func (p *Presale) Owner() AccountID { return p.owner }
func (p *Presale) BaseAsset() AssetID { return p.baseAsset }
func (p *Presale) QuoteAsset() AssetID { return p.quoteAsset }
func (p *Presale) Mode() SaleMode { return p.mode }
func (p *Presale) Whitelist() WhitelistMode { return p.whitelist }
func (p *Presale) UnsoldAction() UnsoldAction { return p.unsoldAction }
func (p *Presale) MinimumCap() uint64 { return p.minimumCap }
func (p *Presale) MaximumCap() uint64 { return p.maximumCap }
func (p *Presale) StartTime() uint64 { return p.startTime }
func (p *Presale) EndTime() uint64 { return p.endTime }

// EndedEarly reports whether the maximum cap closed the sale.
func (p *Presale) EndedEarly() bool { return p.endedEarly }
func (p *Presale) LockDuration() uint64 { return p.lockDuration }
func (p *Presale) VestDuration() uint64 { return p.vestDuration }
func (p *Presale) Timings() Timings { return p.timings }
func (p *Presale) ImmediateReleaseBps() uint16 { return p.immediateReleaseBps }
func (p *Presale) ImmediateReleaseAt() uint64 { return p.immediateReleaseAt }
func (p *Presale) DisableWithdraw() bool { return p.disableWithdraw }
func (p *Presale) DisableEarlierEnd() bool { return p.disableEarlierEnd }
func (p *Presale) TotalDeposit() uint64 { return p.totalDeposit }
func (p *Presale) TotalDepositFee() uint64 { return p.totalDepositFee }
func (p *Presale) TotalClaimed() uint64 { return p.totalClaimed }
func (p *Presale) TotalRefundedQuote() uint64 { return p.totalRefundedQuote }
func (p *Presale) TotalRefundedFee() uint64 { return p.totalRefundedFee }
func (p *Presale) EscrowCount() uint64 { return p.escrowCount }
func (p *Presale) FeeCollected() bool { return p.feeCollected }
func (p *Presale) CreatorWithdrawn() bool { return p.creatorWithdrawn }
func (p *Presale) UnsoldActionPerformed() bool { return p.unsoldActionPerformed }
func (p *Presale) CreatedAt() uint64 { return p.createdAt }

// QPrice returns a copy of the fixed price, nil for other modes.
func (p *Presale) QPrice() *uint256.Int {
	if p.qPrice == nil {
		return nil
	}
	return new(uint256.Int).Set(p.qPrice)
}
