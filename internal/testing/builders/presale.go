package builders

import (
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx/sale"
	"github.com/LeJamon/goPresale/internal/testing"
)

// Default sale shape used when a builder option is not set.
const (
	DefaultSaleLength   uint64 = 1000
	DefaultLockDuration uint64 = 100
	DefaultVestDuration uint64 = 1000
	DefaultMinimumCap   uint64 = 100
	DefaultMaximumCap   uint64 = 1000
)

// DefaultTranche is used when no tranche is added.
var DefaultTranche = presale.TrancheConfig{
	Supply:          1000,
	BuyerMinDeposit: 5,
	BuyerMaxDeposit: 1000,
}

// PresaleBuilder provides a fluent interface for building InitializePresale
// operations.
type PresaleBuilder struct {
	op *sale.InitializePresale
}

// Presale starts a sale of base for quote owned by owner, running from
// start for DefaultSaleLength seconds.
func Presale(owner *testing.Account, base, quote presale.AssetID, mode presale.SaleMode, start uint64) *PresaleBuilder {
	op := sale.NewInitializePresale(owner.ID, base, quote)
	op.Mode = mode.String()
	op.Whitelist = presale.WhitelistOpen.String()
	op.UnsoldAction = presale.UnsoldRefund.String()
	op.MinimumCap = DefaultMinimumCap
	op.MaximumCap = DefaultMaximumCap
	op.StartTime = start
	op.EndTime = start + DefaultSaleLength
	op.LockDuration = DefaultLockDuration
	op.VestDuration = DefaultVestDuration
	return &PresaleBuilder{op: op}
}

// FixedPrice starts a fixed price sale at a decimal price.
func FixedPrice(owner *testing.Account, base, quote presale.AssetID, start uint64, price string) *PresaleBuilder {
	b := Presale(owner, base, quote, presale.ModeFixedPrice, start)
	b.op.Price = price
	return b
}

// Caps sets the minimum and maximum raise.
func (b *PresaleBuilder) Caps(min, max uint64) *PresaleBuilder {
	b.op.MinimumCap = min
	b.op.MaximumCap = max
	return b
}

// Window sets the sale start and end.
func (b *PresaleBuilder) Window(start, end uint64) *PresaleBuilder {
	b.op.StartTime = start
	b.op.EndTime = end
	return b
}

// Lock sets the lock duration after the sale ends.
func (b *PresaleBuilder) Lock(d uint64) *PresaleBuilder {
	b.op.LockDuration = d
	return b
}

// Vest sets the linear vesting duration.
func (b *PresaleBuilder) Vest(d uint64) *PresaleBuilder {
	b.op.VestDuration = d
	return b
}

// Immediate releases bps of the allocation at at; zero at means vest start.
func (b *PresaleBuilder) Immediate(bps uint16, at uint64) *PresaleBuilder {
	b.op.ImmediateReleaseBps = bps
	b.op.ImmediateReleaseAt = at
	return b
}

// Whitelist sets how escrows may be created.
func (b *PresaleBuilder) Whitelist(m presale.WhitelistMode) *PresaleBuilder {
	b.op.Whitelist = m.String()
	return b
}

// Unsold sets what happens to base nobody bought.
func (b *PresaleBuilder) Unsold(a presale.UnsoldAction) *PresaleBuilder {
	b.op.UnsoldAction = a.String()
	return b
}

// Tranche adds a tranche.
func (b *PresaleBuilder) Tranche(c presale.TrancheConfig) *PresaleBuilder {
	b.op.Tranches = append(b.op.Tranches, c)
	return b
}

// DisableWithdraw forbids fixed price withdrawals.
func (b *PresaleBuilder) DisableWithdraw() *PresaleBuilder {
	b.op.DisableWithdraw = true
	return b
}

// DisableEarlierEnd keeps the sale open after the maximum cap is reached.
func (b *PresaleBuilder) DisableEarlierEnd() *PresaleBuilder {
	b.op.DisableEarlierEnd = true
	return b
}

// Nonce sets the operation nonce.
func (b *PresaleBuilder) Nonce(n string) *PresaleBuilder {
	b.op.Nonce = n
	return b
}

// Build returns the operation, adding DefaultTranche when none was set.
func (b *PresaleBuilder) Build() *sale.InitializePresale {
	if len(b.op.Tranches) == 0 {
		b.op.Tranches = []presale.TrancheConfig{DefaultTranche}
	}
	return b.op
}
