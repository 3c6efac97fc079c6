package presale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testOwner = AccountID{0xaa}
	testBase  = AssetID{0xb0}
	testQuote = AssetID{0xc0}
)

func baseParams(mode SaleMode) InitParams {
	p := InitParams{
		Owner:        testOwner,
		BaseAsset:    testBase,
		QuoteAsset:   testQuote,
		Mode:         mode,
		Whitelist:    WhitelistOpen,
		UnsoldAction: UnsoldRefund,
		MinimumCap:   500,
		MaximumCap:   1000,
		StartTime:    100,
		EndTime:      200,
		LockDuration: 10,
		VestDuration: 100,
		Tranches: []TrancheConfig{
			{Supply: 1000, BuyerMinDeposit: 10, BuyerMaxDeposit: 2000},
		},
	}
	if mode == ModeFixedPrice {
		p.QPrice = PriceToQ64(1)
	}
	return p
}

func newTestSale(t *testing.T, mode SaleMode, mutate ...func(*InitParams)) *Presale {
	t.Helper()
	params := baseParams(mode)
	for _, m := range mutate {
		m(&params)
	}
	p, err := New(ID{0x01}, params, DefaultLimits, 50)
	require.NoError(t, err)
	return p
}

func account(b byte) AccountID {
	return AccountID{b}
}

func openEscrow(t *testing.T, p *Presale, owner AccountID, idx uint8, now uint64) *Escrow {
	t.Helper()
	e, err := p.OpenEscrow(owner, idx, 0, now)
	require.NoError(t, err)
	return e
}

// deposit books maxAmount as if custody delivered the full gross amount.
func deposit(t *testing.T, p *Presale, e *Escrow, maxAmount, now uint64) DepositPlan {
	t.Helper()
	plan, err := p.PlanDeposit(e, maxAmount, now)
	require.NoError(t, err)
	booked, _, err := p.ApplyDeposit(e, plan, plan.Gross, now)
	require.NoError(t, err)
	return booked
}

func requireRegistryInvariant(t *testing.T, p *Presale) {
	t.Helper()
	var dep, fee, claimed, count uint64
	for _, tr := range p.Tranches() {
		dep += tr.TotalDeposit()
		fee += tr.TotalDepositFee()
		claimed += tr.TotalClaimed()
		count += tr.EscrowCount()
	}
	require.Equal(t, p.TotalDeposit(), dep)
	require.Equal(t, p.TotalDepositFee(), fee)
	require.Equal(t, p.TotalClaimed(), claimed)
	require.Equal(t, p.EscrowCount(), count)
}
