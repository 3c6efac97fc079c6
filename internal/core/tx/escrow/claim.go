package escrow

import (
	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeRefreshEscrow, func() tx.Transaction {
		return &RefreshEscrow{escrowTx: newEscrowTx(tx.TypeRefreshEscrow, presale.AccountID{}, presale.ID{}, 0)}
	})
	tx.Register(tx.TypeClaim, func() tx.Transaction {
		return &Claim{escrowTx: newEscrowTx(tx.TypeClaim, presale.AccountID{}, presale.ID{}, 0)}
	})
}

// RefreshEscrow accrues vested base into the pending claim. Anyone may
// refresh any escrow; Owner defaults to the caller.
type RefreshEscrow struct {
	escrowTx

	Owner *presale.AccountID `json:"owner,omitempty"`
}

func NewRefreshEscrow(account presale.AccountID, sale presale.ID, owner presale.AccountID, idx uint8) *RefreshEscrow {
	op := &RefreshEscrow{escrowTx: newEscrowTx(tx.TypeRefreshEscrow, account, sale, idx)}
	if owner != account {
		op.Owner = &owner
	}
	return op
}

func (op *RefreshEscrow) owner() presale.AccountID {
	if op.Owner != nil {
		return *op.Owner
	}
	return op.Account
}

func (op *RefreshEscrow) Target() [32]byte {
	return keylet.Escrow(op.Presale, op.owner(), op.TrancheIndex).Key
}

func (op *RefreshEscrow) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.Presale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	e, err := ctx.Escrow(op.Presale, op.owner(), op.TrancheIndex)
	if err != nil {
		return ctx.Fail(err)
	}
	before := e.PendingClaim()
	if err := p.Refresh(e, ctx.Now); err != nil {
		return ctx.Fail(err)
	}
	if err := save(ctx, p, e); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("accrued", e.PendingClaim()-before)
	ctx.Deliver("pending", e.PendingClaim())
	return tx.TesSUCCESS
}

// Claim releases the pending base of the escrow to its owner. The escrow
// must have been refreshed at the same time, which a Batch of
// RefreshEscrow and Claim guarantees.
type Claim struct {
	escrowTx
}

func NewClaim(account presale.AccountID, sale presale.ID, idx uint8) *Claim {
	return &Claim{escrowTx: newEscrowTx(tx.TypeClaim, account, sale, idx)}
}

func (op *Claim) Apply(ctx *tx.ApplyContext) tx.Result {
	p, e, err := op.load(ctx)
	if err != nil {
		return ctx.Fail(err)
	}
	amount, err := p.Claim(e, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	if _, err := ctx.Move(tx.BaseVault(p.ID()), tx.AccountCustody(ctx.Account), p.BaseAsset(), amount); err != nil {
		return ctx.Fail(err)
	}
	if err := save(ctx, p, e); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("base", amount)
	return tx.TesSUCCESS
}
