package escrow

import (
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeCloseEscrow, func() tx.Transaction {
		return &CloseEscrow{escrowTx: newEscrowTx(tx.TypeCloseEscrow, presale.AccountID{}, presale.ID{}, 0)}
	})
}

// CloseEscrow removes a settled escrow.
type CloseEscrow struct {
	escrowTx
}

func NewCloseEscrow(account presale.AccountID, sale presale.ID, idx uint8) *CloseEscrow {
	return &CloseEscrow{escrowTx: newEscrowTx(tx.TypeCloseEscrow, account, sale, idx)}
}

func (op *CloseEscrow) Apply(ctx *tx.ApplyContext) tx.Result {
	p, e, err := op.load(ctx)
	if err != nil {
		return ctx.Fail(err)
	}
	if err := p.CloseEscrow(e, ctx.Now); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.EraseEscrow(e); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.UpdatePresale(p); err != nil {
		return ctx.Fail(err)
	}
	return tx.TesSUCCESS
}
