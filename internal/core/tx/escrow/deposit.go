package escrow

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeDeposit, func() tx.Transaction {
		return &Deposit{escrowTx: newEscrowTx(tx.TypeDeposit, presale.AccountID{}, presale.ID{}, 0)}
	})
}

// Deposit sends up to MaxAmount of quote, fee included, into the escrow.
type Deposit struct {
	escrowTx

	MaxAmount uint64 `json:"max_amount"`
}

func NewDeposit(account presale.AccountID, sale presale.ID, idx uint8, maxAmount uint64) *Deposit {
	return &Deposit{escrowTx: newEscrowTx(tx.TypeDeposit, account, sale, idx), MaxAmount: maxAmount}
}

func (op *Deposit) Validate() error {
	if err := op.escrowTx.Validate(); err != nil {
		return err
	}
	if op.MaxAmount == 0 {
		return fmt.Errorf("%w: max_amount is zero", tx.TemBAD_AMOUNT)
	}
	return nil
}

func (op *Deposit) Apply(ctx *tx.ApplyContext) tx.Result {
	p, e, err := op.load(ctx)
	if err != nil {
		return ctx.Fail(err)
	}
	plan, err := p.PlanDeposit(e, op.MaxAmount, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	received, err := ctx.Move(tx.AccountCustody(ctx.Account), tx.QuoteVault(p.ID()), p.QuoteAsset(), plan.Gross)
	if err != nil {
		return ctx.Fail(err)
	}
	booked, completed, err := p.ApplyDeposit(e, plan, received, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	if err := save(ctx, p, e); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("gross", booked.Gross)
	ctx.Deliver("net", booked.Net)
	ctx.Deliver("fee", booked.Fee)
	if completed {
		ctx.Deliver("completed", 1)
	}
	return tx.TesSUCCESS
}
