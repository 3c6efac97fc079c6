package escrow

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeWithdraw, func() tx.Transaction {
		return &Withdraw{escrowTx: newEscrowTx(tx.TypeWithdraw, presale.AccountID{}, presale.ID{}, 0)}
	})
	tx.Register(tx.TypeWithdrawRemainingQuote, func() tx.Transaction {
		return &WithdrawRemainingQuote{escrowTx: newEscrowTx(tx.TypeWithdrawRemainingQuote, presale.AccountID{}, presale.ID{}, 0)}
	})
}

// Withdraw takes Amount of net deposit back while the sale is ongoing.
type Withdraw struct {
	escrowTx

	Amount uint64 `json:"amount"`
}

func NewWithdraw(account presale.AccountID, sale presale.ID, idx uint8, amount uint64) *Withdraw {
	return &Withdraw{escrowTx: newEscrowTx(tx.TypeWithdraw, account, sale, idx), Amount: amount}
}

func (op *Withdraw) Validate() error {
	if err := op.escrowTx.Validate(); err != nil {
		return err
	}
	if op.Amount == 0 {
		return fmt.Errorf("%w: amount is zero", tx.TemBAD_AMOUNT)
	}
	return nil
}

func (op *Withdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	p, e, err := op.load(ctx)
	if err != nil {
		return ctx.Fail(err)
	}
	refund, err := p.Withdraw(e, op.Amount, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	return payRefund(ctx, p, e, refund)
}

// WithdrawRemainingQuote refunds the deposit of a failed sale, or the
// overflow share of a completed prorata sale.
type WithdrawRemainingQuote struct {
	escrowTx
}

func NewWithdrawRemainingQuote(account presale.AccountID, sale presale.ID, idx uint8) *WithdrawRemainingQuote {
	return &WithdrawRemainingQuote{escrowTx: newEscrowTx(tx.TypeWithdrawRemainingQuote, account, sale, idx)}
}

func (op *WithdrawRemainingQuote) Apply(ctx *tx.ApplyContext) tx.Result {
	p, e, err := op.load(ctx)
	if err != nil {
		return ctx.Fail(err)
	}
	refund, err := p.WithdrawRemainingQuote(e, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	return payRefund(ctx, p, e, refund)
}

func payRefund(ctx *tx.ApplyContext, p *presale.Presale, e *presale.Escrow, refund presale.Refund) tx.Result {
	total, err := refund.Total()
	if err != nil {
		return ctx.Fail(err)
	}
	if _, err := ctx.Move(tx.QuoteVault(p.ID()), tx.AccountCustody(ctx.Account), p.QuoteAsset(), total); err != nil {
		return ctx.Fail(err)
	}
	if err := save(ctx, p, e); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("quote", refund.Quote)
	ctx.Deliver("fee", refund.Fee)
	return tx.TesSUCCESS
}
