package sale

import (
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeCreatorWithdraw, func() tx.Transaction {
		return &CreatorWithdraw{BaseTx: *tx.NewBaseTx(tx.TypeCreatorWithdraw, presale.AccountID{}, presale.ID{})}
	})
	tx.Register(tx.TypeCollectFee, func() tx.Transaction {
		return &CollectFee{BaseTx: *tx.NewBaseTx(tx.TypeCollectFee, presale.AccountID{}, presale.ID{})}
	})
	tx.Register(tx.TypePerformUnsoldBaseAction, func() tx.Transaction {
		return &PerformUnsoldBaseAction{BaseTx: *tx.NewBaseTx(tx.TypePerformUnsoldBaseAction, presale.AccountID{}, presale.ID{})}
	})
}

// CreatorWithdraw pays the owner the raised quote of a completed sale, or
// returns the base supply of a failed one.
type CreatorWithdraw struct {
	tx.BaseTx
}

func NewCreatorWithdraw(owner presale.AccountID, sale presale.ID) *CreatorWithdraw {
	return &CreatorWithdraw{BaseTx: *tx.NewBaseTx(tx.TypeCreatorWithdraw, owner, sale)}
}

func (op *CreatorWithdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.OwnedPresale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	out, err := p.CreatorWithdraw(ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	owner := tx.AccountCustody(ctx.Account)
	if _, err := ctx.Move(tx.QuoteVault(p.ID()), owner, p.QuoteAsset(), out.Quote); err != nil {
		return ctx.Fail(err)
	}
	if _, err := ctx.Move(tx.BaseVault(p.ID()), owner, p.BaseAsset(), out.Base); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.UpdatePresale(p); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("quote", out.Quote)
	ctx.Deliver("base", out.Base)
	return tx.TesSUCCESS
}

// CollectFee pays the owner the deposit fees of a completed sale, less the
// fee share owed back with prorata overflow refunds.
type CollectFee struct {
	tx.BaseTx
}

func NewCollectFee(owner presale.AccountID, sale presale.ID) *CollectFee {
	return &CollectFee{BaseTx: *tx.NewBaseTx(tx.TypeCollectFee, owner, sale)}
}

func (op *CollectFee) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.OwnedPresale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	amount, err := p.CollectFee(ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	if _, err := ctx.Move(tx.QuoteVault(p.ID()), tx.AccountCustody(ctx.Account), p.QuoteAsset(), amount); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.UpdatePresale(p); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver("fee", amount)
	return tx.TesSUCCESS
}

// PerformUnsoldBaseAction refunds or burns the base nobody bought.
type PerformUnsoldBaseAction struct {
	tx.BaseTx
}

func NewPerformUnsoldBaseAction(owner presale.AccountID, sale presale.ID) *PerformUnsoldBaseAction {
	return &PerformUnsoldBaseAction{BaseTx: *tx.NewBaseTx(tx.TypePerformUnsoldBaseAction, owner, sale)}
}

func (op *PerformUnsoldBaseAction) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.OwnedPresale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	unsold, err := p.PerformUnsoldBaseAction(ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}

	to, name := tx.AccountCustody(ctx.Account), "refunded"
	if p.UnsoldAction() == presale.UnsoldBurn {
		to, name = tx.Burn(), "burned"
	}
	if _, err := ctx.Move(tx.BaseVault(p.ID()), to, p.BaseAsset(), unsold); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.UpdatePresale(p); err != nil {
		return ctx.Fail(err)
	}
	ctx.Deliver(name, unsold)
	return tx.TesSUCCESS
}
