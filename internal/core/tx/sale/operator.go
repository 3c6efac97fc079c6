package sale

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeCreateOperator, func() tx.Transaction {
		return &CreateOperator{BaseTx: *tx.NewBaseTx(tx.TypeCreateOperator, presale.AccountID{}, presale.ID{})}
	})
	tx.Register(tx.TypeRevokeOperator, func() tx.Transaction {
		return &RevokeOperator{BaseTx: *tx.NewBaseTx(tx.TypeRevokeOperator, presale.AccountID{}, presale.ID{})}
	})
}

// CreateOperator lets Operator open escrows of an authority gated sale.
type CreateOperator struct {
	tx.BaseTx

	Operator presale.AccountID `json:"operator"`
}

func NewCreateOperator(owner presale.AccountID, sale presale.ID, operator presale.AccountID) *CreateOperator {
	return &CreateOperator{
		BaseTx:   *tx.NewBaseTx(tx.TypeCreateOperator, owner, sale),
		Operator: operator,
	}
}

func (op *CreateOperator) Validate() error {
	if err := op.BaseTx.Validate(); err != nil {
		return err
	}
	if op.Operator == (presale.AccountID{}) {
		return fmt.Errorf("%w: operator is required", tx.TemBAD_ACCOUNT)
	}
	return nil
}

func (op *CreateOperator) Target() [32]byte {
	return op.Operator
}

func (op *CreateOperator) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, err := ctx.OwnedPresale(op.Presale); err != nil {
		return ctx.Fail(err)
	}
	err := ctx.InsertOperator(presale.Operator{
		Sale:      op.Presale,
		Operator:  op.Operator,
		Creator:   ctx.Account,
		CreatedAt: ctx.Now,
	})
	if err != nil {
		return ctx.Fail(err)
	}
	return tx.TesSUCCESS
}

// RevokeOperator removes an operator registration.
type RevokeOperator struct {
	tx.BaseTx

	Operator presale.AccountID `json:"operator"`
}

func NewRevokeOperator(owner presale.AccountID, sale presale.ID, operator presale.AccountID) *RevokeOperator {
	return &RevokeOperator{
		BaseTx:   *tx.NewBaseTx(tx.TypeRevokeOperator, owner, sale),
		Operator: operator,
	}
}

func (op *RevokeOperator) Validate() error {
	if err := op.BaseTx.Validate(); err != nil {
		return err
	}
	if op.Operator == (presale.AccountID{}) {
		return fmt.Errorf("%w: operator is required", tx.TemBAD_ACCOUNT)
	}
	return nil
}

func (op *RevokeOperator) Target() [32]byte {
	return op.Operator
}

func (op *RevokeOperator) Apply(ctx *tx.ApplyContext) tx.Result {
	if _, err := ctx.OwnedPresale(op.Presale); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.EraseOperator(op.Presale, op.Operator); err != nil {
		return ctx.Fail(err)
	}
	return tx.TesSUCCESS
}
