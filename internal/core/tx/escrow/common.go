// Package escrow holds the participant side operations of a presale.
package escrow

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

// escrowTx is embedded by operations on the escrow of Account in one
// tranche.
type escrowTx struct {
	tx.BaseTx

	TrancheIndex uint8 `json:"tranche_index"`
}

func newEscrowTx(t tx.Type, account presale.AccountID, sale presale.ID, idx uint8) escrowTx {
	return escrowTx{BaseTx: *tx.NewBaseTx(t, account, sale), TrancheIndex: idx}
}

func (op *escrowTx) Validate() error {
	if err := op.BaseTx.Validate(); err != nil {
		return err
	}
	if op.TrancheIndex >= presale.MaxTranches {
		return fmt.Errorf("%w: tranche index %d", tx.TemBAD_TRANCHE, op.TrancheIndex)
	}
	return nil
}

// Target scopes nonces to the escrow.
func (op *escrowTx) Target() [32]byte {
	return keylet.Escrow(op.Presale, op.Account, op.TrancheIndex).Key
}

// load reads the sale and the escrow of the caller.
func (op *escrowTx) load(ctx *tx.ApplyContext) (*presale.Presale, *presale.Escrow, error) {
	p, err := ctx.Presale(op.Presale)
	if err != nil {
		return nil, nil, err
	}
	e, err := ctx.Escrow(op.Presale, op.Account, op.TrancheIndex)
	if err != nil {
		return nil, nil, err
	}
	return p, e, nil
}

// save writes back both aggregates.
func save(ctx *tx.ApplyContext, p *presale.Presale, e *presale.Escrow) error {
	if err := ctx.UpdateEscrow(e); err != nil {
		return err
	}
	return ctx.UpdatePresale(p)
}

// openEscrow registers a new escrow of owner.
func openEscrow(ctx *tx.ApplyContext, p *presale.Presale, owner presale.AccountID, idx uint8, depositCap uint64) tx.Result {
	exists, err := ctx.EscrowExists(p.ID(), owner, idx)
	if err != nil {
		return ctx.Fail(err)
	}
	if exists {
		return tx.TecDUPLICATE
	}
	e, err := p.OpenEscrow(owner, idx, depositCap, ctx.Now)
	if err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.InsertEscrow(e); err != nil {
		return ctx.Fail(err)
	}
	if err := ctx.UpdatePresale(p); err != nil {
		return ctx.Fail(err)
	}
	ctx.Metadata.Created = append(ctx.Metadata.Created, keylet.Escrow(p.ID(), owner, idx).String())
	return tx.TesSUCCESS
}
