package escrow

import (
	"encoding/hex"
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/merkle"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

// MaxProofLength bounds a proof, enough for a tree of 2^64 leaves.
const MaxProofLength = 64

func init() {
	tx.Register(tx.TypeCreatePermissionlessEscrow, func() tx.Transaction {
		return &CreatePermissionlessEscrow{escrowTx: newEscrowTx(tx.TypeCreatePermissionlessEscrow, presale.AccountID{}, presale.ID{}, 0)}
	})
	tx.Register(tx.TypeCreatePermissionedEscrowWithProof, func() tx.Transaction {
		return &CreatePermissionedEscrowWithProof{escrowTx: newEscrowTx(tx.TypeCreatePermissionedEscrowWithProof, presale.AccountID{}, presale.ID{}, 0)}
	})
	tx.Register(tx.TypeCreatePermissionedEscrowWithOperator, func() tx.Transaction {
		return &CreatePermissionedEscrowWithOperator{escrowTx: newEscrowTx(tx.TypeCreatePermissionedEscrowWithOperator, presale.AccountID{}, presale.ID{}, 0)}
	})
}

// CreatePermissionlessEscrow opens an escrow in a sale without whitelist.
type CreatePermissionlessEscrow struct {
	escrowTx
}

func NewCreatePermissionlessEscrow(account presale.AccountID, sale presale.ID, idx uint8) *CreatePermissionlessEscrow {
	return &CreatePermissionlessEscrow{escrowTx: newEscrowTx(tx.TypeCreatePermissionlessEscrow, account, sale, idx)}
}

func (op *CreatePermissionlessEscrow) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.Presale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	if p.Whitelist() != presale.WhitelistOpen {
		return ctx.Fail(presale.ErrWhitelistModeMismatch)
	}
	return openEscrow(ctx, p, op.Account, op.TrancheIndex, 0)
}

// CreatePermissionedEscrowWithProof opens an escrow by proving the leaf
// (Account, TrancheIndex, DepositCap) is in root Version.
type CreatePermissionedEscrowWithProof struct {
	escrowTx

	DepositCap uint64   `json:"deposit_cap"`
	Version    uint64   `json:"version"`
	Proof      []string `json:"proof"`
}

func NewCreatePermissionedEscrowWithProof(account presale.AccountID, sale presale.ID, idx uint8, depositCap, version uint64, proof []merkle.Hash) *CreatePermissionedEscrowWithProof {
	op := &CreatePermissionedEscrowWithProof{
		escrowTx:   newEscrowTx(tx.TypeCreatePermissionedEscrowWithProof, account, sale, idx),
		DepositCap: depositCap,
		Version:    version,
		Proof:      make([]string, len(proof)),
	}
	for i, h := range proof {
		op.Proof[i] = hex.EncodeToString(h[:])
	}
	return op
}

func (op *CreatePermissionedEscrowWithProof) proof() ([]merkle.Hash, error) {
	if len(op.Proof) > MaxProofLength {
		return nil, fmt.Errorf("%w: %d hashes, max %d", tx.TemBAD_PROOF, len(op.Proof), MaxProofLength)
	}
	out := make([]merkle.Hash, len(op.Proof))
	for i, s := range op.Proof {
		id, err := presale.ParseID(s)
		if err != nil {
			return nil, fmt.Errorf("%w: hash %d: %v", tx.TemBAD_PROOF, i, err)
		}
		out[i] = id
	}
	return out, nil
}

func (op *CreatePermissionedEscrowWithProof) Validate() error {
	if err := op.escrowTx.Validate(); err != nil {
		return err
	}
	if _, err := op.proof(); err != nil {
		return err
	}
	// the leaf cap is what the whitelist grants, zero would read as no limit
	if op.DepositCap == 0 {
		return fmt.Errorf("%w: deposit_cap is zero", tx.TemBAD_AMOUNT)
	}
	return nil
}

// Leaf is the whitelist leaf the proof is checked against.
func (op *CreatePermissionedEscrowWithProof) Leaf() merkle.Leaf {
	return merkle.Leaf{Owner: op.Account, TrancheIndex: op.TrancheIndex, DepositCap: op.DepositCap}
}

func (op *CreatePermissionedEscrowWithProof) Apply(ctx *tx.ApplyContext) tx.Result {
	proof, err := op.proof()
	if err != nil {
		return ctx.Fail(err)
	}
	p, err := ctx.Presale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	if p.Whitelist() != presale.WhitelistMerkleProof {
		return ctx.Fail(presale.ErrWhitelistModeMismatch)
	}
	cfg, err := ctx.MerkleRoot(op.Presale, op.Version)
	if err != nil {
		return ctx.Fail(err)
	}
	if !merkle.VerifyLeaf(proof, cfg.Root, op.Leaf()) {
		return ctx.Fail(presale.ErrInvalidProof)
	}
	return openEscrow(ctx, p, op.Account, op.TrancheIndex, op.DepositCap)
}

// CreatePermissionedEscrowWithOperator is submitted by a registered operator
// to open the escrow of Owner with a personal DepositCap.
type CreatePermissionedEscrowWithOperator struct {
	escrowTx

	Owner      presale.AccountID `json:"owner"`
	DepositCap uint64            `json:"deposit_cap"`
}

func NewCreatePermissionedEscrowWithOperator(operator presale.AccountID, sale presale.ID, owner presale.AccountID, idx uint8, depositCap uint64) *CreatePermissionedEscrowWithOperator {
	return &CreatePermissionedEscrowWithOperator{
		escrowTx:   newEscrowTx(tx.TypeCreatePermissionedEscrowWithOperator, operator, sale, idx),
		Owner:      owner,
		DepositCap: depositCap,
	}
}

func (op *CreatePermissionedEscrowWithOperator) Validate() error {
	if err := op.escrowTx.Validate(); err != nil {
		return err
	}
	if op.Owner == (presale.AccountID{}) {
		return fmt.Errorf("%w: owner is required", tx.TemBAD_ACCOUNT)
	}
	return nil
}

func (op *CreatePermissionedEscrowWithOperator) Target() [32]byte {
	return keylet.Escrow(op.Presale, op.Owner, op.TrancheIndex).Key
}

func (op *CreatePermissionedEscrowWithOperator) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.Presale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	if p.Whitelist() != presale.WhitelistAuthority {
		return ctx.Fail(presale.ErrWhitelistModeMismatch)
	}
	exists, err := ctx.View().Exists(keylet.Operator(op.Presale, ctx.Account))
	if err != nil {
		return ctx.Fail(err)
	}
	if !exists {
		return ctx.Fail(fmt.Errorf("%w: %s is not an operator", presale.ErrUnauthorized, ctx.Account))
	}
	return openEscrow(ctx, p, op.Owner, op.TrancheIndex, op.DepositCap)
}
