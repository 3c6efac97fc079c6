package sale

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeCreateMerkleRootConfig, func() tx.Transaction {
		return &CreateMerkleRootConfig{BaseTx: *tx.NewBaseTx(tx.TypeCreateMerkleRootConfig, presale.AccountID{}, presale.ID{})}
	})
	tx.Register(tx.TypeCloseMerkleRootConfig, func() tx.Transaction {
		return &CloseMerkleRootConfig{BaseTx: *tx.NewBaseTx(tx.TypeCloseMerkleRootConfig, presale.AccountID{}, presale.ID{})}
	})
}

// CreateMerkleRootConfig publishes a whitelist root version of a proof
// gated sale. Several versions may be live at once.
type CreateMerkleRootConfig struct {
	tx.BaseTx

	Version uint64 `json:"version"`

	// Root is the hex encoded tree root
	Root string `json:"root"`
}

func NewCreateMerkleRootConfig(owner presale.AccountID, sale presale.ID, version uint64, root [32]byte) *CreateMerkleRootConfig {
	return &CreateMerkleRootConfig{
		BaseTx:  *tx.NewBaseTx(tx.TypeCreateMerkleRootConfig, owner, sale),
		Version: version,
		Root:    presale.ID(root).String(),
	}
}

func (op *CreateMerkleRootConfig) root() ([32]byte, error) {
	root, err := presale.ParseID(op.Root)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %v", tx.TemBAD_ROOT, err)
	}
	if root == (presale.ID{}) {
		return [32]byte{}, fmt.Errorf("%w: root is zero", tx.TemBAD_ROOT)
	}
	return root, nil
}

func (op *CreateMerkleRootConfig) Validate() error {
	if err := op.BaseTx.Validate(); err != nil {
		return err
	}
	_, err := op.root()
	return err
}

func (op *CreateMerkleRootConfig) Apply(ctx *tx.ApplyContext) tx.Result {
	root, err := op.root()
	if err != nil {
		return ctx.Fail(err)
	}
	p, err := ctx.OwnedPresale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	if p.Whitelist() != presale.WhitelistMerkleProof {
		return tx.TecWHITELIST_MODE
	}
	if p.Progress(ctx.Now).Ended() {
		return tx.TecWRONG_PROGRESS
	}
	cfg := presale.MerkleRootConfig{
		Sale:      op.Presale,
		Version:   op.Version,
		Root:      root,
		CreatedAt: ctx.Now,
	}
	if err := ctx.InsertMerkleRoot(cfg); err != nil {
		return ctx.Fail(err)
	}
	return tx.TesSUCCESS
}

// CloseMerkleRootConfig removes a root version once the sale ended.
type CloseMerkleRootConfig struct {
	tx.BaseTx

	Version uint64 `json:"version"`
}

func NewCloseMerkleRootConfig(owner presale.AccountID, sale presale.ID, version uint64) *CloseMerkleRootConfig {
	return &CloseMerkleRootConfig{
		BaseTx:  *tx.NewBaseTx(tx.TypeCloseMerkleRootConfig, owner, sale),
		Version: version,
	}
}

func (op *CloseMerkleRootConfig) Apply(ctx *tx.ApplyContext) tx.Result {
	p, err := ctx.OwnedPresale(op.Presale)
	if err != nil {
		return ctx.Fail(err)
	}
	if !p.Progress(ctx.Now).Ended() {
		return tx.TecWRONG_PROGRESS
	}
	if err := ctx.EraseMerkleRoot(op.Presale, op.Version); err != nil {
		return ctx.Fail(err)
	}
	return tx.TesSUCCESS
}
