package tx

import (
	"fmt"

	"github.com/LeJamon/goPresale/internal/core/presale"
)

// Transaction is the interface that all operation types must implement
type Transaction interface {
	// TxType returns the operation type
	TxType() Type

	// GetCommon returns the common operation fields
	GetCommon() *Common

	// Validate checks the operation without reading state. Errors wrap a
	// tem Result.
	Validate() error

	// Sales returns the presales the operation touches. The engine holds
	// their locks while applying.
	Sales() []presale.ID

	// Target is the entry the nonce is scoped to.
	Target() [32]byte

	// Apply performs the operation against ctx.
	Apply(ctx *ApplyContext) Result
}

// Common contains fields common to all operation types
type Common struct {
	TransactionType string            `json:"transaction_type"`
	Account         presale.AccountID `json:"account"`
	Presale         presale.ID        `json:"presale"`
	Nonce           string            `json:"nonce,omitempty"`
}

// MaxNonceLength bounds the caller supplied nonce.
const MaxNonceLength = 128

// Validate checks the common fields.
func (c *Common) Validate() error {
	if c.Account == (presale.AccountID{}) {
		return fmt.Errorf("%w: account is required", TemBAD_ACCOUNT)
	}
	if len(c.Nonce) > MaxNonceLength {
		return fmt.Errorf("%w: nonce longer than %d bytes", TemBAD_NONCE, MaxNonceLength)
	}
	return nil
}

// BaseTx provides a base implementation for operations
type BaseTx struct {
	Common
	txType Type
}

// NewBaseTx creates a new base operation
func NewBaseTx(txType Type, account presale.AccountID, sale presale.ID) *BaseTx {
	return &BaseTx{
		Common: Common{
			TransactionType: txType.String(),
			Account:         account,
			Presale:         sale,
		},
		txType: txType,
	}
}

// TxType returns the operation type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common operation fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base operation and requires a presale id.
func (b *BaseTx) Validate() error {
	if err := b.Common.Validate(); err != nil {
		return err
	}
	if b.Presale == (presale.ID{}) {
		return fmt.Errorf("%w: presale is required", TemBAD_PRESALE)
	}
	return nil
}

func (b *BaseTx) Sales() []presale.ID {
	return []presale.ID{b.Presale}
}

func (b *BaseTx) Target() [32]byte {
	return b.Account
}

// WithNonce sets the nonce and returns b for chaining in constructors.
func (b *BaseTx) WithNonce(nonce string) *BaseTx {
	b.Nonce = nonce
	return b
}
