package testing

import (
	"crypto/sha256"

	"github.com/LeJamon/goPresale/internal/core/presale"
)

// Account represents a test participant.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// ID is derived from the name, so the same name always gives the same id.
	ID presale.AccountID
}

// NewAccount creates a deterministic test account.
func NewAccount(name string) *Account {
	return &Account{Name: name, ID: sha256.Sum256([]byte("account:" + name))}
}

// String returns the name and id of the account.
func (a *Account) String() string {
	return a.Name + " (" + a.ID.String()[:8] + ")"
}

// NewAsset returns a deterministic asset id for a symbol.
func NewAsset(symbol string) presale.AssetID {
	return sha256.Sum256([]byte("asset:" + symbol))
}
