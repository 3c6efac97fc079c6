package tx

//go:generate mockgen -destination=mock_tx/mock_tx.go -package=mock_tx github.com/LeJamon/goPresale/internal/core/tx Clock,ValueTransfer

import (
	"context"
	"fmt"
	"time"

	"github.com/LeJamon/goPresale/internal/core/presale"
)

// Clock is the monotonic time source of the engine, in unix seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 { return uint64(time.Now().Unix()) }

// CustodyKind says who holds value at a Custody location.
type CustodyKind uint8

const (
	CustodyAccount CustodyKind = iota
	CustodyBaseVault
	CustodyQuoteVault
	CustodyBurn
)

func (k CustodyKind) String() string {
	switch k {
	case CustodyAccount:
		return "account"
	case CustodyBaseVault:
		return "base_vault"
	case CustodyQuoteVault:
		return "quote_vault"
	case CustodyBurn:
		return "burn"
	}
	return fmt.Sprintf("custody(%d)", uint8(k))
}

// Custody is a place value can be moved from or to. Vaults are per sale.
type Custody struct {
	Kind    CustodyKind       `json:"kind"`
	Account presale.AccountID `json:"account"`
	Sale    presale.ID        `json:"sale"`
}

func AccountCustody(a presale.AccountID) Custody {
	return Custody{Kind: CustodyAccount, Account: a}
}

func BaseVault(sale presale.ID) Custody {
	return Custody{Kind: CustodyBaseVault, Sale: sale}
}

func QuoteVault(sale presale.ID) Custody {
	return Custody{Kind: CustodyQuoteVault, Sale: sale}
}

func Burn() Custody {
	return Custody{Kind: CustodyBurn}
}

// IsVault reports whether c is one of the sale vaults.
func (c Custody) IsVault() bool {
	return c.Kind == CustodyBaseVault || c.Kind == CustodyQuoteVault
}

func (c Custody) String() string {
	switch c.Kind {
	case CustodyAccount:
		return "account:" + c.Account.String()
	case CustodyBaseVault, CustodyQuoteVault:
		return c.Kind.String() + ":" + c.Sale.String()
	}
	return c.Kind.String()
}

// Transfer is one request to move value. Repeating a Transfer with the same
// IdempotencyKey must not move value twice.
type Transfer struct {
	IdempotencyKey [32]byte
	From           Custody
	To             Custody
	Asset          presale.AssetID
	Amount         uint64
}

// ValueTransfer executes transfers. The returned amount is what reached
// the destination and may be below Amount when the asset charges a
// transfer fee.
type ValueTransfer interface {
	Move(ctx context.Context, t Transfer) (received uint64, err error)
}
