package presale

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AccountID identifies a participant, an owner or an operator.
type AccountID [32]byte

// AssetID identifies a fungible asset.
type AssetID [32]byte

// ID identifies a sale.
type ID [32]byte

func (a AccountID) String() string { return hex.EncodeToString(a[:]) }
func (a AssetID) String() string { return hex.EncodeToString(a[:]) }
func (id ID) String() string { return hex.EncodeToString(id[:]) }

func (a AccountID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (a AssetID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (a *AccountID) UnmarshalText(b []byte) error { return decodeHash32((*[32]byte)(a), string(b)) }
func (a *AssetID) UnmarshalText(b []byte) error { return decodeHash32((*[32]byte)(a), string(b)) }
func (id *ID) UnmarshalText(b []byte) error { return decodeHash32((*[32]byte)(id), string(b)) }

// ParseID decodes a hex sale id.
func ParseID(s string) (ID, error) {
	var id ID
	err := decodeHash32((*[32]byte)(&id), s)
	return id, err
}

// ParseAccountID decodes a hex account id.
func ParseAccountID(s string) (AccountID, error) {
	var a AccountID
	err := decodeHash32((*[32]byte)(&a), s)
	return a, err
}

func decodeHash32(dst *[32]byte, s string) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(raw))
	}
	copy(dst[:], raw)
	return nil
}

// SaleMode selects the pricing and allocation strategy.
type SaleMode uint8

const (
	ModeFixedPrice SaleMode = iota
	ModeProrata
	ModeFcfs
)

var saleModeNames = map[SaleMode]string{
	ModeFixedPrice: "fixed_price",
	ModeProrata:    "prorata",
	ModeFcfs:       "fcfs",
}

func (m SaleMode) String() string {
	if s, ok := saleModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("SaleMode(%d)", uint8(m))
}

func (m SaleMode) Valid() bool {
	_, ok := saleModeNames[m]
	return ok
}

// ParseSaleMode accepts the names returned by SaleMode.String.
func ParseSaleMode(s string) (SaleMode, error) {
	for m, name := range saleModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSaleMode, s)
}

// WhitelistMode selects how escrows may be created.
type WhitelistMode uint8

const (
	WhitelistOpen WhitelistMode = iota
	WhitelistMerkleProof
	WhitelistAuthority
)

var whitelistModeNames = map[WhitelistMode]string{
	WhitelistOpen:        "open",
	WhitelistMerkleProof: "merkle_proof",
	WhitelistAuthority:   "authority",
}

func (m WhitelistMode) String() string {
	if s, ok := whitelistModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("WhitelistMode(%d)", uint8(m))
}

func (m WhitelistMode) Valid() bool {
	_, ok := whitelistModeNames[m]
	return ok
}

func ParseWhitelistMode(s string) (WhitelistMode, error) {
	for m, name := range whitelistModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWhitelistMode, s)
}

// UnsoldAction is applied once to base left over after a completed sale.
type UnsoldAction uint8

const (
	UnsoldRefund UnsoldAction = iota
	UnsoldBurn
)

func (a UnsoldAction) String() string {
	switch a {
	case UnsoldRefund:
		return "refund"
	case UnsoldBurn:
		return "burn"
	}
	return fmt.Sprintf("UnsoldAction(%d)", uint8(a))
}

func (a UnsoldAction) Valid() bool {
	return a == UnsoldRefund || a == UnsoldBurn
}

func ParseUnsoldAction(s string) (UnsoldAction, error) {
	switch strings.ToLower(s) {
	case "refund":
		return UnsoldRefund, nil
	case "burn":
		return UnsoldBurn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnsoldAction, s)
}

// Progress is derived from the clock and never stored.
type Progress uint8

const (
	ProgressNotStarted Progress = iota
	ProgressOngoing
	ProgressCompleted
	ProgressFailed
)

func (p Progress) String() string {
	switch p {
	case ProgressNotStarted:
		return "not_started"
	case ProgressOngoing:
		return "ongoing"
	case ProgressCompleted:
		return "completed"
	case ProgressFailed:
		return "failed"
	}
	return fmt.Sprintf("Progress(%d)", uint8(p))
}

// Ended reports whether the sale reached a terminal state.
func (p Progress) Ended() bool {
	return p == ProgressCompleted || p == ProgressFailed
}
