package keylet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	crypto "github.com/LeJamon/goPresale/internal/crypto/common"
)

// Type tags the entry kind stored under a keylet. It is the first byte of
// every store key so that a kind can be range scanned.
type Type byte

const (
	TypePresale     Type = 'P'
	TypeEscrow      Type = 'E'
	TypeMerkleRoot  Type = 'M'
	TypeOperator    Type = 'O'
	TypeIdempotency Type = 'R'
)

func (t Type) String() string {
	switch t {
	case TypePresale:
		return "Presale"
	case TypeEscrow:
		return "Escrow"
	case TypeMerkleRoot:
		return "MerkleRootConfig"
	case TypeOperator:
		return "Operator"
	case TypeIdempotency:
		return "Idempotency"
	}
	return fmt.Sprintf("Type(%d)", byte(t))
}

// Space identifiers for derived ids
const (
	spacePresale uint16 = 'p'
	spaceEscrow  uint16 = 'e'
	spaceReplay  uint16 = 'r'
)

// KeySize is the length of an encoded keylet.
const KeySize = 1 + 32 + 32

var ErrMalformedKey = errors.New("malformed keylet")

// Keylet addresses one stored entry. Every entry of a sale shares the Sale
// component so escrows and configs of a sale are contiguous in the store.
type Keylet struct {
	Type Type
	Sale [32]byte
	Key  [32]byte
}

// Bytes encodes the keylet as type || sale || key.
func (k Keylet) Bytes() []byte {
	out := make([]byte, 0, KeySize)
	out = append(out, byte(k.Type))
	out = append(out, k.Sale[:]...)
	return append(out, k.Key[:]...)
}

func (k Keylet) String() string {
	return fmt.Sprintf("%s:%x:%x", k.Type, k.Sale[:4], k.Key[:4])
}

// Parse decodes a key produced by Bytes.
func Parse(b []byte) (Keylet, error) {
	if len(b) != KeySize {
		return Keylet{}, ErrMalformedKey
	}
	k := Keylet{Type: Type(b[0])}
	copy(k.Sale[:], b[1:33])
	copy(k.Key[:], b[33:])
	return k, nil
}

// indexHash computes a key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Hashv(inputs...)
}

// PresaleID derives the id of the sale of base for quote created by owner.
func PresaleID(base, quote, owner [32]byte) [32]byte {
	return indexHash(spacePresale, base[:], quote[:], owner[:])
}

// Presale returns the keylet of a sale.
func Presale(sale [32]byte) Keylet {
	return Keylet{Type: TypePresale, Sale: sale}
}

// Escrow returns the keylet of the escrow of owner in one tranche.
func Escrow(sale, owner [32]byte, tranche uint8) Keylet {
	return Keylet{
		Type: TypeEscrow,
		Sale: sale,
		Key:  indexHash(spaceEscrow, owner[:], []byte{tranche}),
	}
}

// MerkleRoot returns the keylet of a whitelist root version. The version is
// stored big-endian in the leading bytes so versions iterate in order.
func MerkleRoot(sale [32]byte, version uint64) Keylet {
	k := Keylet{Type: TypeMerkleRoot, Sale: sale}
	binary.BigEndian.PutUint64(k.Key[:8], version)
	return k
}

// Operator returns the keylet of an operator of a sale.
func Operator(sale, operator [32]byte) Keylet {
	return Keylet{Type: TypeOperator, Sale: sale, Key: operator}
}

// Idempotency returns the keylet under which the result of an operation is
// recorded. Retrying with the same target, operation and nonce maps to the
// same key.
func Idempotency(sale, target [32]byte, op string, nonce string) Keylet {
	return Keylet{
		Type: TypeIdempotency,
		Sale: sale,
		Key:  indexHash(spaceReplay, target[:], []byte(op), []byte{0}, []byte(nonce)),
	}
}

// Range returns the [start, end) bounds covering every entry of type t in
// sale.
func Range(t Type, sale [32]byte) (start, end []byte) {
	start = make([]byte, 0, 33)
	start = append(start, byte(t))
	start = append(start, sale[:]...)
	end = next(start)
	return start, end
}

// TypeRange returns the [start, end) bounds covering every entry of type t.
func TypeRange(t Type) (start, end []byte) {
	return []byte{byte(t)}, []byte{byte(t) + 1}
}

// next returns the smallest key greater than every key prefixed by p.
func next(p []byte) []byte {
	out := bytes.Clone(p)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}
