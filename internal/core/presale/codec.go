package presale

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

var msgpack = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.WriteExt = true
	return h
}()

// Marshal encodes a stored record as msgpack.
func Marshal(v any) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpack).Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return out, nil
}

// Unmarshal decodes a msgpack record into v.
func Unmarshal(data []byte, v any) error {
	if err := codec.NewDecoderBytes(data, msgpack).Decode(v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

func EncodePresale(p *Presale) ([]byte, error) {
	return Marshal(p.Record())
}

func DecodePresale(data []byte) (*Presale, error) {
	var r PresaleRecord
	if err := Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return FromRecord(r)
}

func EncodeEscrow(e *Escrow) ([]byte, error) {
	return Marshal(e.Record())
}

func DecodeEscrow(data []byte) (*Escrow, error) {
	var r EscrowRecord
	if err := Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return EscrowFromRecord(r), nil
}
