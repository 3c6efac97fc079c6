package compression

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Envelope tags
const (
	tagRaw        byte = 0
	tagCompressed byte = 1
)

var ErrCorruptEnvelope = errors.New("corrupt compression envelope")

// Seal wraps data as tag || uvarint(len(data)) || payload, compressing the
// payload with c when that makes it smaller.
func Seal(c Compressor, data []byte) ([]byte, error) {
	payload, ok, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	tag := tagCompressed
	if !ok {
		tag, payload = tagRaw, data
	}
	out := make([]byte, 1, 1+binary.MaxVarintLen64+len(payload))
	out[0] = tag
	out = binary.AppendUvarint(out, uint64(len(data)))
	return append(out, payload...), nil
}

// Open reverses Seal.
func Open(c Compressor, sealed []byte) ([]byte, error) {
	if len(sealed) < 2 {
		return nil, ErrCorruptEnvelope
	}
	size, n := binary.Uvarint(sealed[1:])
	if n <= 0 {
		return nil, ErrCorruptEnvelope
	}
	payload := sealed[1+n:]
	switch sealed[0] {
	case tagRaw:
		if uint64(len(payload)) != size {
			return nil, ErrCorruptEnvelope
		}
		return append([]byte(nil), payload...), nil
	case tagCompressed:
		return c.Decompress(payload, int(size))
	}
	return nil, fmt.Errorf("%w: tag %d", ErrCorruptEnvelope, sealed[0])
}
