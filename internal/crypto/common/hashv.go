package crypto

import "crypto/sha256"

// Hashv returns the sha256 digest of the concatenation of parts.
func Hashv(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
