package protocol

// Merkle domain separators. A leaf digest is never a valid internal node
// preimage because the first byte differs.
const (
	MerkleLeafPrefix     byte = 0x00
	MerkleInternalPrefix byte = 0x01
)

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// HashPrefix constants for derived digests.
var (
	HashPrefixTransfer = makeHashPrefix('T', 'R', 'F') // Custody transfer idempotency key
	HashPrefixPayload  = makeHashPrefix('T', 'X', 'N') // Operation payload digest
)
