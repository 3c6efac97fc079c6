// Package merkle implements the whitelist tree: domain separated leaves and
// sorted-pair internal nodes over sha256.
package merkle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	crypto "github.com/LeJamon/goPresale/internal/crypto/common"
	"github.com/LeJamon/goPresale/internal/protocol"
)

// Hash is a node digest.
type Hash = [32]byte

var (
	ErrEmptyTree       = errors.New("merkle tree needs at least one leaf")
	ErrLeafOutOfBounds = errors.New("leaf index out of bounds")
)

// Leaf is the whitelist entry granting Owner a deposit cap in one tranche.
type Leaf struct {
	Owner        [32]byte
	TrancheIndex uint8
	DepositCap   uint64
}

// HashLeaf returns H(0x00 || H(owner || index || LE64(cap))).
func HashLeaf(l Leaf) Hash {
	var capLE [8]byte
	binary.LittleEndian.PutUint64(capLE[:], l.DepositCap)
	inner := crypto.Hashv(l.Owner[:], []byte{l.TrancheIndex}, capLE[:])
	return crypto.Hashv([]byte{protocol.MerkleLeafPrefix}, inner[:])
}

// HashPair returns H(0x01 || min(a,b) || max(a,b)).
func HashPair(a, b Hash) Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return crypto.Hashv([]byte{protocol.MerkleInternalPrefix}, a[:], b[:])
}

// Verify folds proof onto leaf and reports whether the result is root.
func Verify(proof []Hash, root, leaf Hash) bool {
	current := leaf
	for _, sibling := range proof {
		current = HashPair(current, sibling)
	}
	return current == root
}

// VerifyLeaf hashes l and verifies it.
func VerifyLeaf(proof []Hash, root Hash, l Leaf) bool {
	return Verify(proof, root, HashLeaf(l))
}

// Tree is a fully materialized tree. An odd node at the end of a level is
// promoted to the next level unchanged.
type Tree struct {
	levels [][]Hash
}

// NewTree builds a tree over leaves in the given order.
func NewTree(leaves []Leaf) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	level := make([]Hash, len(leaves))
	for i, l := range leaves {
		level[i] = HashLeaf(l)
	}
	return newTreeFromHashes(level), nil
}

func newTreeFromHashes(level []Hash) *Tree {
	t := &Tree{levels: [][]Hash{level}}
	for len(level) > 1 {
		next := make([]Hash, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, HashPair(level[i], level[i+1]))
		}
		t.levels = append(t.levels, next)
		level = next
	}
	return t
}

// Root returns the tree root.
func (t *Tree) Root() Hash {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.levels[0])
}

// Proof returns the sibling path for leaf i.
func (t *Tree) Proof(i int) ([]Hash, error) {
	if i < 0 || i >= t.Len() {
		return nil, fmt.Errorf("%w: %d", ErrLeafOutOfBounds, i)
	}
	var proof []Hash
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := i ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		i /= 2
	}
	return proof, nil
}
