package merkle

import (
	"encoding/hex"
	"testing"

	crypto "github.com/LeJamon/goPresale/internal/crypto/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLeaves(n int) []Leaf {
	leaves := make([]Leaf, n)
	for i := range leaves {
		leaves[i].Owner[0] = byte(i)
		leaves[i].Owner[31] = byte(i * 7)
		leaves[i].TrancheIndex = uint8(i % 5)
		leaves[i].DepositCap = uint64(1000 + i)
	}
	return leaves
}

func TestHashLeafLayout(t *testing.T) {
	l := Leaf{TrancheIndex: 2, DepositCap: 0x0102}
	l.Owner[0] = 0xaa

	raw := make([]byte, 0, 41)
	raw = append(raw, l.Owner[:]...)
	raw = append(raw, 2)
	raw = append(raw, 0x02, 0x01, 0, 0, 0, 0, 0, 0)
	inner := crypto.Hashv(raw)
	expected := crypto.Hashv([]byte{0x00}, inner[:])

	got := HashLeaf(l)
	assert.Equal(t, hex.EncodeToString(expected[:]), hex.EncodeToString(got[:]))
}

func TestHashPairIsOrderIndependent(t *testing.T) {
	a := crypto.Hashv([]byte("a"))
	b := crypto.Hashv([]byte("b"))
	assert.Equal(t, HashPair(a, b), HashPair(b, a))
	assert.NotEqual(t, HashPair(a, b), crypto.Hashv(a[:], b[:]))
}

func TestTreeRoundTrip(t *testing.T) {
	for n := 1; n <= 17; n++ {
		leaves := testLeaves(n)
		tree, err := NewTree(leaves)
		require.NoError(t, err)
		require.Equal(t, n, tree.Len())

		for i, l := range leaves {
			proof, err := tree.Proof(i)
			require.NoError(t, err)
			require.True(t, VerifyLeaf(proof, tree.Root(), l), "n=%d i=%d", n, i)

			for j := range proof {
				for b := 0; b < 32; b += 11 {
					tampered := append([]Hash(nil), proof...)
					tampered[j][b] ^= 0x01
					require.False(t, VerifyLeaf(tampered, tree.Root(), l), "n=%d i=%d j=%d b=%d", n, i, j, b)
				}
			}
		}
	}
}

func TestVerifyRejects(t *testing.T) {
	leaves := testLeaves(4)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	proof, err := tree.Proof(1)
	require.NoError(t, err)

	t.Run("wrong cap", func(t *testing.T) {
		l := leaves[1]
		l.DepositCap++
		assert.False(t, VerifyLeaf(proof, tree.Root(), l))
	})

	t.Run("wrong tranche", func(t *testing.T) {
		l := leaves[1]
		l.TrancheIndex++
		assert.False(t, VerifyLeaf(proof, tree.Root(), l))
	})

	t.Run("wrong root", func(t *testing.T) {
		root := tree.Root()
		root[0] ^= 0xff
		assert.False(t, VerifyLeaf(proof, root, leaves[1]))
	})

	t.Run("flipped proof byte", func(t *testing.T) {
		for i := range proof {
			bad := append([]Hash(nil), proof...)
			bad[i][31] ^= 0x01
			assert.False(t, VerifyLeaf(bad, tree.Root(), leaves[1]), "proof element %d", i)
		}
	})

	t.Run("internal node presented as leaf", func(t *testing.T) {
		// The level-one node over leaves 0 and 1 verifies as a raw digest
		// with the remaining path, but no Leaf can hash to it.
		node := HashPair(HashLeaf(leaves[0]), HashLeaf(leaves[1]))
		assert.True(t, Verify(proof[1:], tree.Root(), node))
		assert.NotEqual(t, node, HashLeaf(Leaf{Owner: node}))
	})
}

func TestTreeErrors(t *testing.T) {
	_, err := NewTree(nil)
	require.ErrorIs(t, err, ErrEmptyTree)

	tree, err := NewTree(testLeaves(3))
	require.NoError(t, err)
	_, err = tree.Proof(3)
	require.ErrorIs(t, err, ErrLeafOutOfBounds)
	_, err = tree.Proof(-1)
	require.ErrorIs(t, err, ErrLeafOutOfBounds)
}

func TestSingleLeafTree(t *testing.T) {
	leaves := testLeaves(1)
	tree, err := NewTree(leaves)
	require.NoError(t, err)
	assert.Equal(t, HashLeaf(leaves[0]), tree.Root())
	proof, err := tree.Proof(0)
	require.NoError(t, err)
	assert.Empty(t, proof)
}
