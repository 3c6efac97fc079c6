package ledger

import (
	"context"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSale(t *testing.T, id presale.ID) *presale.Presale {
	t.Helper()
	p, err := presale.New(id, presale.InitParams{
		Owner:        presale.AccountID{0xaa},
		BaseAsset:    presale.AssetID{0xb0},
		QuoteAsset:   presale.AssetID{0xc0},
		Mode:         presale.ModeProrata,
		Whitelist:    presale.WhitelistOpen,
		UnsoldAction: presale.UnsoldBurn,
		MinimumCap:   100,
		MaximumCap:   1000,
		StartTime:    100,
		EndTime:      200,
		VestDuration: 50,
		Tranches:     []presale.TrancheConfig{{Supply: 500, BuyerMaxDeposit: 1000}},
	}, presale.DefaultLimits, 10)
	require.NoError(t, err)
	return p
}

func commitSale(t *testing.T, s *Store, p *presale.Presale) {
	t.Helper()
	data, err := presale.EncodePresale(p)
	require.NoError(t, err)
	require.NoError(t, s.Commit(context.Background(), []Change{{Key: keylet.Presale(p.ID()), Value: data}}))
}

func TestStorePresaleCache(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(memory.New(), 4)
	require.NoError(t, err)

	_, err = s.Presale(ctx, presale.ID{0x01})
	require.ErrorIs(t, err, ErrNotFound)

	p := testSale(t, presale.ID{0x01})
	commitSale(t, s, p)

	got, err := s.Presale(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.Record(), got.Record())

	hits, _ := s.CacheStats()
	assert.Equal(t, uint64(1), hits)

	require.NoError(t, s.Commit(ctx, []Change{{Key: keylet.Presale(p.ID())}}))
	_, err = s.Presale(ctx, p.ID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreEscrowsOfSale(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(memory.New(), 0)
	require.NoError(t, err)

	a := testSale(t, presale.ID{0x01})
	b := testSale(t, presale.ID{0x02})
	commitSale(t, s, a)
	commitSale(t, s, b)

	var changes []Change
	for i := byte(1); i <= 3; i++ {
		e, err := a.OpenEscrow(presale.AccountID{i}, 0, 0, 20)
		require.NoError(t, err)
		data, err := presale.EncodeEscrow(e)
		require.NoError(t, err)
		changes = append(changes, Change{Key: keylet.Escrow(a.ID(), e.Owner(), 0), Value: data})
	}
	other, err := b.OpenEscrow(presale.AccountID{9}, 0, 0, 20)
	require.NoError(t, err)
	data, err := presale.EncodeEscrow(other)
	require.NoError(t, err)
	changes = append(changes, Change{Key: keylet.Escrow(b.ID(), other.Owner(), 0), Value: data})
	require.NoError(t, s.Commit(ctx, changes))

	escrows, err := s.Escrows(ctx, a.ID())
	require.NoError(t, err)
	assert.Len(t, escrows, 3)
	for _, e := range escrows {
		assert.Equal(t, a.ID(), e.Sale())
	}

	e, err := s.Escrow(ctx, b.ID(), presale.AccountID{9}, 0)
	require.NoError(t, err)
	assert.Equal(t, other.Record(), e.Record())

	sales, err := s.Presales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestStoreMerkleRootsAndOperators(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(memory.New(), 0)
	require.NoError(t, err)
	sale := presale.ID{0x01}

	var changes []Change
	for _, v := range []uint64{3, 1, 2} {
		data, err := presale.Marshal(presale.MerkleRootConfig{Sale: sale, Version: v, Root: [32]byte{byte(v)}})
		require.NoError(t, err)
		changes = append(changes, Change{Key: keylet.MerkleRoot(sale, v), Value: data})
	}
	op := presale.Operator{Sale: sale, Operator: presale.AccountID{0x0f}, Creator: presale.AccountID{0xaa}}
	data, err := presale.Marshal(op)
	require.NoError(t, err)
	changes = append(changes, Change{Key: keylet.Operator(sale, op.Operator), Value: data})
	require.NoError(t, s.Commit(ctx, changes))

	roots, err := s.MerkleRoots(ctx, sale)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	for i, r := range roots {
		assert.Equal(t, uint64(i+1), r.Version)
		assert.Equal(t, [32]byte{byte(i + 1)}, r.Root)
	}

	got, err := s.Operator(ctx, sale, op.Operator)
	require.NoError(t, err)
	assert.Equal(t, op, got)

	_, err = s.Operator(ctx, sale, presale.AccountID{0x01})
	require.ErrorIs(t, err, ErrNotFound)
}
