package custody

import (
	"context"
	"errors"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = tx.AccountCustody(presale.AccountID{1})
	vault = tx.QuoteVault(presale.ID{9})
	usd   = presale.AssetID{0xA}
)

func newLedger(t *testing.T) *MemoryLedger {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	l := NewMemoryLedger(log)
	require.NoError(t, l.Mint(alice, usd, 1000))
	return l
}

func TestMoveDebitsAndCredits(t *testing.T) {
	l := newLedger(t)
	got, err := l.Move(context.Background(), tx.Transfer{IdempotencyKey: [32]byte{1}, From: alice, To: vault, Asset: usd, Amount: 400})
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got)
	assert.Equal(t, uint64(600), l.Balance(alice, usd))
	assert.Equal(t, uint64(400), l.Balance(vault, usd))
}

func TestMoveIsIdempotent(t *testing.T) {
	l := newLedger(t)
	tr := tx.Transfer{IdempotencyKey: [32]byte{1}, From: alice, To: vault, Asset: usd, Amount: 400}
	_, err := l.Move(context.Background(), tr)
	require.NoError(t, err)
	got, err := l.Move(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), got)
	assert.Equal(t, uint64(600), l.Balance(alice, usd))
	assert.Equal(t, 1, l.Settled())

	tr.Amount = 1
	_, err = l.Move(context.Background(), tr)
	assert.ErrorIs(t, err, ErrKeyReused)
}

func TestMoveTransferFee(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.SetTransferFee(usd, 100))
	got, err := l.Move(context.Background(), tx.Transfer{IdempotencyKey: [32]byte{2}, From: alice, To: vault, Asset: usd, Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, uint64(495), got)
	assert.Equal(t, uint64(500), l.Balance(alice, usd))
	assert.Equal(t, uint64(495), l.Balance(vault, usd))

	assert.Error(t, l.SetTransferFee(usd, 10_000))
}

func TestMoveErrors(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()

	_, err := l.Move(ctx, tx.Transfer{IdempotencyKey: [32]byte{3}, From: alice, To: vault, Asset: usd, Amount: 1001})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = l.Move(ctx, tx.Transfer{IdempotencyKey: [32]byte{4}, From: tx.Burn(), To: vault, Asset: usd, Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidSource)

	boom := errors.New("boom")
	l.FailNext(boom)
	_, err = l.Move(ctx, tx.Transfer{IdempotencyKey: [32]byte{5}, From: alice, To: vault, Asset: usd, Amount: 1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(1000), l.Balance(alice, usd))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = l.Move(cancelled, tx.Transfer{IdempotencyKey: [32]byte{6}, From: alice, To: vault, Asset: usd, Amount: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
