// Package batch_test contains integration tests for batched operations and
// nonce based idempotency.
package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/LeJamon/goPresale/internal/core/tx/escrow"
	jtx "github.com/LeJamon/goPresale/internal/testing"
	"github.com/LeJamon/goPresale/internal/testing/builders"
	"github.com/stretchr/testify/require"
)

var (
	base  = jtx.NewAsset("TKN")
	quote = jtx.NewAsset("USD")
)

// setup creates an fcfs sale, opens escrows for alice and bob and moves the
// clock to the start.
func setup(t *testing.T) (*jtx.TestEnv, presale.ID) {
	t.Helper()
	env := jtx.NewTestEnv(t)
	start := env.Now() + 10
	id := env.CreatePresale(builders.Presale(env.Account("owner"), base, quote, presale.ModeFcfs, start).Build())
	env.Fund(quote, 5000, env.Account("alice"), env.Account("bob"))
	env.SetTime(start)
	for _, name := range []string{"alice", "bob"} {
		jtx.RequireTxSuccess(t, env.Submit(escrow.NewCreatePermissionlessEscrow(env.Account(name).ID, id, 0)))
	}
	return env, id
}

// completed fills the cap and moves the clock to the end of vesting.
func completed(t *testing.T) (*jtx.TestEnv, presale.ID) {
	t.Helper()
	env, id := setup(t)
	jtx.RequireTxSuccess(t, env.Submit(escrow.NewDeposit(env.Account("alice").ID, id, 0, 600)))
	jtx.RequireTxSuccess(t, env.Submit(escrow.NewDeposit(env.Account("bob").ID, id, 0, 400)))
	env.SetTime(env.Presale(id).Timings().VestEnd)
	return env, id
}

func refreshAndClaim(acc *jtx.Account, id presale.ID) *tx.Batch {
	return tx.NewBatch(acc.ID,
		escrow.NewRefreshEscrow(acc.ID, id, acc.ID, 0),
		escrow.NewClaim(acc.ID, id, 0),
	)
}

// --------------------------------------------------------------------------
// TestBatch_RefreshAndClaim
// --------------------------------------------------------------------------

func TestBatch_RefreshAndClaim(t *testing.T) {
	env, id := completed(t)
	alice := env.Account("alice")

	// A claim needs a refresh at the same clock reading
	jtx.RequireTxFail(t, env.Submit(escrow.NewClaim(alice.ID, id, 0)), tx.TecNOT_REFRESHED)

	result := env.Submit(refreshAndClaim(alice, id))
	jtx.RequireTxSuccess(t, result)
	require.Len(t, result.Metadata.Inner, 2)
	require.Equal(t, tx.TesSUCCESS, result.Metadata.Inner[0].TransactionResult)
	require.Equal(t, uint64(600), result.Metadata.Inner[0].Delivered["accrued"])
	require.Equal(t, uint64(600), result.Metadata.Inner[1].Delivered["base"])
	jtx.RequireBalance(t, env, alice, base, 600)

	e := env.Escrow(id, alice, 0)
	require.Equal(t, uint64(600), e.TotalClaimed())
	require.Equal(t, uint64(0), e.PendingClaim())

	jtx.RequireTxFail(t, env.Submit(refreshAndClaim(alice, id)), tx.TecNOTHING_TO_CLAIM)
}

// --------------------------------------------------------------------------
// TestBatch_RollsBack
// --------------------------------------------------------------------------

func TestBatch_RollsBack(t *testing.T) {
	env, id := completed(t)
	alice := env.Account("alice")
	settled := env.Custody().Settled()

	// The withdraw is rejected after the claim would have paid out
	b := tx.NewBatch(alice.ID,
		escrow.NewRefreshEscrow(alice.ID, id, alice.ID, 0),
		escrow.NewClaim(alice.ID, id, 0),
		escrow.NewWithdraw(alice.ID, id, 0, 100),
	)
	jtx.RequireTxFail(t, env.Submit(b), tx.TecWRONG_PROGRESS)

	require.Equal(t, settled, env.Custody().Settled())
	jtx.RequireBalance(t, env, alice, base, 0)
	e := env.Escrow(id, alice, 0)
	require.Equal(t, uint64(0), e.PendingClaim())
	require.Equal(t, uint64(0), e.LastRefreshedAt())
	require.Equal(t, uint64(0), e.TotalClaimed())

	jtx.RequireTxSuccess(t, env.Submit(refreshAndClaim(alice, id)))
	jtx.RequireBalance(t, env, alice, base, 600)
}

// --------------------------------------------------------------------------
// TestBatch_Malformed
// --------------------------------------------------------------------------

func TestBatch_Malformed(t *testing.T) {
	env, id := completed(t)
	alice, bob := env.Account("alice"), env.Account("bob")
	refresh := func(acc *jtx.Account) tx.Transaction {
		return escrow.NewRefreshEscrow(acc.ID, id, acc.ID, 0)
	}

	tooMany := make([]tx.Transaction, tx.MaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = refresh(alice)
	}

	tests := []struct {
		name  string
		batch *tx.Batch
		want  tx.Result
	}{
		{"empty", tx.NewBatch(alice.ID), tx.TemARRAY_EMPTY},
		{"too large", tx.NewBatch(alice.ID, tooMany...), tx.TemARRAY_TOO_LARGE},
		{"nested", tx.NewBatch(alice.ID, refresh(alice), tx.NewBatch(alice.ID, refresh(alice))), tx.TemMALFORMED},
		{"other account", tx.NewBatch(alice.ID, refresh(alice), refresh(bob)), tx.TemBAD_ACCOUNT},
		{"malformed operation", tx.NewBatch(alice.ID, escrow.NewWithdraw(alice.ID, id, 0, 0)), tx.TemBAD_AMOUNT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jtx.RequireTxFail(t, env.Submit(tt.batch), tt.want)
		})
	}
}

// --------------------------------------------------------------------------
// TestIdempotency_Replay
// --------------------------------------------------------------------------

func TestIdempotency_Replay(t *testing.T) {
	env, id := setup(t)
	alice, bob := env.Account("alice"), env.Account("bob")
	deposit := func(acc *jtx.Account, amount uint64, nonce string) jtx.TxResult {
		op := escrow.NewDeposit(acc.ID, id, 0, amount)
		op.Nonce = nonce
		return env.Submit(op)
	}

	first := deposit(alice, 300, "dep-1")
	jtx.RequireTxSuccess(t, first)
	require.False(t, first.Replayed)

	again := deposit(alice, 300, "dep-1")
	jtx.RequireTxSuccess(t, again)
	require.True(t, again.Replayed)
	require.Equal(t, uint64(300), again.Delivered("net"))
	jtx.RequireBalance(t, env, alice, quote, 4700)
	require.Equal(t, uint64(300), env.Escrow(id, alice, 0).TotalDeposit())

	jtx.RequireTxFail(t, deposit(alice, 400, "dep-1"), tx.TefNONCE_REUSED)

	// Nonces are scoped to the target escrow
	jtx.RequireTxSuccess(t, deposit(bob, 200, "dep-1"))
	jtx.RequireBalance(t, env, bob, quote, 4800)
}

// --------------------------------------------------------------------------
// TestIdempotency_EmptyNonce
// --------------------------------------------------------------------------

func TestIdempotency_EmptyNonce(t *testing.T) {
	env, id := setup(t)
	res := env.Engine().Apply(context.Background(), escrow.NewDeposit(env.Account("alice").ID, id, 0, 100))
	require.Equal(t, tx.TemBAD_NONCE, res.Result)
	require.False(t, res.Applied)
}

// --------------------------------------------------------------------------
// TestIdempotency_TransferFailure
// A failed transfer commits nothing and the same nonce can be retried.
// --------------------------------------------------------------------------

func TestIdempotency_TransferFailure(t *testing.T) {
	env, id := setup(t)
	alice, bob := env.Account("alice"), env.Account("bob")

	op := escrow.NewDeposit(alice.ID, id, 0, 600)
	op.Nonce = "dep-retry"
	env.Custody().FailNext(errors.New("custody offline"))
	jtx.RequireTxFail(t, env.Submit(op), tx.TefTRANSFER)
	jtx.RequireBalance(t, env, alice, quote, 5000)
	require.Equal(t, uint64(0), env.Escrow(id, alice, 0).TotalDeposit())

	result := env.Submit(op)
	jtx.RequireTxSuccess(t, result)
	require.False(t, result.Replayed)
	jtx.RequireBalance(t, env, alice, quote, 4400)

	jtx.RequireTxSuccess(t, env.Submit(escrow.NewDeposit(bob.ID, id, 0, 400)))
	env.SetTime(env.Presale(id).Timings().VestEnd)

	claim := refreshAndClaim(alice, id)
	claim.Nonce = "claim-retry"
	env.Custody().FailNext(errors.New("custody offline"))
	jtx.RequireTxFail(t, env.Submit(claim), tx.TefTRANSFER)
	jtx.RequireBalance(t, env, alice, base, 0)
	require.Equal(t, uint64(0), env.Escrow(id, alice, 0).PendingClaim())

	jtx.RequireTxSuccess(t, env.Submit(claim))
	jtx.RequireBalance(t, env, alice, base, 600)

	replay := env.Submit(claim)
	jtx.RequireTxSuccess(t, replay)
	require.True(t, replay.Replayed)
	jtx.RequireBalance(t, env, alice, base, 600)
}
