// Package testing provides test infrastructure for presale operations.
//
// # Overview
//
// The testing package provides:
//   - TestEnv: an engine over an in-memory store and custody ledger
//   - Account: deterministic test accounts
//   - ManualClock: a clock the test moves explicitly
//   - Assertions: helpers for results, balances and sale progress
//
// # Basic Usage
//
//	func TestDeposit(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    owner, alice := env.Account("owner"), env.Account("alice")
//	    base, quote := testing.NewAsset("TKN"), testing.NewAsset("USD")
//
//	    id := env.CreatePresale(builders.FixedPrice(owner, base, quote, env.Now(), "5").Build())
//	    env.Fund(quote, 1000, alice)
//
//	    testing.RequireTxSuccess(t, env.Submit(escrow.NewCreatePermissionlessEscrow(alice.ID, id, 0)))
//	    result := env.Submit(escrow.NewDeposit(alice.ID, id, 0, 500))
//	    testing.RequireTxSuccess(t, result)
//	}
//
// # Nonces
//
// Submit assigns a fresh nonce to operations that carry none. Set the
// nonce explicitly to exercise replays.
//
// # Clock Control
//
//	env.AdvanceTime(3600)
//	env.SetTime(end + 1)
//	env.Now()
package testing
