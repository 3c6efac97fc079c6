// Package builders provides fluent operation builders for tests.
//
// A builder starts from a sale shape that initializes cleanly and lets a
// test override only what it cares about:
//
//	// FCFS sale with the default window, caps and tranche
//	Presale(owner, base, quote, presale.ModeFcfs, start).Build()
//
//	// Fixed price sale with a whitelist and a custom tranche
//	FixedPrice(owner, base, quote, start, "0.5").
//	    Whitelist(presale.WhitelistMerkleProof).
//	    Tranche(presale.TrancheConfig{Supply: 500, BuyerMaxDeposit: 100}).
//	    Build()
//
// Build adds DefaultTranche when no tranche was set.
package builders
