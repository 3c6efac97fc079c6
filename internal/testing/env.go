package testing

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	_ "github.com/LeJamon/goPresale/internal/core/tx/all"
	"github.com/LeJamon/goPresale/internal/core/tx/sale"
	"github.com/LeJamon/goPresale/internal/custody"
	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/memory"
	"github.com/sirupsen/logrus"
)

// TestEnv manages an engine over an in-memory store and custody ledger.
// It provides a simplified interface for creating accounts, funding them,
// submitting operations, and verifying results.
type TestEnv struct {
	t        *testing.T
	db       database.Handle
	store    *ledger.Store
	custody  *custody.MemoryLedger
	clock    *ManualClock
	engine   *tx.Engine
	accounts map[string]*Account

	// nonce numbers operations submitted without one
	nonce uint64
}

// NewTestEnv creates a new test environment with default engine limits.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return NewTestEnvWithLimits(t, presale.Limits{})
}

// NewTestEnvWithLimits creates a test environment whose engine enforces limits.
func NewTestEnvWithLimits(t *testing.T, limits presale.Limits) *TestEnv {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	db := memory.New()
	t.Cleanup(func() { _ = db.Close() })

	store, err := ledger.NewStore(db, ledger.DefaultCacheSize)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	clock := NewManualClock()
	ledgerCustody := custody.NewMemoryLedger(log)

	return &TestEnv{
		t:        t,
		db:       db,
		store:    store,
		custody:  ledgerCustody,
		clock:    clock,
		engine:   tx.NewEngine(store, ledgerCustody, clock, tx.EngineConfig{Limits: limits, Logger: log}),
		accounts: make(map[string]*Account),
	}
}

// Account returns the named account, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	if acc, ok := e.accounts[name]; ok {
		return acc
	}
	acc := NewAccount(name)
	e.accounts[name] = acc
	return acc
}

// Fund mints amount of asset to every account.
func (e *TestEnv) Fund(asset presale.AssetID, amount uint64, accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		if err := e.custody.Mint(tx.AccountCustody(acc.ID), asset, amount); err != nil {
			e.t.Fatalf("Failed to fund %s: %v", acc, err)
		}
	}
}

// SetTransferFee makes transfers of asset lose bps basis points.
func (e *TestEnv) SetTransferFee(asset presale.AssetID, bps uint16) {
	e.t.Helper()
	if err := e.custody.SetTransferFee(asset, bps); err != nil {
		e.t.Fatalf("Failed to set transfer fee: %v", err)
	}
}

// Submit applies an operation. Operations without a nonce get a fresh one.
func (e *TestEnv) Submit(op tx.Transaction) TxResult {
	e.t.Helper()
	common := op.GetCommon()
	if common.Nonce == "" {
		e.nonce++
		common.Nonce = fmt.Sprintf("env-%d", e.nonce)
	}
	return resultFrom(e.engine.Apply(context.Background(), op))
}

// CreatePresale funds the owner with the base supply of op, applies it and
// returns the sale id. The test fails unless the sale is created.
func (e *TestEnv) CreatePresale(op *sale.InitializePresale) presale.ID {
	e.t.Helper()
	var supply uint64
	for _, c := range op.Tranches {
		supply += c.Supply
	}
	if err := e.custody.Mint(tx.AccountCustody(op.Account), op.BaseAsset, supply); err != nil {
		e.t.Fatalf("Failed to fund owner: %v", err)
	}
	result := e.Submit(op)
	if !result.Success {
		e.t.Fatalf("Failed to create presale: %s: %s", result.Code, result.Message)
	}
	return op.PresaleID()
}

// Balance returns what acc holds of asset.
func (e *TestEnv) Balance(acc *Account, asset presale.AssetID) uint64 {
	return e.custody.Balance(tx.AccountCustody(acc.ID), asset)
}

// Presale reads a sale and fails the test when it does not exist.
func (e *TestEnv) Presale(id presale.ID) *presale.Presale {
	e.t.Helper()
	p, err := e.store.Presale(context.Background(), id)
	if err != nil {
		e.t.Fatalf("Failed to read presale %s: %v", id, err)
	}
	return p
}

// Escrow reads an escrow and fails the test when it does not exist.
func (e *TestEnv) Escrow(sale presale.ID, acc *Account, idx uint8) *presale.Escrow {
	e.t.Helper()
	esc, err := e.store.Escrow(context.Background(), sale, acc.ID, idx)
	if err != nil {
		e.t.Fatalf("Failed to read escrow of %s: %v", acc, err)
	}
	return esc
}

// EscrowExists reports whether acc has an escrow in tranche idx.
func (e *TestEnv) EscrowExists(sale presale.ID, acc *Account, idx uint8) bool {
	_, err := e.store.Escrow(context.Background(), sale, acc.ID, idx)
	return err == nil
}

// Now returns the clock reading.
func (e *TestEnv) Now() uint64 {
	return e.clock.Now()
}

// AdvanceTime moves the clock forward by d seconds.
func (e *TestEnv) AdvanceTime(d uint64) {
	e.clock.Advance(d)
}

// SetTime sets the clock.
func (e *TestEnv) SetTime(t uint64) {
	e.clock.Set(t)
}

func (e *TestEnv) Engine() *tx.Engine { return e.engine }

func (e *TestEnv) Store() *ledger.Store { return e.store }

func (e *TestEnv) Custody() *custody.MemoryLedger { return e.custody }

func (e *TestEnv) Clock() *ManualClock { return e.clock }
