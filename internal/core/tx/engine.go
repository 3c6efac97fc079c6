package tx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LeJamon/goPresale/internal/core/ledger"
	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	crypto "github.com/LeJamon/goPresale/internal/crypto/common"
	"github.com/LeJamon/goPresale/internal/protocol"
	"github.com/sirupsen/logrus"
)

// Observer is told about every applied operation and transfer.
type Observer interface {
	ObserveApply(op Type, result Result, replayed bool, elapsed time.Duration)
	ObserveTransfer(t Transfer, received uint64)
}

type nopObserver struct{}

func (nopObserver) ObserveApply(Type, Result, bool, time.Duration) {}
func (nopObserver) ObserveTransfer(Transfer, uint64)               {}

// EngineConfig holds configuration for the engine
type EngineConfig struct {
	// Limits bounds sale durations; zero value uses presale.DefaultLimits
	Limits presale.Limits

	// Logger receives one entry per operation; nil uses the logrus standard logger
	Logger logrus.FieldLogger

	// Observer is notified of results and transfers; nil disables it
	Observer Observer
}

// Engine applies operations. Operations on the same sale are serialized;
// different sales proceed in parallel.
type Engine struct {
	store    *ledger.Store
	transfer ValueTransfer
	clock    Clock
	limits   presale.Limits
	log      logrus.FieldLogger
	observer Observer
	locks    *keyedMutex
}

// NewEngine creates an engine committing to store.
func NewEngine(store *ledger.Store, transfer ValueTransfer, clock Clock, config EngineConfig) *Engine {
	if config.Limits == (presale.Limits{}) {
		config.Limits = presale.DefaultLimits
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Observer == nil {
		config.Observer = nopObserver{}
	}
	return &Engine{
		store:    store,
		transfer: transfer,
		clock:    clock,
		limits:   config.Limits,
		log:      config.Logger,
		observer: config.Observer,
		locks:    newKeyedMutex(),
	}
}

// Store returns the store the engine commits to.
func (e *Engine) Store() *ledger.Store {
	return e.store
}

// Metadata contains what an operation delivered. It is stored with the
// idempotency record so a replay reports the same outcome.
type Metadata struct {
	TransactionResult Result            `codec:"result" json:"result"`
	Delivered         map[string]uint64 `codec:"delivered" json:"delivered,omitempty"`
	Created           []string          `codec:"created" json:"created,omitempty"`
	Inner             []Metadata        `codec:"inner" json:"inner,omitempty"`
}

// ApplyResult contains the result of applying an operation
type ApplyResult struct {
	// Result is the result code
	Result Result `json:"result"`

	// Applied indicates the operation changed state
	Applied bool `json:"applied"`

	// Replayed indicates the result came from an earlier application with
	// the same nonce
	Replayed bool `json:"replayed"`

	// AppliedAt is the clock reading of the application
	AppliedAt uint64 `json:"applied_at"`

	// Metadata contains what the operation delivered
	Metadata *Metadata `json:"metadata,omitempty"`

	// Message is a human-readable result message
	Message string `json:"message"`
}

// outcomeRecord is stored under the idempotency keylet of an applied
// operation.
type outcomeRecord struct {
	Type      Type     `codec:"type"`
	Digest    [32]byte `codec:"digest"`
	AppliedAt uint64   `codec:"applied_at"`
	Metadata  Metadata `codec:"metadata"`
}

// Apply processes an operation and commits it when it succeeds.
func (e *Engine) Apply(ctx context.Context, t Transaction) ApplyResult {
	start := time.Now()
	res, err := e.apply(ctx, t)
	e.observer.ObserveApply(t.TxType(), res.Result, res.Replayed, time.Since(start))

	c := t.GetCommon()
	entry := e.log.WithFields(logrus.Fields{
		"op":       t.TxType().String(),
		"presale":  c.Presale.String(),
		"account":  c.Account.String(),
		"result":   res.Result.String(),
		"replayed": res.Replayed,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	switch {
	case res.Result.IsSuccess():
		entry.Debug("operation applied")
	case res.Result.IsTef():
		entry.Error("operation failed")
	default:
		entry.Warn("operation rejected")
	}
	return res
}

func (e *Engine) apply(ctx context.Context, t Transaction) (ApplyResult, error) {
	if err := t.Validate(); err != nil {
		r := ResultOf(err)
		if !r.IsTem() {
			r = TemMALFORMED
		}
		return rejected(r), err
	}
	common := t.GetCommon()
	if common.Nonce == "" {
		return rejected(TemBAD_NONCE), nil
	}
	digest, err := payloadDigest(t)
	if err != nil {
		return rejected(TemMALFORMED), err
	}

	sales := t.Sales()
	unlock := e.locks.Lock(sales...)
	defer unlock()

	now := e.clock.Now()
	opKey := keylet.Idempotency(sales[0], t.Target(), t.TxType().String(), common.Nonce)

	if replay, ok, err := e.replay(ctx, opKey, t.TxType(), digest); err != nil || ok {
		return replay, err
	}

	view := NewApplyStateTable(ctx, e.store)
	meta := &Metadata{}
	actx := &ApplyContext{
		Now:      now,
		Account:  common.Account,
		Limits:   e.limits,
		Metadata: meta,
		ctx:      ctx,
		view:     view,
		engine:   e,
		opKey:    opKey,
	}
	result := t.Apply(actx)
	meta.TransactionResult = result
	if !result.IsSuccess() {
		res := rejected(result)
		res.AppliedAt = now
		return res, actx.Err()
	}

	record, err := presale.Marshal(outcomeRecord{
		Type:      t.TxType(),
		Digest:    digest,
		AppliedAt: now,
		Metadata:  *meta,
	})
	if err != nil {
		return rejected(TefINTERNAL), err
	}
	if err := view.Insert(opKey, record); err != nil {
		return rejected(TefINTERNAL), err
	}
	if err := e.store.Commit(ctx, view.Changes()); err != nil {
		return rejected(TefSTORAGE), err
	}
	return ApplyResult{
		Result:    result,
		Applied:   true,
		AppliedAt: now,
		Metadata:  meta,
		Message:   result.Message(),
	}, nil
}

// replay returns the stored outcome of an operation already applied under
// opKey.
func (e *Engine) replay(ctx context.Context, opKey keylet.Keylet, t Type, digest [32]byte) (ApplyResult, bool, error) {
	data, err := e.store.Get(ctx, opKey)
	if errors.Is(err, ledger.ErrNotFound) {
		return ApplyResult{}, false, nil
	}
	if err != nil {
		return rejected(TefSTORAGE), true, err
	}
	var rec outcomeRecord
	if err := presale.Unmarshal(data, &rec); err != nil {
		return rejected(TefBAD_LEDGER), true, err
	}
	if rec.Type != t || rec.Digest != digest {
		return rejected(TefNONCE_REUSED), true, nil
	}
	return ApplyResult{
		Result:    rec.Metadata.TransactionResult,
		Applied:   true,
		Replayed:  true,
		AppliedAt: rec.AppliedAt,
		Metadata:  &rec.Metadata,
		Message:   rec.Metadata.TransactionResult.Message(),
	}, true, nil
}

func rejected(r Result) ApplyResult {
	return ApplyResult{Result: r, Message: r.Message()}
}

// payloadDigest fingerprints the operation so a nonce reused for another
// payload is detected.
func payloadDigest(t Transaction) ([32]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return [32]byte{}, fmt.Errorf("encode %s: %w", t.TxType(), err)
	}
	prefix := protocol.HashPrefixPayload
	return crypto.Hashv(prefix[:], data), nil
}

// keyedMutex hands out one mutex per sale id and frees it when unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[presale.ID]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[presale.ID]*refLock)}
}

// Lock acquires the locks of ids in a fixed order and returns the release
// function.
func (k *keyedMutex) Lock(ids ...presale.ID) func() {
	ids = sortedUnique(ids)
	held := make([]*refLock, 0, len(ids))
	for _, id := range ids {
		k.mu.Lock()
		l, ok := k.locks[id]
		if !ok {
			l = &refLock{}
			k.locks[id] = l
		}
		l.refs++
		k.mu.Unlock()

		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			k.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.locks, ids[i])
			}
			k.mu.Unlock()
		}
	}
}

func sortedUnique(ids []presale.ID) []presale.ID {
	out := make([]presale.ID, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	n := 0
	for i, id := range out {
		if i == 0 || id != out[n-1] {
			out[n] = id
			n++
		}
	}
	return out[:n]
}
