// Package ledger persists presale entries in a database.DB under keylet keys.
package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/LeJamon/goPresale/internal/core/ledger/keylet"
	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/hashicorp/golang-lru/v2"
)

// ErrNotFound is returned when an entry does not exist.
var ErrNotFound = errors.New("ledger entry not found")

// DefaultCacheSize is the number of sale records kept decoded-ready in memory.
const DefaultCacheSize = 1024

// Change is one pending write. A nil Value erases the entry.
type Change struct {
	Key   keylet.Keylet
	Value []byte
}

// Store reads and commits entries. Sale records are cached since every
// operation on a sale reads its record first.
type Store struct {
	db    database.DB
	sales *lru.Cache[presale.ID, []byte]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStore wraps db. A cacheSize of zero uses DefaultCacheSize.
func NewStore(db database.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	sales, err := lru.New[presale.ID, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, sales: sales}, nil
}

// Get returns the raw entry stored under k.
func (s *Store) Get(ctx context.Context, k keylet.Keylet) ([]byte, error) {
	if k.Type == keylet.TypePresale {
		if data, ok := s.sales.Get(k.Sale); ok {
			s.hits.Add(1)
			return bytes.Clone(data), nil
		}
		s.misses.Add(1)
	}

	data, err := s.db.Read(ctx, k.Bytes())
	if errors.Is(err, database.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	if err != nil {
		return nil, err
	}
	if k.Type == keylet.TypePresale {
		s.sales.Add(k.Sale, bytes.Clone(data))
	}
	return data, nil
}

// Commit writes every change in one atomic batch.
func (s *Store) Commit(ctx context.Context, changes []Change) error {
	if len(changes) == 0 {
		return nil
	}
	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		if c.Value == nil {
			ops = append(ops, database.Del(c.Key.Bytes()))
		} else {
			ops = append(ops, database.Put(c.Key.Bytes(), c.Value))
		}
	}
	if err := s.db.Batch(ctx, ops); err != nil {
		// cached sales no longer reflect a known committed state
		for _, c := range changes {
			if c.Key.Type == keylet.TypePresale {
				s.sales.Remove(c.Key.Sale)
			}
		}
		return err
	}
	for _, c := range changes {
		if c.Key.Type != keylet.TypePresale {
			continue
		}
		if c.Value == nil {
			s.sales.Remove(c.Key.Sale)
		} else {
			s.sales.Add(c.Key.Sale, bytes.Clone(c.Value))
		}
	}
	return nil
}

// ForEach calls fn for every entry of type t in sale, in key order. fn
// returning false stops the walk.
func (s *Store) ForEach(ctx context.Context, t keylet.Type, sale presale.ID, fn func(k keylet.Keylet, data []byte) bool) error {
	start, end := keylet.Range(t, sale)
	return s.walk(ctx, start, end, fn)
}

// ForEachType walks entries of type t across every sale.
func (s *Store) ForEachType(ctx context.Context, t keylet.Type, fn func(k keylet.Keylet, data []byte) bool) error {
	start, end := keylet.TypeRange(t)
	return s.walk(ctx, start, end, fn)
}

func (s *Store) walk(ctx context.Context, start, end []byte, fn func(k keylet.Keylet, data []byte) bool) error {
	it, err := s.db.Iterator(ctx, start, end)
	if err != nil {
		return err
	}
	defer it.Close()

	for it.Next() {
		k, err := keylet.Parse(it.Key())
		if err != nil {
			return err
		}
		if !fn(k, it.Value()) {
			break
		}
	}
	return it.Error()
}

// CacheStats returns sale cache hits and misses.
func (s *Store) CacheStats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// Presale loads a sale.
func (s *Store) Presale(ctx context.Context, id presale.ID) (*presale.Presale, error) {
	data, err := s.Get(ctx, keylet.Presale(id))
	if err != nil {
		return nil, err
	}
	return presale.DecodePresale(data)
}

// Presales lists every sale.
func (s *Store) Presales(ctx context.Context) ([]*presale.Presale, error) {
	var (
		out     []*presale.Presale
		iterErr error
	)
	err := s.ForEachType(ctx, keylet.TypePresale, func(_ keylet.Keylet, data []byte) bool {
		p, err := presale.DecodePresale(data)
		if err != nil {
			iterErr = err
			return false
		}
		out = append(out, p)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, iterErr
}

// Escrow loads the escrow of owner in tranche idx of sale.
func (s *Store) Escrow(ctx context.Context, sale presale.ID, owner presale.AccountID, idx uint8) (*presale.Escrow, error) {
	data, err := s.Get(ctx, keylet.Escrow(sale, owner, idx))
	if err != nil {
		return nil, err
	}
	return presale.DecodeEscrow(data)
}

// Escrows lists the escrows of sale.
func (s *Store) Escrows(ctx context.Context, sale presale.ID) ([]*presale.Escrow, error) {
	var (
		out     []*presale.Escrow
		iterErr error
	)
	err := s.ForEach(ctx, keylet.TypeEscrow, sale, func(_ keylet.Keylet, data []byte) bool {
		e, err := presale.DecodeEscrow(data)
		if err != nil {
			iterErr = err
			return false
		}
		out = append(out, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, iterErr
}

// MerkleRoot loads one whitelist root version.
func (s *Store) MerkleRoot(ctx context.Context, sale presale.ID, version uint64) (presale.MerkleRootConfig, error) {
	var cfg presale.MerkleRootConfig
	data, err := s.Get(ctx, keylet.MerkleRoot(sale, version))
	if err != nil {
		return cfg, err
	}
	err = presale.Unmarshal(data, &cfg)
	return cfg, err
}

// MerkleRoots lists the root versions of sale in version order.
func (s *Store) MerkleRoots(ctx context.Context, sale presale.ID) ([]presale.MerkleRootConfig, error) {
	var (
		out     []presale.MerkleRootConfig
		iterErr error
	)
	err := s.ForEach(ctx, keylet.TypeMerkleRoot, sale, func(_ keylet.Keylet, data []byte) bool {
		var cfg presale.MerkleRootConfig
		if iterErr = presale.Unmarshal(data, &cfg); iterErr != nil {
			return false
		}
		out = append(out, cfg)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, iterErr
}

// Operator loads an operator registration.
func (s *Store) Operator(ctx context.Context, sale presale.ID, operator presale.AccountID) (presale.Operator, error) {
	var op presale.Operator
	data, err := s.Get(ctx, keylet.Operator(sale, operator))
	if err != nil {
		return op, err
	}
	err = presale.Unmarshal(data, &op)
	return op, err
}
