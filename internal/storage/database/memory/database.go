// Package memory is an in-process database.DB used for tests and the
// standalone server.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/LeJamon/goPresale/internal/storage/database"
)

type DB struct {
	data     map[string][]byte
	mu       sync.RWMutex
	isClosed bool
}

func New() *DB {
	return &DB{
		data: make(map[string][]byte),
	}
}

func (m *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.isClosed {
		return nil, database.ErrDBClosed
	}
	if value, ok := m.data[string(key)]; ok {
		return bytes.Clone(value), nil
	}
	return nil, database.ErrKeyNotFound
}

func (m *DB) Write(ctx context.Context, key []byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed {
		return database.ErrDBClosed
	}
	m.data[string(key)] = bytes.Clone(value)
	return nil
}

func (m *DB) Delete(ctx context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed {
		return database.ErrDBClosed
	}
	delete(m.data, string(key))
	return nil
}

func (m *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isClosed {
		return database.ErrDBClosed
	}
	for _, op := range ops {
		if op.Type != database.BatchPut && op.Type != database.BatchDelete {
			return database.ErrBatchOperationFailed
		}
	}
	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			m.data[string(op.Key)] = bytes.Clone(op.Value)
		case database.BatchDelete:
			delete(m.data, string(op.Key))
		}
	}
	return nil
}

func (m *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.isClosed {
		return nil, database.ErrDBClosed
	}

	var keys []string
	for k := range m.data {
		if database.InRange([]byte(k), start, end) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	ks := make([][]byte, len(keys))
	vs := make([][]byte, len(keys))
	for i, k := range keys {
		ks[i] = []byte(k)
		vs[i] = bytes.Clone(m.data[k])
	}
	return database.NewSliceIterator(ks, vs), nil
}

// Len returns the number of stored keys.
func (m *DB) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *DB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isClosed = true
	return nil
}
