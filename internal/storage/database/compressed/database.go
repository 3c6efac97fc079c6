// Package compressed wraps a database.DB so stored values are sealed with a
// compression.Compressor. Keys are stored unchanged.
package compressed

import (
	"context"

	"github.com/LeJamon/goPresale/internal/storage/compression"
	"github.com/LeJamon/goPresale/internal/storage/database"
)

type DB struct {
	inner      database.Handle
	compressor compression.Compressor
}

func Wrap(inner database.Handle, c compression.Compressor) *DB {
	return &DB{inner: inner, compressor: c}
}

func (d *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	sealed, err := d.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return compression.Open(d.compressor, sealed)
}

func (d *DB) Write(ctx context.Context, key, value []byte) error {
	sealed, err := compression.Seal(d.compressor, value)
	if err != nil {
		return err
	}
	return d.inner.Write(ctx, key, sealed)
}

func (d *DB) Delete(ctx context.Context, key []byte) error {
	return d.inner.Delete(ctx, key)
}

func (d *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	sealed := make([]database.BatchOperation, len(ops))
	for i, op := range ops {
		sealed[i] = op
		if op.Type != database.BatchPut {
			continue
		}
		v, err := compression.Seal(d.compressor, op.Value)
		if err != nil {
			return err
		}
		sealed[i].Value = v
	}
	return d.inner.Batch(ctx, sealed)
}

func (d *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	it, err := d.inner.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &iterator{Iterator: it, compressor: d.compressor}, nil
}

func (d *DB) Close() error {
	return d.inner.Close()
}

type iterator struct {
	database.Iterator
	compressor compression.Compressor
	value      []byte
	err        error
}

func (it *iterator) Next() bool {
	if it.err != nil || !it.Iterator.Next() {
		return false
	}
	it.value, it.err = compression.Open(it.compressor, it.Iterator.Value())
	return it.err == nil
}

func (it *iterator) Value() []byte { return it.value }

func (it *iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.Iterator.Error()
}
