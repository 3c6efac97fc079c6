// Package sqlkv stores keys in a single two column SQL table. It backs the
// sqlite and postgres storage options.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/LeJamon/goPresale/internal/storage/database"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Dialect captures the SQL differences between drivers.
type Dialect struct {
	Driver   string
	Schema   string
	Get      string
	Upsert   string
	Remove   string
	Scan     string
	ScanFrom string
	ScanAll  string
}

var SQLite = Dialect{
	Driver:   "sqlite",
	Schema:   `CREATE TABLE IF NOT EXISTS kv (k BLOB PRIMARY KEY, v BLOB NOT NULL)`,
	Get:      `SELECT v FROM kv WHERE k = ?`,
	Upsert:   `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v`,
	Remove:   `DELETE FROM kv WHERE k = ?`,
	Scan:     `SELECT k, v FROM kv WHERE k >= ? AND k < ? ORDER BY k`,
	ScanFrom: `SELECT k, v FROM kv WHERE k >= ? ORDER BY k`,
	ScanAll:  `SELECT k, v FROM kv ORDER BY k`,
}

var Postgres = Dialect{
	Driver:   "postgres",
	Schema:   `CREATE TABLE IF NOT EXISTS kv (k BYTEA PRIMARY KEY, v BYTEA NOT NULL)`,
	Get:      `SELECT v FROM kv WHERE k = $1`,
	Upsert:   `INSERT INTO kv (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = excluded.v`,
	Remove:   `DELETE FROM kv WHERE k = $1`,
	Scan:     `SELECT k, v FROM kv WHERE k >= $1 AND k < $2 ORDER BY k`,
	ScanFrom: `SELECT k, v FROM kv WHERE k >= $1 ORDER BY k`,
	ScanAll:  `SELECT k, v FROM kv ORDER BY k`,
}

type DB struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects with dsn and creates the table if needed.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect.Driver, err)
	}
	if dialect.Driver == SQLite.Driver {
		// A single connection serializes writers and keeps :memory: shared.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect.Driver, err)
	}
	if _, err := db.ExecContext(ctx, dialect.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &DB{db: db, dialect: dialect}, nil
}

func (s *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *DB) Write(ctx context.Context, key, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, value)
	return err
}

func (s *DB) Delete(ctx context.Context, key []byte) error {
	_, err := s.db.ExecContext(ctx, s.dialect.Remove, key)
	return err
}

func (s *DB) Batch(ctx context.Context, ops []database.BatchOperation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.Type {
		case database.BatchPut:
			_, err = tx.ExecContext(ctx, s.dialect.Upsert, op.Key, op.Value)
		case database.BatchDelete:
			_, err = tx.ExecContext(ctx, s.dialect.Remove, op.Key)
		default:
			return fmt.Errorf("%w: unknown batch operation type: %d", database.ErrBatchOperationFailed, op.Type)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", database.ErrBatchOperationFailed, err)
		}
	}
	return tx.Commit()
}

func (s *DB) Iterator(ctx context.Context, start, end []byte) (database.Iterator, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if start == nil {
		start = []byte{}
	}
	switch {
	case end != nil:
		rows, err = s.db.QueryContext(ctx, s.dialect.Scan, start, end)
	case len(start) > 0:
		rows, err = s.db.QueryContext(ctx, s.dialect.ScanFrom, start)
	default:
		rows, err = s.db.QueryContext(ctx, s.dialect.ScanAll)
	}
	if err != nil {
		return nil, err
	}
	return &Iterator{rows: rows}, nil
}

func (s *DB) Close() error {
	return s.db.Close()
}

type Iterator struct {
	rows    *sql.Rows
	err     error
	current struct {
		key, value []byte
	}
}

func (it *Iterator) Next() bool {
	if !it.rows.Next() {
		return false
	}
	var k, v []byte
	if err := it.rows.Scan(&k, &v); err != nil {
		it.err = err
		return false
	}
	it.current.key, it.current.value = k, v
	return true
}

func (it *Iterator) Key() []byte   { return it.current.key }
func (it *Iterator) Value() []byte { return it.current.value }

func (it *Iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

func (it *Iterator) Close() error {
	return it.rows.Close()
}
