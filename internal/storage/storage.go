// Package storage opens the configured database backend.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LeJamon/goPresale/internal/storage/compression"
	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/bbolt"
	"github.com/LeJamon/goPresale/internal/storage/database/compressed"
	"github.com/LeJamon/goPresale/internal/storage/database/leveldb"
	"github.com/LeJamon/goPresale/internal/storage/database/memory"
	"github.com/LeJamon/goPresale/internal/storage/database/pebble"
	"github.com/LeJamon/goPresale/internal/storage/database/sqlkv"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendPebble   = "pebble"
	BackendBbolt    = "bbolt"
	BackendLevelDB  = "leveldb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Backends lists every supported backend.
var Backends = []string{BackendMemory, BackendPebble, BackendBbolt, BackendLevelDB, BackendSQLite, BackendPostgres}

type Options struct {
	Backend     string
	Path        string
	DSN         string
	Compression string
	CacheSize   int64
}

// Open opens the backend described by opts, wrapped with value compression
// unless opts.Compression is empty or "none".
func Open(ctx context.Context, opts Options) (database.Handle, error) {
	db, err := openBackend(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.Compression == "" || opts.Compression == "none" {
		return db, nil
	}
	c, err := compression.Get(opts.Compression)
	if err != nil {
		db.Close()
		return nil, err
	}
	return compressed.Wrap(db, c), nil
}

func openBackend(ctx context.Context, opts Options) (database.Handle, error) {
	switch opts.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			if err := ensureDir(filepath.Dir(opts.Path)); err != nil {
				return nil, err
			}
			dsn = opts.Path
		}
		return sqlkv.Open(ctx, sqlkv.SQLite, dsn)
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres backend requires a dsn")
		}
		return sqlkv.Open(ctx, sqlkv.Postgres, opts.DSN)
	}

	if opts.Path == "" {
		return nil, fmt.Errorf("%s backend requires a path", opts.Backend)
	}
	switch opts.Backend {
	case BackendPebble:
		if err := ensureDir(opts.Path); err != nil {
			return nil, err
		}
		return pebble.Open(opts.Path, opts.CacheSize)
	case BackendLevelDB:
		if err := ensureDir(opts.Path); err != nil {
			return nil, err
		}
		return leveldb.Open(opts.Path, int(opts.CacheSize))
	case BackendBbolt:
		if err := ensureDir(filepath.Dir(opts.Path)); err != nil {
			return nil, err
		}
		return bbolt.Open(opts.Path)
	}
	return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, opts.Backend)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
	}
	return nil
}
