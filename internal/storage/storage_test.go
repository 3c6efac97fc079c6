package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/compressed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tt := []struct {
		backend string
		path    string
	}{
		{BackendMemory, ""},
		{BackendPebble, filepath.Join(dir, "pebble")},
		{BackendBbolt, filepath.Join(dir, "bolt", "presale.db")},
		{BackendLevelDB, filepath.Join(dir, "leveldb")},
		{BackendSQLite, filepath.Join(dir, "sqlite", "presale.sqlite")},
	}

	for _, tc := range tt {
		t.Run(tc.backend, func(t *testing.T) {
			db, err := Open(ctx, Options{Backend: tc.backend, Path: tc.path, Compression: "lz4"})
			require.NoError(t, err)
			defer db.Close()

			_, ok := db.(*compressed.DB)
			assert.True(t, ok)

			require.NoError(t, db.Write(ctx, []byte("key"), []byte("value")))
			got, err := db.Read(ctx, []byte("key"))
			require.NoError(t, err)
			assert.Equal(t, []byte("value"), got)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{Backend: "rocksdb", Path: t.TempDir()})
	require.ErrorIs(t, err, database.ErrUnknownBackend)

	_, err = Open(ctx, Options{Backend: BackendPebble})
	require.Error(t, err)

	_, err = Open(ctx, Options{Backend: BackendPostgres})
	require.Error(t, err)

	_, err = Open(ctx, Options{Backend: BackendMemory, Compression: "zstd"})
	require.Error(t, err)
}
