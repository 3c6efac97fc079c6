package sqlkv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Handle {
		db, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "presale.sqlite"))
		require.NoError(t, err)
		return db
	})
}

// TestPostgresDB runs against a live server when PRESALED_TEST_POSTGRES_DSN
// is set.
func TestPostgresDB(t *testing.T) {
	dsn := os.Getenv("PRESALED_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PRESALED_TEST_POSTGRES_DSN not set")
	}
	dbtest.Run(t, func(t *testing.T) database.Handle {
		db, err := Open(context.Background(), Postgres, dsn)
		require.NoError(t, err)
		_, err = db.db.Exec(`TRUNCATE kv`)
		require.NoError(t, err)
		return db
	})
}
