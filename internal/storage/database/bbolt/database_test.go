package bbolt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBoltDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Handle {
		db, err := Open(filepath.Join(t.TempDir(), "presale.db"))
		require.NoError(t, err)
		return db
	})
}

func TestBBoltDBCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presale.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)

	require.ErrorIs(t, db.Close(), database.ErrDBClosed)
}
