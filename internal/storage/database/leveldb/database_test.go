package leveldb

import (
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/dbtest"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Handle {
		db, err := Open(t.TempDir(), 0)
		require.NoError(t, err)
		return db
	})
}
