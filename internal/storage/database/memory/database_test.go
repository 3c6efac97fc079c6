package memory

import (
	"context"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Handle { return New() })
}

func TestMemoryDBCopiesValues(t *testing.T) {
	ctx := context.Background()
	db := New()
	value := []byte("abc")
	require.NoError(t, db.Write(ctx, []byte("k"), value))
	value[0] = 'z'

	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestMemoryDBClosed(t *testing.T) {
	db := New()
	require.NoError(t, db.Close())
	_, err := db.Read(context.Background(), []byte("k"))
	require.ErrorIs(t, err, database.ErrDBClosed)
}

func TestMemoryBatchRejectsUnknownOp(t *testing.T) {
	ctx := context.Background()
	db := New()
	err := db.Batch(ctx, []database.BatchOperation{
		database.Put([]byte("a"), []byte("1")),
		{Type: 9, Key: []byte("b")},
	})
	require.ErrorIs(t, err, database.ErrBatchOperationFailed)
	assert.Zero(t, db.Len())
}
