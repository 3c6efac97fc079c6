// Package dbtest holds the behaviour every database.DB backend must share.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh handle returned by open.
func Run(t *testing.T, open func(t *testing.T) database.Handle) {
	ctx := context.Background()

	t.Run("Read Write Delete", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		_, err := db.Read(ctx, []byte("missing"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v1")))
		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)

		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v2")))
		got, err = db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), got)

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Batch Operations", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		require.NoError(t, db.Write(ctx, []byte("gone"), []byte("x")))
		ops := []database.BatchOperation{
			database.Put([]byte("a"), []byte("1")),
			database.Put([]byte("b"), []byte("2")),
			database.Del([]byte("gone")),
		}
		require.NoError(t, db.Batch(ctx, ops))

		got, err := db.Read(ctx, []byte("b"))
		require.NoError(t, err)
		assert.Equal(t, []byte("2"), got)
		_, err = db.Read(ctx, []byte("gone"))
		require.ErrorIs(t, err, database.ErrKeyNotFound)
	})

	t.Run("Iterator", func(t *testing.T) {
		db := open(t)
		defer db.Close()

		var ops []database.BatchOperation
		for i := 0; i < 10; i++ {
			ops = append(ops, database.Put([]byte(fmt.Sprintf("key-%02d", i)), []byte(fmt.Sprintf("value-%d", i))))
		}
		require.NoError(t, db.Batch(ctx, ops))

		it, err := db.Iterator(ctx, []byte("key-03"), []byte("key-07"))
		require.NoError(t, err)
		var keys []string
		for it.Next() {
			keys = append(keys, string(it.Key()))
			assert.NotEmpty(t, it.Value())
		}
		require.NoError(t, it.Error())
		require.NoError(t, it.Close())
		assert.Equal(t, []string{"key-03", "key-04", "key-05", "key-06"}, keys)

		it, err = db.Iterator(ctx, nil, nil)
		require.NoError(t, err)
		count := 0
		for it.Next() {
			count++
		}
		require.NoError(t, it.Close())
		assert.Equal(t, 10, count)
	})
}
