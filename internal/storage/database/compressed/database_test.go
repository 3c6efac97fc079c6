package compressed

import (
	"bytes"
	"context"
	"testing"

	"github.com/LeJamon/goPresale/internal/storage/compression"
	"github.com/LeJamon/goPresale/internal/storage/database"
	"github.com/LeJamon/goPresale/internal/storage/database/dbtest"
	"github.com/LeJamon/goPresale/internal/storage/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressedDB(t *testing.T) {
	dbtest.Run(t, func(t *testing.T) database.Handle {
		return Wrap(memory.New(), compression.LZ4Compressor{})
	})
}

func TestCompressedDBShrinksValues(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	db := Wrap(inner, compression.LZ4Compressor{})

	value := bytes.Repeat([]byte{0x42}, 4096)
	require.NoError(t, db.Write(ctx, []byte("k"), value))

	raw, err := inner.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Less(t, len(raw), len(value))

	got, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, value, got)
}
