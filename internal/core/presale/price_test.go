package presale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	q, err := ParsePrice("5")
	require.NoError(t, err)
	assert.Equal(t, PriceToQ64(5), q)

	q, err = ParsePrice("0.5")
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<63, q.Uint64())

	for _, bad := range []string{"", "abc", "0", "-1", "0.0000000000000000000000001"} {
		_, err := ParsePrice(bad)
		require.ErrorIs(t, err, ErrInvalidPrice, bad)
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "5", FormatPrice(PriceToQ64(5), 6))

	q, err := ParsePrice("0.25")
	require.NoError(t, err)
	assert.Equal(t, "0.25", FormatPrice(q, 6))
	assert.Equal(t, "", FormatPrice(nil, 6))
}
