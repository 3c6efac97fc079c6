package testing

import (
	"testing"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/stretchr/testify/require"
)

// RequireTxSuccess asserts that an operation result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected operation success, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that an operation failed with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expected tx.Result) {
	t.Helper()
	require.False(t, result.Success,
		"Expected operation failure with code %s, but it succeeded", expected)
	require.Equal(t, expected.String(), result.Code,
		"Expected failure code %s, got %s: %s", expected, result.Code, result.Message)
}

// RequireBalance asserts that an account holds the expected amount of asset.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, asset presale.AssetID, expected uint64) {
	t.Helper()
	actual := env.Balance(acc, asset)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireProgress asserts the progress of a sale at the current clock.
func RequireProgress(t *testing.T, env *TestEnv, sale presale.ID, expected presale.Progress) {
	t.Helper()
	actual := env.Presale(sale).Progress(env.Now())
	require.Equal(t, expected, actual,
		"Sale progress mismatch: expected %s, got %s", expected, actual)
}

// RequireVaultsCover asserts the quote vault of a sale holds at least the
// deposits and fees its counters record. It only holds until the owner
// takes proceeds out.
func RequireVaultsCover(t *testing.T, env *TestEnv, sale presale.ID) {
	t.Helper()
	p := env.Presale(sale)
	quote := env.Custody().Balance(tx.QuoteVault(sale), p.QuoteAsset())
	owed := p.TotalDeposit() + p.TotalDepositFee()
	require.GreaterOrEqual(t, quote, owed,
		"Quote vault holds %d, counters owe %d", quote, owed)
}
