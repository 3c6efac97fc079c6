package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goPresale/internal/core/presale"
	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveApply(tx.TypeDeposit, tx.TesSUCCESS, false, time.Millisecond)
	c.ObserveApply(tx.TypeDeposit, tx.TesSUCCESS, true, time.Millisecond)
	c.ObserveApply(tx.TypeClaim, tx.TecNOT_REFRESHED, false, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("Deposit", "tesSUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("Deposit", "replayed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("Claim", "tecNOT_REFRESHED")))

	sale := presale.ID{0x01}
	account := tx.AccountCustody(presale.AccountID{0x02})
	c.ObserveTransfer(tx.Transfer{From: account, To: tx.QuoteVault(sale), Amount: 100}, 99)
	c.ObserveTransfer(tx.Transfer{From: tx.BaseVault(sale), To: account, Amount: 40}, 40)
	c.ObserveTransfer(tx.Transfer{From: tx.BaseVault(sale), To: tx.Burn(), Amount: 5}, 5)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.transfers.WithLabelValues("in")))
	assert.Equal(t, 99.0, testutil.ToFloat64(c.amounts.WithLabelValues("in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transfers.WithLabelValues("out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transfers.WithLabelValues("burn")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "presale_operation_duration_seconds"))
}

func TestDirection(t *testing.T) {
	a := tx.AccountCustody(presale.AccountID{0x01})
	b := tx.AccountCustody(presale.AccountID{0x02})
	assert.Equal(t, "other", Direction(tx.Transfer{From: a, To: b}))
	assert.Equal(t, "burn", Direction(tx.Transfer{From: a, To: tx.Burn()}))
}
