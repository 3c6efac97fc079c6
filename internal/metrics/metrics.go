// Package metrics exposes engine activity to prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/LeJamon/goPresale/internal/core/tx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements tx.Observer.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	transfers  *prometheus.CounterVec
	amounts    *prometheus.CounterVec
}

var _ tx.Observer = (*Collector)(nil)

// NewCollector registers the presale collectors with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "presale_operations_total",
				Help: "Total number of operations by type and result",
			},
			[]string{"op", "result"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "presale_operation_duration_seconds",
				Help:    "Operation apply duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		transfers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "presale_transfers_total",
				Help: "Total number of custody transfers by direction",
			},
			[]string{"direction"},
		),
		amounts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "presale_transferred_amount_total",
				Help: "Sum of amounts received by transfer direction",
			},
			[]string{"direction"},
		),
	}
}

// ObserveApply counts an applied operation. Replays are counted under the
// result "replayed".
func (c *Collector) ObserveApply(op tx.Type, result tx.Result, replayed bool, elapsed time.Duration) {
	label := result.String()
	if replayed {
		label = "replayed"
	}
	c.operations.WithLabelValues(op.String(), label).Inc()
	c.duration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}

// ObserveTransfer counts a settled transfer.
func (c *Collector) ObserveTransfer(t tx.Transfer, received uint64) {
	d := Direction(t)
	c.transfers.WithLabelValues(d).Inc()
	c.amounts.WithLabelValues(d).Add(float64(received))
}

// Direction classifies a transfer as "in" (into a vault), "out" (out of a
// vault), "burn" or "other".
func Direction(t tx.Transfer) string {
	switch {
	case t.To.Kind == tx.CustodyBurn:
		return "burn"
	case t.To.IsVault():
		return "in"
	case t.From.IsVault():
		return "out"
	}
	return "other"
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
