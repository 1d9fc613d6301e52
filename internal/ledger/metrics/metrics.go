package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ledger operations.
type Metrics struct {
	Transfers     prometheus.Counter
	Approvals     prometheus.Counter
	TransferFroms prometheus.Counter
	Failures      *prometheus.CounterVec
	OpDurationMs  *prometheus.HistogramVec
}

// New creates ledger metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers against an explicit registerer; tests pass a fresh
// registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Transfers: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_transfers_total",
			Help: "Total number of completed transfers",
		}),
		Approvals: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_approvals_total",
			Help: "Total number of allowance approvals",
		}),
		TransferFroms: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_transfer_froms_total",
			Help: "Total number of completed delegated transfers",
		}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crossledger_operation_failures_total",
			Help: "Total number of failed ledger operations by error code",
		}, []string{"code"}),
		OpDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crossledger_operation_duration_ms",
			Help:    "Ledger operation duration in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		}, []string{"op"}),
	}
}
