package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for bridge activity.
type Metrics struct {
	Mints      prometheus.Counter
	Burns      prometheus.Counter
	Duplicates prometheus.Counter
	Rejected   prometheus.Counter
}

// NewMetrics creates bridge metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers against an explicit registerer; tests pass a
// fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Mints: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_bridge_mints_total",
			Help: "Total number of bridge mints applied",
		}),
		Burns: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_bridge_burns_total",
			Help: "Total number of bridge burns applied",
		}),
		Duplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_bridge_duplicates_total",
			Help: "Total number of redelivered bridge messages skipped by the inbox",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_bridge_rejected_total",
			Help: "Total number of bridge calls rejected as unauthorized",
		}),
	}
}
