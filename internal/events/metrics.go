package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the event pipeline.
type Metrics struct {
	Emitted        prometheus.Counter
	Dropped        prometheus.Counter
	Published      prometheus.Counter
	PublishFailure prometheus.Counter
}

// NewMetrics creates event pipeline metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers against an explicit registerer; tests pass a
// fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Emitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_events_emitted_total",
			Help: "Total number of ledger events accepted onto the bus",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_events_dropped_total",
			Help: "Total number of ledger events dropped because the bus was full",
		}),
		Published: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_events_published_total",
			Help: "Total number of ledger events published to kafka",
		}),
		PublishFailure: factory.NewCounter(prometheus.CounterOpts{
			Name: "crossledger_events_publish_failures_total",
			Help: "Total number of kafka publish failures",
		}),
	}
}
