package events

import (
	"context"

	"github.com/rs/zerolog"
)

// Bus decouples domain services from event persistence and publishing.
// Emit never blocks a ledger operation: when the buffer is full the event is
// dropped and counted, which keeps the ledger's check-then-commit path free
// of downstream backpressure.
type Bus struct {
	ch      chan Event
	log     zerolog.Logger
	metrics *Metrics
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int, log zerolog.Logger, metrics *Metrics) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	return &Bus{
		ch:      make(chan Event, buffer),
		log:     log,
		metrics: metrics,
	}
}

// Emit enqueues an event for the worker.
func (b *Bus) Emit(ev Event) {
	select {
	case b.ch <- ev:
		b.metrics.Emitted.Inc()
	default:
		b.metrics.Dropped.Inc()
		b.log.Warn().Str("kind", string(ev.Kind)).Str("event_id", ev.ID.String()).
			Msg("event bus full, dropping event")
	}
}

// Events exposes the receive side for the worker.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Worker consumes events from the bus and fans them out to the journal
// store and the optional kafka publisher. A store failure stops the worker;
// a publish failure is counted and logged but does not.
type Worker struct {
	store     Store
	publisher *Publisher
	inbox     <-chan Event
	log       zerolog.Logger
}

// NewWorker wires a worker to the bus. publisher may be nil when Kafka is
// not configured.
func NewWorker(bus *Bus, store Store, publisher *Publisher, log zerolog.Logger) *Worker {
	return &Worker{
		store:     store,
		publisher: publisher,
		inbox:     bus.Events(),
		log:       log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-w.inbox:
			if err := w.store.Append(ctx, ev); err != nil {
				return err
			}
			if w.publisher != nil {
				if err := w.publisher.Publish(ctx, ev); err != nil {
					w.log.Error().Err(err).Str("event_id", ev.ID.String()).
						Msg("publish event")
				}
			}
		}
	}
}
