package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher sends ledger events to kafka so other systems (indexers, the
// cross-domain messenger's monitoring, reconciliation jobs) can observe the
// ledger without polling it.
type Publisher struct {
	client  *kgo.Client
	topic   string
	metrics *Metrics
}

// NewPublisher wraps a produce-ready kafka client. Callers pass nil client
// handling upstream; a Publisher is only constructed when kafka is
// configured.
func NewPublisher(client *kgo.Client, topic string, metrics *Metrics) *Publisher {
	return &Publisher{client: client, topic: topic, metrics: metrics}
}

// Publish produces one record per event, keyed by event id so consumers can
// deduplicate on replay.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		p.metrics.PublishFailure.Inc()
		return fmt.Errorf("marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(ev.ID.String()),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		p.metrics.PublishFailure.Inc()
		return fmt.Errorf("produce event: %w", err)
	}
	p.metrics.Published.Inc()
	return nil
}
