//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"crossledger/internal/events"
	platformkafka "crossledger/internal/platform/kafka"
	"crossledger/pkg/domain"
	"crossledger/pkg/testutil/containers"
)

func TestPublisherRoundTrip(t *testing.T) {
	ctx := context.Background()
	rp := containers.GetManager().GetRedpanda(t)

	const topic = "crossledger.events.test"
	producer, err := platformkafka.New(ctx, rp.Brokers, topic)
	require.NoError(t, err)
	t.Cleanup(producer.Close)

	pub := events.NewPublisher(producer, topic, events.NewMetricsWith(prometheus.NewRegistry()))

	ev := events.NewEvent(events.KindTransfer, 2)
	ev.From = domain.Principal("alice")
	ev.To = domain.Principal("bob")
	ev.Amount = domain.FormatAmount(uint256.NewInt(500))
	require.NoError(t, pub.Publish(ctx, ev))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, ev.ID.String(), string(records[0].Key))

	var got events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, events.KindTransfer, got.Kind)
	assert.Equal(t, "500", got.Amount)
}
