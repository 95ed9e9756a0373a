//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "tradeverify/pkg/platform/audit"
	"tradeverify/pkg/testutil/containers"
)

func TestSink_ProducesJSONEvents(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	topic := "audit-" + t.Name()
	sink, err := NewSink([]string{rp.Broker}, topic)
	require.NoError(t, err)
	defer func() { _ = sink.Close(ctx) }()
	require.NoError(t, sink.Ping(ctx))
	require.NoError(t, sink.EnsureTopic(ctx))
	require.NoError(t, sink.EnsureTopic(ctx), "existing topic is not an error")

	event := audit.Event{
		ID:        "evt-1",
		Action:    string(audit.EventFieldVerified),
		Kind:      "swift",
		ValueHash: audit.HashValue("BCITITMM"),
		Verified:  true,
	}
	require.NoError(t, sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, string(audit.EventFieldVerified), string(records[0].Key))
	assert.True(t, got.Verified)
}
