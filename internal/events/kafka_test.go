package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	orderID := uuid.New()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	event := OrderEvent{
		Type:       TypeOrderCreated,
		OrderID:    orderID,
		UserID:     uuid.New(),
		Status:     "pending",
		Total:      decimal.RequireFromString("20.50"),
		OccurredAt: at,
	}

	msg, err := newMessage(orderID.String(), event)
	require.NoError(t, err)

	assert.Equal(t, orderID.String(), string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, TypeOrderCreated, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "pending", decoded["status"])
	assert.Equal(t, "20.5", decoded["total"])
	assert.NotContains(t, decoded, "rider_id")
}

func TestNewMessageArbitraryPayload(t *testing.T) {
	msg, err := newMessage("k", map[string]int{"a": 1})
	require.NoError(t, err)
	assert.Empty(t, msg.Headers)
	assert.JSONEq(t, `{"a":1}`, string(msg.Value))

	_, err = newMessage("k", make(chan int))
	assert.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "k", OrderEvent{}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisherFlushesQuickly(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "orders.events")
	defer p.Close()

	assert.Equal(t, batchTimeout, p.writer.BatchTimeout)
	assert.LessOrEqual(t, p.writer.BatchTimeout, 50*time.Millisecond)
	assert.Equal(t, "orders.events", p.writer.Topic)
}
