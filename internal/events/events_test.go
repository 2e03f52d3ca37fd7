package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopease-service/internal/entity"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherWritesCompletedOrders(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisher(w)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, Event{Type: CartUpdated, SessionID: "s1"}))
	assert.Empty(t, w.msgs)

	order := &entity.Order{ID: "ORD-654321", TotalAmount: decimal.RequireFromString("198")}
	require.NoError(t, p.Publish(ctx, Event{Type: OrderCompleted, SessionID: "s1", Order: order, At: time.Now()}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order.completed.ORD-654321", string(w.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, OrderCompleted, got.Type)
	assert.Equal(t, "ORD-654321", got.Order.ID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestLogPublisher(t *testing.T) {
	p := LogPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: ViewChanged, View: entity.ViewCheckout}))
	assert.NoError(t, p.Close())
}
