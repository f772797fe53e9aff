package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "restaurant_events"}

	ev := New(OrderItemAdded, "order", 12, map[string]any{"menu_item_id": 3, "quantity": 2})
	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "restaurant_events", msg.Topic)
	assert.Equal(t, "order:12", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, OrderItemAdded, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, OrderItemAdded, decoded["type"])
	assert.EqualValues(t, 12, decoded["entity_id"])
	assert.NotEmpty(t, decoded["id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := &Producer{writer: w, topic: "t"}

	err := p.Publish(context.Background(), New(StockUpdated, "menu_item", 1, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(nil, "t")
	require.Error(t, err)

	_, err = NewProducer([]string{"localhost:9092"}, "")
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"}, "t")
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNewProducer_WriterFlushesSingleMessages(t *testing.T) {
	p, err := NewProducer([]string{"localhost:9092"}, "t")
	require.NoError(t, err)
	defer p.Close()

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 1, w.BatchSize)
	assert.Equal(t, batchTimeout, w.BatchTimeout)
	assert.Less(t, w.BatchTimeout, 100*time.Millisecond)
	assert.False(t, w.Async)
	assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
}

func TestNew_AssignsUniqueIDs(t *testing.T) {
	a := New(ReservationCreated, "reservation", 1, nil)
	b := New(ReservationCreated, "reservation", 1, nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "reservation:1", a.Key())
}
