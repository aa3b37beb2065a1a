package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	mu         sync.Mutex
	published  []published
	bindings   []string
	deliveries chan amqp.Delivery
	publishErr error
	closed     bool
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, name+"|"+key+"|"+exchange)
	return nil
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type fakeAcknowledger struct {
	mu     sync.Mutex
	acked  []uint64
	nacked []uint64
	done   chan struct{}
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	a.acked = append(a.acked, tag)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	a.nacked = append(a.nacked, tag)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func TestPublish(t *testing.T) {
	ch := &fakeChannel{}
	c := &Client{channel: ch, exchange: "order_exchange"}

	err := c.Publish(context.Background(), "order.created", map[string]string{"order_id": "o-1"})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	p := ch.published[0]
	assert.Equal(t, "order_exchange", p.exchange)
	assert.Equal(t, "order.created", p.key)
	assert.Equal(t, "application/json", p.msg.ContentType)
	assert.Equal(t, amqp.Persistent, p.msg.DeliveryMode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(p.msg.Body, &body))
	assert.Equal(t, "o-1", body["order_id"])
}

func TestPublish_Errors(t *testing.T) {
	t.Run("NoChannel", func(t *testing.T) {
		c := &Client{exchange: "order_exchange"}
		assert.Error(t, c.Publish(context.Background(), "order.created", nil))
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ch := &fakeChannel{}
		c := &Client{channel: ch, exchange: "order_exchange"}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, c.Publish(ctx, "order.created", nil), context.Canceled)
		assert.Empty(t, ch.published)
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("channel closed")}
		c := &Client{channel: ch, exchange: "order_exchange"}
		assert.ErrorContains(t, c.Publish(context.Background(), "order.cancelled", nil), "channel closed")
	})
}

func TestConsumeOrderEvents(t *testing.T) {
	ch := &fakeChannel{deliveries: make(chan amqp.Delivery)}
	c := &Client{channel: ch, exchange: "order_exchange"}
	ack := &fakeAcknowledger{done: make(chan struct{}, 2)}

	err := c.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		if string(msg.Body) == "bad" {
			return errors.New("malformed")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"order_events_queue|order.#|order_exchange"}, ch.bindings)

	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{}`)}
	ch.deliveries <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte("bad")}
	for i := 0; i < 2; i++ {
		select {
		case <-ack.done:
		case <-time.After(time.Second):
			t.Fatal("delivery was not settled")
		}
	}
	close(ch.deliveries)

	ack.mu.Lock()
	defer ack.mu.Unlock()
	assert.Equal(t, []uint64{1}, ack.acked)
	assert.Equal(t, []uint64{2}, ack.nacked)
}

func TestClose(t *testing.T) {
	ch := &fakeChannel{}
	c := &Client{channel: ch}
	assert.NoError(t, c.Close())
	assert.True(t, ch.closed)
}
