package rabbitmq

import (
	"context"
	"io"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

func TestForwardWaitsForReconnectAfterDeliveriesClose(t *testing.T) {
	client := &defaultAMQPClient{logger: lecho.New(io.Discard)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan amqp.Delivery, 1)
	second := make(chan amqp.Delivery, 1)
	notify := make(chan listenerMsg, 2)
	out := make(chan amqp.Delivery)
	resubscribed := make(chan struct{}, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		client.forward(ctx, first, notify, out, func() (<-chan amqp.Delivery, error) {
			resubscribed <- struct{}{}
			return second, nil
		})
	}()

	first <- amqp.Delivery{RoutingKey: "ledger.requested", Body: []byte("1")}
	select {
	case delivery := <-out:
		assert.Equal(t, []byte("1"), delivery.Body)
	case <-time.After(time.Second):
		t.Fatal("delivery was not forwarded")
	}

	close(first)
	select {
	case _, ok := <-out:
		t.Fatalf("unexpected delivery after the channel closed, open: %v", ok)
	case <-done:
		t.Fatal("forwarding stopped before the reconnect")
	case <-time.After(50 * time.Millisecond):
	}

	second <- amqp.Delivery{RoutingKey: "ledger.requested", Body: []byte("2")}
	notify <- msgReconnect
	select {
	case delivery := <-out:
		assert.Equal(t, []byte("2"), delivery.Body)
	case <-time.After(time.Second):
		t.Fatal("delivery of the new channel was not forwarded")
	}
	require.Len(t, resubscribed, 1)

	notify <- msgClose
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarding did not stop on close")
	}
	_, ok := <-out
	assert.False(t, ok)
}

func TestForwardStopsOnCancelWhileBlocked(t *testing.T) {
	client := &defaultAMQPClient{logger: lecho.New(io.Discard)}
	ctx, cancel := context.WithCancel(context.Background())

	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Body: []byte("unread")}
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.forward(ctx, deliveries, make(chan listenerMsg), make(chan amqp.Delivery), func() (<-chan amqp.Delivery, error) {
			return nil, nil
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarding did not stop on cancel")
	}
}
