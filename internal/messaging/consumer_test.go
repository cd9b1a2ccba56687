package messaging_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Roisfaozi/gas.to/internal/clicks"
	"github.com/Roisfaozi/gas.to/internal/messaging"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	msgChan      chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		msgChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, _ string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	return m.msgChan, nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.msgChan)
	}

	return nil
}

func newClickMessage(t *testing.T) (*message.Message, *clicks.ClickRecord) {
	t.Helper()

	record, err := clicks.NewRecord(clicks.TypeShortlink, clicks.LinkTarget("link-1"), 1000)
	require.NoError(t, err)

	payload, err := json.Marshal(record)
	require.NoError(t, err)

	return message.NewMessage(uuid.NewString(), payload), record
}

func TestConsumer_Start(t *testing.T) {
	t.Run("starts successfully", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		)

		err := consumer.Start(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "clicks", consumer.Topic())

		_ = consumer.Shutdown()
	})

	t.Run("returns error when subscribe fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		consumer := messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		)

		assert.Error(t, consumer.Start(context.Background()))
	})
}

func TestConsumer_HandleMessage(t *testing.T) {
	t.Run("acks after the handler persists the record", func(t *testing.T) {
		sub := newMockSubscriber()

		var received *clicks.ClickRecord

		consumer := messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, record *clicks.ClickRecord) error {
				received = record

				return nil
			},
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg, want := newClickMessage(t)
		sub.msgChan <- msg

		select {
		case <-msg.Acked():
			assert.Equal(t, want.ID, received.ID)
			assert.Equal(t, "link-1", received.Target.LinkID)
		case <-msg.Nacked():
			t.Fatal("message was nacked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for ack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks on undecodable payload", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg := message.NewMessage(uuid.NewString(), []byte("not json"))
		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message was acked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})

	t.Run("nacks when the handler fails", func(t *testing.T) {
		sub := newMockSubscriber()
		consumer := messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return errors.New("insert failed") },
			zap.NewNop(),
		)

		require.NoError(t, consumer.Start(context.Background()))

		msg, _ := newClickMessage(t)
		sub.msgChan <- msg

		select {
		case <-msg.Nacked():
		case <-msg.Acked():
			t.Fatal("message was acked")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for nack")
		}

		_ = consumer.Shutdown()
	})
}

func TestConsumerGroup(t *testing.T) {
	t.Run("starts and shuts down all consumers", func(t *testing.T) {
		sub := newMockSubscriber()
		group := messaging.NewConsumerGroup(sub, zap.NewNop())

		group.Add(messaging.NewConsumer(
			sub,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		))

		require.NoError(t, group.Start(context.Background()))
		assert.NoError(t, group.Shutdown())
	})

	t.Run("start failure shuts down already started consumers", func(t *testing.T) {
		good := newMockSubscriber()
		bad := &mockSubscriber{subscribeErr: errors.New("subscribe error")}

		group := messaging.NewConsumerGroup(good, zap.NewNop())
		group.Add(messaging.NewConsumer(
			good,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		))
		group.Add(messaging.NewConsumer(
			bad,
			"clicks",
			func(_ context.Context, _ *clicks.ClickRecord) error { return nil },
			zap.NewNop(),
		))

		assert.Error(t, group.Start(context.Background()))
	})
}
