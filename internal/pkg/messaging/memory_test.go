package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consumeAsync(t *testing.T, m *Memory, topic string, h Handler, opts ...ConsumeOption) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		//nolint:errcheck // canceled on cleanup
		_ = m.Consume(ctx, topic, h, opts...)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// subscribe happens synchronously before workers start; give it a moment.
	require.Eventually(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return len(m.groups[topic]) > 0
	}, time.Second, 5*time.Millisecond)

	return cancel
}

func TestMemory_PublishConsume(t *testing.T) {
	m := NewMemory()

	got := make(chan Message, 1)
	consumeAsync(t, m, "volunteer.registration", func(_ context.Context, msg Message) error {
		got <- msg
		return nil
	}, WithGroup("notification"))

	err := m.Publish(context.Background(), "volunteer.registration", Outgoing{
		Body:    []byte(`{"id":1}`),
		Headers: map[string]string{"cID": "abc"},
	})
	require.NoError(t, err)

	select {
	case msg := <-got:
		assert.Equal(t, "volunteer.registration", msg.Topic())
		assert.JSONEq(t, `{"id":1}`, string(msg.Body()))
		assert.Equal(t, "abc", msg.Header("cID"))
		assert.Equal(t, "1", msg.ID())
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestMemory_NackRedelivers(t *testing.T) {
	m := NewMemory()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	consumeAsync(t, m, "t", func(context.Context, Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			return errors.New("boom")
		}
		close(done)
		return nil
	})

	require.NoError(t, m.Publish(context.Background(), "t", Outgoing{Body: []byte("x")}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("message not redelivered")
	}
	mu.Lock()
	assert.Equal(t, 2, attempts)
	mu.Unlock()
}

func TestMemory_PanicIsRecovered(t *testing.T) {
	m := NewMemory()

	var calls sync.WaitGroup
	calls.Add(2)
	consumeAsync(t, m, "t", func(_ context.Context, msg Message) error {
		defer calls.Done()
		if string(msg.Body()) == "panic" {
			panic("handler exploded")
		}
		return msg.Ack(context.Background())
	}, WithManualAck())

	require.NoError(t, m.Publish(context.Background(), "t", Outgoing{Body: []byte("panic")}))
	require.NoError(t, m.Publish(context.Background(), "t", Outgoing{Body: []byte("ok")}))

	waited := make(chan struct{})
	go func() { calls.Wait(); close(waited) }()
	select {
	case <-waited:
	case <-time.After(time.Second):
		t.Fatal("consumer stopped after panic")
	}
}

func TestMemory_Validation(t *testing.T) {
	m := NewMemory()

	require.ErrorIs(t, m.Publish(context.Background(), "", Outgoing{}), ErrTopicRequired)
	require.ErrorIs(t, m.Consume(context.Background(), "t", nil), ErrHandlerRequired)

	require.NoError(t, m.Close())
	require.Error(t, m.Publish(context.Background(), "t", Outgoing{}))
}

func TestNewFromDriver(t *testing.T) {
	c, err := NewFromDriver(context.Background(), "memory", FactoryOptions{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = NewFromDriver(context.Background(), "rabbit", FactoryOptions{})
	require.ErrorIs(t, err, ErrUnknownDriver)
}
