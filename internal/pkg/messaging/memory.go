package messaging

import (
	"context"
	"io"
	"strconv"
	"sync"

	"go.uber.org/atomic"
)

// Memory is an in-process bus for local runs and tests. Each group receives
// every message once; nacked messages are redelivered to the group.
type Memory struct {
	closed atomic.Bool
	seq    atomic.Uint64

	mu     sync.RWMutex
	groups map[string]map[string]chan *memoryMessage
}

// NewMemory returns an empty bus.
func NewMemory() *Memory {
	return &Memory{groups: make(map[string]map[string]chan *memoryMessage)}
}

func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *Memory) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}
	if m.closed.Load() {
		return io.ErrClosedPipe
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	id := strconv.FormatUint(m.seq.Inc(), 10)
	for _, ch := range m.groups[topic] {
		select {
		case ch <- &memoryMessage{id: id, topic: topic, out: msg, queue: ch}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (m *Memory) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	ch := m.subscribe(topic, co.group)

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case msg := <-ch:
					//nolint:errcheck // logged by dispatch
					_ = dispatch(ctx, DriverMemory, handler, msg, co)
				}
			}
		})
	}
	wg.Wait()

	return ctx.Err()
}

func (m *Memory) subscribe(topic, group string) chan *memoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.groups[topic] == nil {
		m.groups[topic] = make(map[string]chan *memoryMessage)
	}
	ch, ok := m.groups[topic][group]
	if !ok {
		ch = make(chan *memoryMessage, 64)
		m.groups[topic][group] = ch
	}

	return ch
}

type memoryMessage struct {
	reply
	id    string
	topic string
	out   Outgoing
	queue chan *memoryMessage
}

func (m *memoryMessage) ID() string               { return m.id }
func (m *memoryMessage) Topic() string            { return m.topic }
func (m *memoryMessage) Body() []byte             { return m.out.Body }
func (m *memoryMessage) Header(key string) string { return m.out.Headers[key] }

func (m *memoryMessage) Ack(context.Context) error {
	return m.once(func() error { return nil })
}

func (m *memoryMessage) Nack(ctx context.Context) error {
	return m.once(func() error {
		redelivery := &memoryMessage{id: m.id, topic: m.topic, out: m.out, queue: m.queue}
		go func() {
			select {
			case m.queue <- redelivery:
			case <-ctx.Done():
			}
		}()
		return nil
	})
}
