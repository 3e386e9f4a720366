package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// ErrNATSURLRequired is returned when the NATS server URL is missing.
var ErrNATSURLRequired = errors.New("messaging: nats url is required")

// NATSConfig configures the NATS implementation.
type NATSConfig struct {
	URL     string
	Options []nats.Option
}

// NATS is backed by core NATS; the consumer group is a queue group.
type NATS struct {
	conn *nats.Conn
}

// NewNATS connects to cfg.URL.
func NewNATS(cfg NATSConfig) (*NATS, error) {
	if cfg.URL == "" {
		return nil, ErrNATSURLRequired
	}

	conn, err := nats.Connect(cfg.URL, cfg.Options...)
	if err != nil {
		return nil, fmt.Errorf("messaging: nats connect: %w", err)
	}

	return &NATS{conn: conn}, nil
}

// Close drains the connection, letting in-flight handlers finish.
func (n *NATS) Close() error {
	if n.conn.IsClosed() {
		return nil
	}

	return n.conn.Drain()
}

func (n *NATS) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}

	m := nats.NewMsg(topic)
	m.Data = msg.Body
	for k, v := range msg.Headers {
		m.Header.Set(k, v)
	}

	if err := n.conn.PublishMsg(m); err != nil {
		return fmt.Errorf("messaging: nats publish: %w", err)
	}
	if err := n.conn.Flush(); err != nil {
		return fmt.Errorf("messaging: nats flush: %w", err)
	}

	return nil
}

func (n *NATS) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	msgCh := make(chan *nats.Msg, co.concurrency)
	sub, err := n.conn.QueueSubscribe(topic, co.group, func(m *nats.Msg) {
		select {
		case msgCh <- m:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("messaging: nats subscribe: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgCh {
				//nolint:errcheck // logged by dispatch
				_ = dispatch(ctx, DriverNATS, handler, &natsMessage{msg: m}, co)
			}
		})
	}

	<-ctx.Done()
	derr := sub.Drain()
	close(msgCh)
	wg.Wait()

	return errors.Join(ctx.Err(), derr)
}

type natsMessage struct {
	reply
	msg *nats.Msg
}

func (m *natsMessage) ID() string {
	if md, err := m.msg.Metadata(); err == nil {
		return fmt.Sprintf("%d", md.Sequence.Stream)
	}

	return ""
}

func (m *natsMessage) Topic() string            { return m.msg.Subject }
func (m *natsMessage) Body() []byte             { return m.msg.Data }
func (m *natsMessage) Header(key string) string { return m.msg.Header.Get(key) }

func (m *natsMessage) Ack(context.Context) error {
	return m.once(func() error { return ignoreNoReply(m.msg.Ack()) })
}

func (m *natsMessage) Nack(context.Context) error {
	return m.once(func() error { return ignoreNoReply(m.msg.Nak()) })
}

// Core NATS messages carry no ack subject; only JetStream ones do.
func ignoreNoReply(err error) error {
	if errors.Is(err, nats.ErrMsgNoReply) || errors.Is(err, nats.ErrMsgNotBound) {
		return nil
	}

	return err
}
