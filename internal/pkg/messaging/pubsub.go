package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub/v2"
	"google.golang.org/api/option"
)

// ErrPubSubProjectIDRequired is returned when neither a client nor a project id is given.
var ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")

// PubSubConfig configures the Google Pub/Sub implementation.
type PubSubConfig struct {
	ProjectID     string
	Client        *pubsub.Client
	ClientOptions []option.ClientOption
}

// PubSub is backed by Google Pub/Sub. The consumer group names the
// subscription; without one the topic name is used as the subscription.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewPubSub wraps cfg.Client or creates one for cfg.ProjectID.
func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	client := cfg.Client
	if client == nil {
		if cfg.ProjectID == "" {
			return nil, ErrPubSubProjectIDRequired
		}

		c, err := pubsub.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
		}
		client = c
	}

	return &PubSub{client: client, publishers: make(map[string]*pubsub.Publisher)}, nil
}

func (p *PubSub) Close() error {
	p.mu.Lock()
	for _, pub := range p.publishers {
		pub.Stop()
	}
	clear(p.publishers)
	p.mu.Unlock()

	return p.client.Close()
}

func (p *PubSub) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}

	p.mu.Lock()
	pub, ok := p.publishers[topic]
	if !ok {
		pub = p.client.Publisher(topic)
		p.publishers[topic] = pub
	}
	p.mu.Unlock()

	res := pub.Publish(ctx, &pubsub.Message{Data: msg.Body, Attributes: msg.Headers})
	if _, err := res.Get(ctx); err != nil {
		return fmt.Errorf("messaging: pubsub publish: %w", err)
	}

	return nil
}

func (p *PubSub) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)

	subscription := co.group
	if subscription == "" {
		subscription = topic
	}

	sub := p.client.Subscriber(subscription)
	sub.ReceiveSettings.NumGoroutines = co.concurrency

	return sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		//nolint:errcheck // logged by dispatch
		_ = dispatch(ctx, DriverGooglePubSub, handler, &pubSubMessage{topic: topic, msg: m}, co)
	})
}

type pubSubMessage struct {
	reply
	topic string
	msg   *pubsub.Message
}

func (m *pubSubMessage) ID() string               { return m.msg.ID }
func (m *pubSubMessage) Topic() string            { return m.topic }
func (m *pubSubMessage) Body() []byte             { return m.msg.Data }
func (m *pubSubMessage) Header(key string) string { return m.msg.Attributes[key] }

func (m *pubSubMessage) Ack(context.Context) error {
	return m.once(func() error { m.msg.Ack(); return nil })
}

func (m *pubSubMessage) Nack(context.Context) error {
	return m.once(func() error { m.msg.Nack(); return nil })
}
