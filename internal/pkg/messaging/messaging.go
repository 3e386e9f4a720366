package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrTopicRequired is returned when publishing or consuming without a topic.
	ErrTopicRequired = errors.New("messaging: topic is required")
	// ErrGroupRequired is returned when the driver needs a consumer group.
	ErrGroupRequired = errors.New("messaging: consumer group is required")
	// ErrHandlerRequired is returned when Consume is called with a nil handler.
	ErrHandlerRequired = errors.New("messaging: handler is required")
)

// Messaging can publish and consume messages.
type Messaging interface {
	io.Closer
	Publisher
	Consumer
}

// Publisher sends a message to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg Outgoing) error
}

// Consumer blocks delivering messages of topic to handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes a received message. With auto ack (the default) a nil
// error acks the message and a non-nil error nacks it.
type Handler func(ctx context.Context, msg Message) error

// Outgoing is a message to publish.
type Outgoing struct {
	Body []byte
	// Key is used for partitioning where the broker supports it.
	Key     []byte
	Headers map[string]string
}

// Message is a received message.
type Message interface {
	ID() string
	Topic() string
	Body() []byte
	// Header returns the header value or "" when absent. NSQ carries no headers.
	Header(key string) string
	Ack(ctx context.Context) error
	Nack(ctx context.Context) error
}
