package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersRequired is returned when no Kafka brokers are configured.
var ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")

// KafkaConfig configures the Kafka implementation.
type KafkaConfig struct {
	Brokers []string
	Dialer  *kafka.Dialer
}

// Kafka is backed by kafka-go with one writer per topic; the consumer group
// is a Kafka consumer group and acks commit offsets.
type Kafka struct {
	cfg KafkaConfig

	mu      sync.Mutex
	writers map[string]*kafka.Writer
	readers map[*kafka.Reader]struct{}
}

// NewKafka validates cfg; connections are opened lazily.
func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	return &Kafka{
		cfg:     cfg,
		writers: make(map[string]*kafka.Writer),
		readers: make(map[*kafka.Reader]struct{}),
	}, nil
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var err error
	for r := range k.readers {
		err = errors.Join(err, r.Close())
	}
	for _, w := range k.writers {
		err = errors.Join(err, w.Close())
	}
	clear(k.readers)
	clear(k.writers)

	return err
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if topic == "" {
		return ErrTopicRequired
	}

	km := kafka.Message{Key: msg.Key, Value: msg.Body, Time: time.Now()}
	for key, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	if err := k.writer(topic).WriteMessages(ctx, km); err != nil {
		return fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return nil
}

func (k *Kafka) writer(topic string) *kafka.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	//nolint:staticcheck // WriterConfig keeps the dialer option
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  k.cfg.Brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Dialer:   k.cfg.Dialer,
	})
	k.writers[topic] = w

	return w
}

func (k *Kafka) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  k.cfg.Brokers,
		GroupID:  co.group,
		Topic:    topic,
		MaxBytes: 10e6,
		Dialer:   k.cfg.Dialer,
	})
	k.mu.Lock()
	k.readers[reader] = struct{}{}
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		if _, ok := k.readers[reader]; ok {
			delete(k.readers, reader)
			//nolint:errcheck // shutting down
			_ = reader.Close()
		}
		k.mu.Unlock()
	}()

	msgCh := make(chan kafka.Message)
	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for m := range msgCh {
				//nolint:errcheck // logged by dispatch
				_ = dispatch(ctx, DriverKafka, handler, &kafkaMessage{reader: reader, msg: m}, co)
			}
		})
	}

	var err error
	for {
		var m kafka.Message
		m, err = reader.FetchMessage(ctx)
		if err != nil {
			break
		}
		msgCh <- m
	}
	close(msgCh)
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return fmt.Errorf("messaging: kafka consume: %w", err)
}

type kafkaMessage struct {
	reply
	reader *kafka.Reader
	msg    kafka.Message
}

func (m *kafkaMessage) ID() string {
	return fmt.Sprintf("%s/%d/%d", m.msg.Topic, m.msg.Partition, m.msg.Offset)
}

func (m *kafkaMessage) Topic() string { return m.msg.Topic }
func (m *kafkaMessage) Body() []byte  { return m.msg.Value }

func (m *kafkaMessage) Header(key string) string {
	for _, h := range m.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}

	return ""
}

func (m *kafkaMessage) Ack(ctx context.Context) error {
	return m.once(func() error { return m.reader.CommitMessages(ctx, m.msg) })
}

// Nack leaves the offset uncommitted so the group replays it after a rebalance.
func (m *kafkaMessage) Nack(context.Context) error {
	return m.once(func() error { return nil })
}
