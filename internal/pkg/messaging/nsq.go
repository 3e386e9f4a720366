package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	nsq "github.com/nsqio/go-nsq"
)

var (
	// ErrNSQProducerAddrRequired is returned when publishing without a producer address.
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
	// ErrNSQConsumerAddrsRequired is returned when no nsqd/lookupd consumer addresses are configured.
	ErrNSQConsumerAddrsRequired = errors.New("messaging: nsq consumer nsqd/lookupd addresses are required")
)

// NSQConfig configures the NSQ implementation.
type NSQConfig struct {
	ProducerAddr         string
	ConsumerNSQDAddrs    []string
	ConsumerLookupdAddrs []string
	ProducerConfig       *nsq.Config
	ConsumerConfig       *nsq.Config
}

// NSQ is backed by nsqd; the consumer group is the channel name.
type NSQ struct {
	cfg      NSQConfig
	producer *nsq.Producer

	mu        sync.Mutex
	consumers []*nsq.Consumer
}

// NewNSQ creates the producer eagerly when ProducerAddr is set.
func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerConfig == nil {
		cfg.ProducerConfig = nsq.NewConfig()
	}
	if cfg.ConsumerConfig == nil {
		cfg.ConsumerConfig = nsq.NewConfig()
	}

	n := &NSQ{cfg: cfg}
	if cfg.ProducerAddr != "" {
		p, err := nsq.NewProducer(cfg.ProducerAddr, cfg.ProducerConfig)
		if err != nil {
			return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
		}
		p.SetLoggerLevel(nsq.LogLevelError)
		n.producer = p
	}

	return n, nil
}

func (n *NSQ) Close() error {
	n.mu.Lock()
	consumers := n.consumers
	n.consumers = nil
	n.mu.Unlock()

	for _, c := range consumers {
		c.Stop()
		<-c.StopChan
	}
	if n.producer != nil {
		n.producer.Stop()
	}

	return nil
}

func (n *NSQ) Publish(ctx context.Context, topic string, msg Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if topic == "" {
		return ErrTopicRequired
	}
	if n.producer == nil {
		return ErrNSQProducerAddrRequired
	}

	if err := n.producer.Publish(topic, msg.Body); err != nil {
		return fmt.Errorf("messaging: nsq publish: %w", err)
	}

	return nil
}

func (n *NSQ) Consume(ctx context.Context, topic string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(topic, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.group == "" {
		return ErrGroupRequired
	}
	if len(n.cfg.ConsumerNSQDAddrs) == 0 && len(n.cfg.ConsumerLookupdAddrs) == 0 {
		return ErrNSQConsumerAddrsRequired
	}

	ccfg := *n.cfg.ConsumerConfig
	if ccfg.MaxInFlight < co.concurrency {
		ccfg.MaxInFlight = co.concurrency
	}

	consumer, err := nsq.NewConsumer(topic, co.group, &ccfg)
	if err != nil {
		return fmt.Errorf("messaging: nsq new consumer: %w", err)
	}
	consumer.SetLoggerLevel(nsq.LogLevelError)
	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		m.DisableAutoResponse()
		return dispatch(ctx, DriverNSQ, handler, &nsqMessage{topic: topic, msg: m}, co)
	}), co.concurrency)

	if len(n.cfg.ConsumerLookupdAddrs) > 0 {
		err = consumer.ConnectToNSQLookupds(n.cfg.ConsumerLookupdAddrs)
	} else {
		err = consumer.ConnectToNSQDs(n.cfg.ConsumerNSQDAddrs)
	}
	if err != nil {
		consumer.Stop()
		return fmt.Errorf("messaging: nsq connect: %w", err)
	}

	n.mu.Lock()
	n.consumers = append(n.consumers, consumer)
	n.mu.Unlock()

	select {
	case <-ctx.Done():
		consumer.Stop()
		<-consumer.StopChan
		return ctx.Err()
	case <-consumer.StopChan:
		return nil
	}
}

type nsqMessage struct {
	reply
	topic string
	msg   *nsq.Message
}

func (m *nsqMessage) ID() string           { return string(m.msg.ID[:]) }
func (m *nsqMessage) Topic() string        { return m.topic }
func (m *nsqMessage) Body() []byte         { return m.msg.Body }
func (m *nsqMessage) Header(string) string { return "" }

func (m *nsqMessage) Ack(context.Context) error {
	return m.once(func() error { m.msg.Finish(); return nil })
}

func (m *nsqMessage) Nack(context.Context) error {
	return m.once(func() error { m.msg.Requeue(-1); return nil })
}
