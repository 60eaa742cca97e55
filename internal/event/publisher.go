package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"bookshop/internal/order"
)

// Producer publishes order events to Kafka through a buffered inbox.
// Writes are asynchronous; the caller never blocks on the broker.
type Producer struct {
	w        *kafka.Writer
	producer string
	log      *logrus.Logger
	inbox    chan kafka.Message
	closeCh  chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewProducer creates a producer for the given brokers. producer is
// the service name stamped into every envelope.
func NewProducer(brokers []string, producer string, buf int, log *logrus.Logger) *Producer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		producer: producer,
		log:      log,
		inbox:    make(chan kafka.Message, buf),
		closeCh:  make(chan struct{}),
	}
}

// Start runs the write loop. The loop drains the inbox until Close
// closes it, then shuts the writer and signals WaitClosed. The loop
// must outlive the HTTP server so requests finishing during shutdown
// can still enqueue.
func (p *Producer) Start() {
	go func() {
		for m := range p.inbox {
			p.write(context.Background(), m)
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

// Close stops accepting events and closes the inbox so the write loop
// can flush and exit. Safe to call more than once; enqueues after
// Close are dropped with a warning.
func (p *Producer) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.inbox)
	})
}

func (p *Producer) write(ctx context.Context, m kafka.Message) {
	if err := p.w.WriteMessages(ctx, m); err != nil {
		p.log.WithFields(logrus.Fields{
			"topic": m.Topic,
			"error": err,
		}).Warn("event publish failed")
	}
}

// WaitClosed blocks until the write loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }

// PublishOrderCreated implements order.Publisher.
func (p *Producer) PublishOrderCreated(o order.Order) {
	p.enqueue(TopicOrderCreated, TypeOrderCreated, o.ID, orderCreatedPayload(o))
}

// PublishOrderStatusChanged implements order.Publisher.
func (p *Producer) PublishOrderStatusChanged(o order.Order) {
	p.enqueue(TopicOrderStatusChanged, TypeOrderStatusChanged, o.ID, OrderStatusChangedPayload{
		OrderID: o.ID,
		Status:  o.Status,
	})
}

func (p *Producer) enqueue(topic, eventType, orderID string, payload any) {
	env, err := NewEnvelope(eventType, p.producer, payload)
	if err != nil {
		p.log.WithField("error", err).Warn("event encode failed")
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.log.WithField("error", err).Warn("event encode failed")
		return
	}

	m := kafka.Message{
		Topic: topic,
		Key:   PartitionKey(orderID),
		Value: value,
		Time:  time.Now(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.WithField("topic", topic).Warn("event dropped, producer closed")
		return
	}
	select {
	case p.inbox <- m:
	default:
		// Full inbox: drop rather than stall order placement.
		p.log.WithField("topic", topic).Warn("event dropped, inbox full")
	}
}
