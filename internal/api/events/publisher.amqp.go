package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ChangeMessage is the body published for each data change.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	LoyverseID string    `json:"loyverse_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangeMessage builds the message for e.
func NewChangeMessage(e DataChangeEvent, now time.Time) ChangeMessage {
	return ChangeMessage{
		Collection: e.CollectionName,
		Operation:  e.Operation,
		LoyverseID: GetStringField(e.Document, "LoyverseID"),
		OccurredAt: now.UTC(),
	}
}

// RoutingKey is "<collection>.<operation>".
func (m ChangeMessage) RoutingKey() string {
	return m.Collection + "." + m.Operation
}

// channelPublisher is the subset of *amqp.Channel the publisher uses.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DefaultPublishBuffer is the queue size used when none is configured.
const DefaultPublishBuffer = 1024

// AMQPPublisher forwards data changes to a topic exchange. Handle only queues the
// message; a single worker publishes in queue order, so changes to one record reach
// the exchange in the order they were written. A full queue drops the message.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channelPublisher
	exchange string
	queue    chan ChangeMessage
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	log      *logrus.Entry
}

// NewAMQPPublisher dials url, declares a durable topic exchange and starts the worker.
func NewAMQPPublisher(url, exchange string, buffer int) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp exchange declare %s: %w", exchange, err)
	}
	p := newPublisher(ch, exchange, buffer)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channelPublisher, exchange string, buffer int) *AMQPPublisher {
	if buffer <= 0 {
		buffer = DefaultPublishBuffer
	}
	p := &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan ChangeMessage, buffer),
		log:      logger.GetAppLogger().WithField("module", "amqp"),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *AMQPPublisher) run() {
	defer p.wg.Done()
	for msg := range p.queue {
		if err := p.Publish(context.Background(), msg); err != nil {
			p.log.WithError(err).WithField("routing_key", msg.RoutingKey()).Warn("📨 [AMQP] Failed to publish data change")
		}
	}
}

// Publish sends one change message, waiting at most 5s for the broker. Only the
// worker calls it once the publisher is running.
func (p *AMQPPublisher) Publish(ctx context.Context, msg ChangeMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(ctx, p.exchange, msg.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	})
}

// Handle is a DataChangeHandler. It never blocks: when the queue is full or the
// publisher is closed the message is dropped with a warning.
func (p *AMQPPublisher) Handle(_ context.Context, e DataChangeEvent) {
	msg := NewChangeMessage(e, time.Now())

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- msg:
	default:
		p.log.WithField("routing_key", msg.RoutingKey()).Warn("📨 [AMQP] Queue full, data change dropped")
	}
}

// Close stops accepting messages, publishes what is queued, then closes the channel
// and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
