package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"webinar-portal/internal/domain"
)

// DefaultQueue receives participant events when no queue is configured.
const DefaultQueue = "participant.events"

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends participant events as JSON to a durable queue.
type Publisher struct {
	conn    *amqp.Connection
	channel Channel
	queue   string

	mu       sync.Mutex
	declared bool
}

// Dial connects to the broker at url and opens a channel.
func Dial(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	p := NewPublisher(ch, queue)
	p.conn = conn
	return p, nil
}

func NewPublisher(ch Channel, queue string) *Publisher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &Publisher{channel: ch, queue: queue}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.declare(); err != nil {
		return err
	}
	return p.channel.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         string(event.Type),
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}

func (p *Publisher) declare() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.declared {
		return nil
	}
	_, err := p.channel.QueueDeclare(
		p.queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	p.declared = true
	return nil
}

func (p *Publisher) Close() error {
	if ch, ok := p.channel.(*amqp.Channel); ok && ch != nil {
		ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
