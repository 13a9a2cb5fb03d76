package libs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"food-delivery/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultOrderCreatedQueue = "order.created"

// EventPublisher writes order events to a durable RabbitMQ queue.
type EventPublisher struct {
	conn  *amqp.Connection
	queue string

	mu      sync.Mutex
	channel *amqp.Channel
}

func NewEventPublisher(url, queue string) (*EventPublisher, error) {
	if queue == "" {
		queue = DefaultOrderCreatedQueue
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &EventPublisher{conn: conn, queue: queue, channel: channel}, nil
}

func (p *EventPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(models.NewOrderCreatedEvent(order))
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    strconv.FormatInt(order.ID, 10),
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.queue, err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil && err != amqp.ErrClosed {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
