package notifyrabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/handywriterz/order-admin-svc/internal/dal/rabbitmq"
	"github.com/handywriterz/order-admin-svc/internal/service/models/notification"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

const defaultQueue = "handywriterz.order.status_changed"

// Publisher publishes notification events to a RabbitMQ queue.
type Publisher struct {
	client *rabbitmq.Client
	queue  amqp.Queue
	mu     sync.Mutex
}

// MustNewPublisher declares the notification queue and returns a publisher for it.
func MustNewPublisher(client *rabbitmq.Client) *Publisher {
	name := viper.GetString("rabbitmq.notifications_queue")
	if name == "" {
		name = defaultQueue
	}

	queue, err := client.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    name,
		Durable: true,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to declare queue %s: %v", name, err))
	}

	return &Publisher{
		client: client,
		queue:  queue,
	}
}

func (p *Publisher) Name() string {
	return "amqp"
}

// Send publishes the event as JSON.
func (p *Publisher) Send(ctx context.Context, event notification.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.client.Channel().Publish(
		"",
		p.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    event.OccurredAt,
			Type:         string(event.Kind),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
