// Package notify builds notification messages and pushes them onto the
// queue consumed by the notifier worker.
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/config"
	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
)

// QueueName is declared by both the API (producer) and the notifier worker
// (consumer) so either side can start first.
const QueueName = "notification_queue"

type Publisher struct {
	cfg     *config.Config
	channel *amqp.Channel
}

func NewPublisher(cfg *config.Config, channel *amqp.Channel) *Publisher {
	return &Publisher{
		cfg:     cfg,
		channel: channel,
	}
}

func (p *Publisher) Publish(messages ...domain.NotificationMessage) error {
	for _, message := range messages {
		body, err := json.Marshal(message)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
		err = p.channel.PublishWithContext(
			ctx,
			"",
			QueueName,
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}
