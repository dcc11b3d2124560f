package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/bazario/chat-service/internal/infrastructure/contracts"
	"github.com/bazario/chat-service/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

type auditConsumer struct {
	rabbitmq *messaging.RabbitMQ
}

// NewAuditConsumer drains the chat audit queue. This is the hook for side
// services (notification fan-out, analytics) that follow chat activity
// without sitting on the hot path.
func NewAuditConsumer(rabbitmq *messaging.RabbitMQ) *auditConsumer {
	return &auditConsumer{
		rabbitmq: rabbitmq,
	}
}

func (c *auditConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.AuditQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		var message contracts.AmqpMessage
		if err := json.Unmarshal(msg.Body, &message); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			return err
		}

		log.Printf("Chat event received: key=%s user=%s", msg.RoutingKey, message.UserID)

		return nil
	})
}
