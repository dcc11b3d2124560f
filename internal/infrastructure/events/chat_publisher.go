package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/infrastructure/contracts"
	"github.com/bazario/chat-service/internal/infrastructure/messaging"
)

type ChatPublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewChatPublisher(rabbitmq *messaging.RabbitMQ) *ChatPublisher {
	return &ChatPublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *ChatPublisher) PublishMessageSent(ctx context.Context, msg domain.Message) error {
	payload := messaging.MessageEventData{
		Message: msg,
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, contracts.EventMessageSent, contracts.AmqpMessage{
		UserID: msg.AuthorID,
		Data:   eventJSON,
	})
}

func (p *ChatPublisher) PublishClientConnected(ctx context.Context, connectionID, userID string) error {
	return p.publishConnectionEvent(ctx, contracts.EventClientConnected, connectionID, userID)
}

func (p *ChatPublisher) PublishClientDisconnected(ctx context.Context, connectionID, userID string) error {
	return p.publishConnectionEvent(ctx, contracts.EventClientDisconnected, connectionID, userID)
}

func (p *ChatPublisher) publishConnectionEvent(ctx context.Context, routingKey, connectionID, userID string) error {
	payload := messaging.ConnectionEventData{
		ConnectionID: connectionID,
		UserID:       userID,
		At:           time.Now().UTC(),
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, routingKey, contracts.AmqpMessage{
		UserID: userID,
		Data:   eventJSON,
	})
}
