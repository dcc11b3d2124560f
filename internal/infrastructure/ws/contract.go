package ws

import (
	"time"

	"github.com/bazario/chat-service/internal/domain"
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// InboundEvent is what a client is allowed to send over the wire.
type InboundEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Payload structs
type MessagePayload struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	AuthorID  string `json:"authorId"`
	CreatedAt string `json:"createdAt"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewMessageEvent(msg *domain.Message) *Event {
	return &Event{
		Type: MessageNew,
		Data: MessagePayload{
			ID:        msg.ID,
			Text:      msg.Text,
			AuthorID:  msg.AuthorID,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		},
	}
}

func NewAuthError(message string) *Event {
	return &Event{
		Type: AuthenticationError,
		Data: ErrorPayload{
			Code:    "AUTH_FAILED",
			Message: message,
			Retry:   false,
		},
	}
}

func NewStoreError(message string) *Event {
	return &Event{
		Type: StoreError,
		Data: ErrorPayload{
			Code:    "STORE_FAILED",
			Message: message,
			Retry:   true,
		},
	}
}

func NewError(message string) *Event {
	return &Event{
		Type: ErrorEvent,
		Data: ErrorPayload{
			Message: message,
		},
	}
}
