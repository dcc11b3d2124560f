package messaging

import (
	"time"

	"github.com/bazario/chat-service/internal/domain"
)

const (
	AuditQueue = "chat_audit"
)

type MessageEventData struct {
	Message domain.Message `json:"message"`
}

type ConnectionEventData struct {
	ConnectionID string    `json:"connectionId"`
	UserID       string    `json:"userId"`
	At           time.Time `json:"at"`
}
