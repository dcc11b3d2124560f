package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChatEventType string

const (
	EventClientConnected    ChatEventType = "client_connected"
	EventClientDisconnected ChatEventType = "client_disconnected"
	EventAuthRejected       ChatEventType = "auth_rejected"
	EventStoreFailure       ChatEventType = "store_failure"
)

type ChatAuditLog struct {
	ID        string         `json:"id"`
	EventType ChatEventType  `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ChatAuditRepository interface {
	Log(ctx context.Context, log *ChatAuditLog) error
	GetByEventType(ctx context.Context, eventType ChatEventType, from, to time.Time) ([]ChatAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
}

func NewClientConnectedLog(connectionID, userID string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		EventType: EventClientConnected,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"connection_id": connectionID,
			"user_id":       userID,
		},
	}
}

func NewClientDisconnectedLog(connectionID, userID string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		EventType: EventClientDisconnected,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"connection_id": connectionID,
			"user_id":       userID,
		},
	}
}

func NewAuthRejectedLog(remoteAddr, reason string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		EventType: EventAuthRejected,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"remote_addr": remoteAddr,
			"reason":      reason,
		},
	}
}

func NewStoreFailureLog(userID, messageID string) *ChatAuditLog {
	return &ChatAuditLog{
		ID:        uuid.NewString(),
		EventType: EventStoreFailure,
		Timestamp: time.Now(),
		Metadata: map[string]any{
			"user_id":    userID,
			"message_id": messageID,
		},
	}
}
