package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bazario/chat-service/internal/domain"
)

type chatAuditLogRepository struct {
	db *sql.DB
}

func NewChatAuditLogRepository(db *sql.DB) domain.ChatAuditRepository {
	return &chatAuditLogRepository{db: db}
}

func (r *chatAuditLogRepository) Log(ctx context.Context, log *domain.ChatAuditLog) error {
	metadata, err := json.Marshal(log.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO chat_audit_logs (id, event_type, timestamp, metadata) VALUES (?, ?, ?, ?)`,
		log.ID, string(log.EventType), log.Timestamp, string(metadata),
	)
	return err
}

func (r *chatAuditLogRepository) GetByEventType(ctx context.Context, eventType domain.ChatEventType, from, to time.Time) ([]domain.ChatAuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_type, timestamp, metadata
		 FROM chat_audit_logs
		 WHERE event_type = ? AND timestamp >= ? AND timestamp <= ?
		 ORDER BY timestamp DESC`,
		string(eventType), from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.ChatAuditLog, 0)
	for rows.Next() {
		var (
			entry    domain.ChatAuditLog
			metadata string
		)
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.Timestamp, &metadata); err != nil {
			return nil, err
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
				return nil, err
			}
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (r *chatAuditLogRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM chat_audit_logs WHERE timestamp < ?`, before)
	return err
}
