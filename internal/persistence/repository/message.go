package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bazario/chat-service/internal/domain"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) domain.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Insert(ctx context.Context, message *domain.Message) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, text, user_id, created_at) VALUES (?, ?, ?, ?)`,
		message.ID, message.Text, message.AuthorID, message.CreatedAt,
	)
	return err
}

func (r *messageRepository) List(ctx context.Context, limit int, before time.Time) ([]domain.Message, error) {
	query := `SELECT id, text, user_id, created_at FROM messages`
	args := []any{}

	if !before.IsZero() {
		query += ` WHERE created_at < ?`
		args = append(args, before)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *messageRepository) ListAll(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, text, user_id, created_at FROM messages ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.AuthorID, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
