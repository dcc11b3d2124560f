package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message text is empty")

// Message is a single chat message. Once persisted it is immutable; the
// service never edits or deletes messages.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageRepository interface {
	Insert(ctx context.Context, message *Message) error
	// List returns up to limit messages created strictly before the given
	// time, newest first. A zero time means "from the latest".
	List(ctx context.Context, limit int, before time.Time) ([]Message, error)
	ListAll(ctx context.Context) ([]Message, error)
}

// NewMessage builds a message for the given author. The identifier and
// timestamp are assigned here, never by storage or by the client.
func NewMessage(authorID, text string) (*Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	return &Message{
		ID:        uuid.NewString(),
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
