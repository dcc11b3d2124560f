package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	req := require.New(t)

	msg, err := NewMessage("user-1", "hello")
	req.NoError(err)
	req.NotEmpty(msg.ID)
	req.Equal("hello", msg.Text)
	req.Equal("user-1", msg.AuthorID)
	req.WithinDuration(time.Now().UTC(), msg.CreatedAt, time.Second)
}

func TestNewMessage_AssignsUniqueIDs(t *testing.T) {
	req := require.New(t)

	a, err := NewMessage("user-1", "first")
	req.NoError(err)
	b, err := NewMessage("user-1", "second")
	req.NoError(err)

	req.NotEqual(a.ID, b.ID)
}

func TestNewMessage_RejectsEmptyText(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"spaces only", "   "},
		{"whitespace mix", " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage("user-1", tt.text)
			req.ErrorIs(err, ErrEmptyMessage)
			req.Nil(msg)
		})
	}
}

func TestNewMessage_KeepsSurroundingWhitespace(t *testing.T) {
	req := require.New(t)

	msg, err := NewMessage("user-1", "  hello  ")
	req.NoError(err)
	req.Equal("  hello  ", msg.Text)
}
