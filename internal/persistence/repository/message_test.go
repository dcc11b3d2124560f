package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/persistence/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), &db.SQLiteConfig{
		DSN:               filepath.Join(t.TempDir(), "chat.db"),
		ConnectionTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestMessageRepository_InsertAndListAll(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	first, err := domain.NewMessage("alice", "hello")
	req.NoError(err)
	second, err := domain.NewMessage("bob", "world")
	req.NoError(err)
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	req.NoError(repo.Insert(ctx, first))
	req.NoError(repo.Insert(ctx, second))

	all, err := repo.ListAll(ctx)
	req.NoError(err)
	req.Len(all, 2)

	// ListAll returns oldest first.
	req.Equal(first.ID, all[0].ID)
	req.Equal("hello", all[0].Text)
	req.Equal("alice", all[0].AuthorID)
	req.Equal(second.ID, all[1].ID)
}

func TestMessageRepository_InsertDuplicateIDFails(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	msg, err := domain.NewMessage("alice", "hello")
	req.NoError(err)

	req.NoError(repo.Insert(ctx, msg))
	req.Error(repo.Insert(ctx, msg))
}

func TestMessageRepository_ListNewestFirstWithLimit(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var ids []string
	for i := 0; i < 5; i++ {
		msg, err := domain.NewMessage("alice", "message")
		req.NoError(err)
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		req.NoError(repo.Insert(ctx, msg))
		ids = append(ids, msg.ID)
	}

	listed, err := repo.List(ctx, 3, time.Time{})
	req.NoError(err)
	req.Len(listed, 3)

	req.Equal(ids[4], listed[0].ID)
	req.Equal(ids[3], listed[1].ID)
	req.Equal(ids[2], listed[2].ID)
}

func TestMessageRepository_ListBeforeCursor(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var ids []string
	for i := 0; i < 4; i++ {
		msg, err := domain.NewMessage("alice", "message")
		req.NoError(err)
		msg.CreatedAt = base.Add(time.Duration(i) * time.Second)
		req.NoError(repo.Insert(ctx, msg))
		ids = append(ids, msg.ID)
	}

	// Strictly-before cursor: the message at the cursor time is excluded.
	listed, err := repo.List(ctx, 10, base.Add(2*time.Second))
	req.NoError(err)
	req.Len(listed, 2)
	req.Equal(ids[1], listed[0].ID)
	req.Equal(ids[0], listed[1].ID)
}

func TestMessageRepository_ListEmptyStore(t *testing.T) {
	req := require.New(t)
	repo := NewMessageRepository(openTestDB(t))

	listed, err := repo.List(context.Background(), 10, time.Time{})
	req.NoError(err)
	req.Empty(listed)
	req.NotNil(listed)
}
