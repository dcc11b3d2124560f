package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bazario/chat-service/internal/infrastructure/env"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DefaultDSN               = "./chat.db"
	DefaultConnectionTimeout = 20 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);

CREATE TABLE IF NOT EXISTS chat_audit_logs (
	id         TEXT PRIMARY KEY,
	event_type TEXT NOT NULL,
	timestamp  TIMESTAMP NOT NULL,
	metadata   TEXT
);
CREATE INDEX IF NOT EXISTS idx_chat_audit_logs_event_type ON chat_audit_logs(event_type, timestamp);
`

type SQLiteConfig struct {
	DSN               string
	ConnectionTimeout time.Duration
}

func NewSQLiteDefaultConfig() *SQLiteConfig {
	return &SQLiteConfig{
		DSN:               env.GetString("CHAT_DB_DSN", DefaultDSN),
		ConnectionTimeout: DefaultConnectionTimeout,
	}
}

// Open connects to the sqlite database, verifies it is reachable and
// bootstraps the schema. WAL mode keeps concurrent readers from blocking
// the single writer.
func Open(ctx context.Context, cfg *SQLiteConfig) (*sql.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sqlite config is required")
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sqlite DSN is required")
	}

	conn, err := sql.Open("sqlite3", cfg.DSN+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectionTimeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
	}

	return conn, nil
}
