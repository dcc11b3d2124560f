package domain

import (
	"context"
	"errors"
)

var (
	ErrMissingCredentials   = errors.New("missing credentials")
	ErrMalformedCredentials = errors.New("malformed credentials")
	ErrSessionRejected      = errors.New("session rejected")
)

// Credentials is the blob a client carries on the connection handshake,
// mirroring the gateway's X-Authentication-Info header.
type Credentials struct {
	UserID    string `json:"user_id"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	SessionID string `json:"session_id"`
}

// Identity is the authenticated user behind a connection. It is resolved
// once at connect time and never changes for the life of the connection.
type Identity struct {
	UserID    string
	SessionID string
	IP        string
	UserAgent string
}

// SessionResolver validates connection-time credentials. Any error result
// is terminal for the connection; resolution is attempted exactly once.
type SessionResolver interface {
	Resolve(ctx context.Context, creds Credentials) (*Identity, error)
}

// IsAuthError reports whether err belongs to the credential/session error
// class that must close the connection before it is ever registered.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingCredentials) ||
		errors.Is(err, ErrMalformedCredentials) ||
		errors.Is(err, ErrSessionRejected)
}
