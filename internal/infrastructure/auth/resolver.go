package auth

import (
	"context"
	"fmt"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is what the authentication service puts inside a session
// token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenResolver validates the credential blob carried on the connection
// handshake. The session id must be a signed JWT whose user claim matches
// the user the blob announces.
type TokenResolver struct {
	secret []byte
}

func NewTokenResolver(secret string) *TokenResolver {
	return &TokenResolver{secret: []byte(secret)}
}

func (r *TokenResolver) Resolve(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if creds.UserID == "" || creds.SessionID == "" {
		return nil, domain.ErrMissingCredentials
	}

	token, err := jwt.ParseWithClaims(creds.SessionID, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionRejected, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrSessionRejected
	}
	if claims.UserID != creds.UserID {
		return nil, domain.ErrSessionRejected
	}

	return &domain.Identity{
		UserID:    claims.UserID,
		SessionID: creds.SessionID,
		IP:        creds.IP,
		UserAgent: creds.UserAgent,
	}, nil
}
