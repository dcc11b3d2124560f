package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentials_JSONShape(t *testing.T) {
	req := require.New(t)

	raw := `{"user_id":"u-1","ip":"203.0.113.7","user_agent":"Mozilla/5.0","session_id":"s-1"}`

	var creds Credentials
	req.NoError(json.Unmarshal([]byte(raw), &creds))
	req.Equal("u-1", creds.UserID)
	req.Equal("203.0.113.7", creds.IP)
	req.Equal("Mozilla/5.0", creds.UserAgent)
	req.Equal("s-1", creds.SessionID)
}

func TestIsAuthError(t *testing.T) {
	req := require.New(t)

	req.True(IsAuthError(ErrMissingCredentials))
	req.True(IsAuthError(ErrMalformedCredentials))
	req.True(IsAuthError(ErrSessionRejected))
	req.True(IsAuthError(fmt.Errorf("%w: token expired", ErrSessionRejected)))

	req.False(IsAuthError(errors.New("disk full")))
	req.False(IsAuthError(nil))
}
