package messages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazario/chat-service/internal/domain"
)

type stubRepository struct {
	messages  []domain.Message
	failWith  error
	gotLimit  int
	gotBefore time.Time
}

func (s *stubRepository) Insert(_ context.Context, _ *domain.Message) error { return nil }

func (s *stubRepository) List(_ context.Context, limit int, before time.Time) ([]domain.Message, error) {
	s.gotLimit = limit
	s.gotBefore = before
	if s.failWith != nil {
		return nil, s.failWith
	}
	if limit > len(s.messages) {
		limit = len(s.messages)
	}
	return s.messages[:limit], nil
}

func (s *stubRepository) ListAll(_ context.Context) ([]domain.Message, error) {
	return s.messages, nil
}

func listMessages(t *testing.T, repo domain.MessageRepository, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(repo)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	handler.ListMessagesHandler(rec, req)
	return rec
}

func TestListMessagesHandler_EnvelopeShape(t *testing.T) {
	req := require.New(t)

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubRepository{messages: []domain.Message{
		{ID: "msg-2", Text: "world", AuthorID: "bob", CreatedAt: createdAt.Add(time.Second)},
		{ID: "msg-1", Text: "hello", AuthorID: "alice", CreatedAt: createdAt},
	}}

	rec := listMessages(t, repo, "/v1/chat/messages")
	req.Equal(http.StatusOK, rec.Code)

	var body struct {
		Type  string `json:"type"`
		Items []struct {
			ID        string `json:"id"`
			Text      string `json:"text"`
			Type      string `json:"type"`
			CreatedAt string `json:"createdAt"`
		} `json:"items"`
	}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))

	req.Equal("list", body.Type)
	req.Len(body.Items, 2)
	req.Equal("msg-2", body.Items[0].ID)
	req.Equal("world", body.Items[0].Text)
	req.Equal("message", body.Items[0].Type)
	req.Equal("2026-03-01T12:00:01Z", body.Items[0].CreatedAt)
}

func TestListMessagesHandler_EmptyHistory(t *testing.T) {
	req := require.New(t)

	rec := listMessages(t, &stubRepository{}, "/v1/chat/messages")
	req.Equal(http.StatusOK, rec.Code)

	// An empty history is still a list envelope, not null.
	req.JSONEq(`{"type":"list","items":[]}`, rec.Body.String())
}

func TestListMessagesHandler_LimitHandling(t *testing.T) {
	req := require.New(t)

	repo := &stubRepository{}
	rec := listMessages(t, repo, "/v1/chat/messages?limit=10")
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(10, repo.gotLimit)

	// Default applies when absent, ceiling applies when oversized.
	repo = &stubRepository{}
	listMessages(t, repo, "/v1/chat/messages")
	req.Equal(50, repo.gotLimit)

	repo = &stubRepository{}
	listMessages(t, repo, "/v1/chat/messages?limit=9999")
	req.Equal(200, repo.gotLimit)
}

func TestListMessagesHandler_RejectsBadLimit(t *testing.T) {
	req := require.New(t)

	for _, raw := range []string{"abc", "0", "-5"} {
		rec := listMessages(t, &stubRepository{}, "/v1/chat/messages?limit="+raw)
		req.Equal(http.StatusBadRequest, rec.Code, "limit=%s", raw)
	}
}

func TestListMessagesHandler_BeforeCursor(t *testing.T) {
	req := require.New(t)

	repo := &stubRepository{}
	rec := listMessages(t, repo, "/v1/chat/messages?before=2026-03-01T12:00:00Z")
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), repo.gotBefore.UTC())

	rec = listMessages(t, &stubRepository{}, "/v1/chat/messages?before=yesterday")
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestListMessagesHandler_StoreError(t *testing.T) {
	req := require.New(t)

	repo := &stubRepository{failWith: errors.New("disk full")}
	rec := listMessages(t, repo, "/v1/chat/messages")
	req.Equal(http.StatusInternalServerError, rec.Code)
}
