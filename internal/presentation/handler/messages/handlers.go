package messages

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/infrastructure/json"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Handler struct {
	messageRepository domain.MessageRepository
}

func NewHandler(messageRepository domain.MessageRepository) *Handler {
	return &Handler{
		messageRepository: messageRepository,
	}
}

// ListMessagesHandler returns persisted chat history, newest first. The
// optional "before" cursor (RFC3339) pages backwards; "limit" caps the
// page size. Clients use this instead of a backlog push on connect.
func (h *Handler) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			json.WriteValidationError(w, errors.New("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var before time.Time
	if rawBefore := r.URL.Query().Get("before"); rawBefore != "" {
		parsed, err := time.Parse(time.RFC3339, rawBefore)
		if err != nil {
			json.WriteValidationError(w, errors.New("before must be an RFC3339 timestamp"))
			return
		}
		before = parsed
	}

	msgs, err := h.messageRepository.List(r.Context(), limit, before)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	items := make([]messageItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, messageItem{
			ID:        m.ID,
			Text:      m.Text,
			Type:      "message",
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	json.Write(w, http.StatusOK, listResponse{
		Type:  "list",
		Items: items,
	})
}
