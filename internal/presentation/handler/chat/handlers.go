package chat

import (
	"net/http"

	"github.com/bazario/chat-service/internal/infrastructure/configs"
	"github.com/bazario/chat-service/internal/infrastructure/ws"
	"github.com/gorilla/websocket"
)

type Handler struct {
	broadcaster *ws.Broadcaster
	headerName  string
	maxFrame    int64
	upgrader    websocket.Upgrader
}

func NewHandler(broadcaster *ws.Broadcaster, cfg configs.AuthConfig, chatCfg configs.ChatConfig, allowedOrigins []string) *Handler {
	originSet := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		originSet[origin] = true
	}

	return &Handler{
		broadcaster: broadcaster,
		headerName:  cfg.HeaderName,
		maxFrame:    chatCfg.MaxFrameBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowAll {
					return true
				}
				return originSet[r.Header.Get("Origin")]
			},
		},
	}
}

// ConnectHandler upgrades the request to a websocket and runs the chat
// handshake. Rejections are delivered over the socket itself so the
// client learns why before the transport drops; the credential header is
// read from the upgrade request.
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	rawCreds := r.Header.Get(h.headerName)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	conn.SetReadLimit(h.maxFrame)

	client, err := h.broadcaster.Connect(r.Context(), conn, rawCreds, r.RemoteAddr)
	if err != nil {
		// Connect notified the client and closed the transport.
		return
	}

	go client.WritePump()
	go client.ReadPump(h.broadcaster)
}
