package ws

import (
	"encoding/json"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/infrastructure/logging"
	"github.com/gorilla/websocket"
)

// Client is one live, authenticated connection. The identity is attached
// at handshake time and never changes afterwards.
type Client struct {
	conn     *connWrapper
	send     chan *Event
	ID       string
	Identity domain.Identity
}

func NewClient(conn *websocket.Conn, connectionID string, identity domain.Identity) *Client {
	return &Client{
		conn:     newConnWrapper(conn),
		send:     make(chan *Event, 64), // buffered to avoid dead-locks on slow clients
		ID:       connectionID,
		Identity: identity,
	}
}

// ReadPump consumes inbound frames until the transport drops. Cleanup runs
// on every exit path so the registry entry is removed exactly once.
func (c *Client) ReadPump(b *Broadcaster) {
	defer func() {
		b.Disconnect(c)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				b.logger.Warn(logging.Chat, logging.Fanout, "ws read error", map[logging.ExtraKey]any{
					logging.ConnectionID: c.ID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		var ev InboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			// Malformed frames are dropped; the connection stays open.
			b.logger.Debug(logging.Chat, logging.Fanout, "ignoring malformed event", map[logging.ExtraKey]any{
				logging.ConnectionID: c.ID,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		b.HandleInbound(c, ev)
	}
}

// WritePump drains the send channel onto the wire. It exits when the
// registry closes the channel or a write fails.
func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for ev := range c.send {
		if err := c.conn.WriteJSON(ev); err != nil {
			return
		}
	}
}
