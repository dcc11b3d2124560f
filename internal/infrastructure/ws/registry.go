package ws

import (
	"sync"

	"github.com/bazario/chat-service/internal/infrastructure/logging"
	"github.com/bazario/chat-service/internal/infrastructure/metrics"
)

// Registry tracks live, authenticated connections. It is the only shared
// mutable state of the chat core and must stay safe under concurrent
// Register/Unregister/Broadcast from any number of connection handlers.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  logging.Logger
}

func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register makes the client visible to concurrent broadcasts. Registering
// an id that is already present replaces the old entry: that is a
// reconnect, not an error, and the superseded client's channel is closed
// so its write pump winds down.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.clients[c.ID]; ok && old != c {
		close(old.send)
	} else if !ok {
		metrics.ActiveConnections.Inc()
	}
	r.clients[c.ID] = c
}

// Unregister is idempotent: a disconnect may race with handshake cleanup,
// and removing an absent client is a no-op. The entry is removed only if
// it still belongs to this client, so a superseded connection's late
// cleanup cannot evict its replacement.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.clients[c.ID]
	if !ok || stored != c {
		return
	}
	delete(r.clients, c.ID)
	close(c.send)
	metrics.ActiveConnections.Dec()
}

// Broadcast delivers the event to every connection registered at call
// time. Delivery to each recipient is non-blocking; a client whose buffer
// is full has the event dropped so one slow reader cannot stall the rest.
func (r *Registry) Broadcast(ev *Event) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		select {
		case c.send <- ev:
		default:
			metrics.BroadcastDropsTotal.Inc()
			r.logger.Warn(logging.Chat, logging.Fanout, "client buffer full, dropping event", map[logging.ExtraKey]any{
				logging.ConnectionID: c.ID,
				logging.UserID:       c.Identity.UserID,
			})
		}
	}
}

// Send delivers an event to a single registered connection. Used for
// sender-only signals such as persistence failures.
func (r *Registry) Send(connectionID string, ev *Event) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[connectionID]
	if !ok {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		metrics.BroadcastDropsTotal.Inc()
		return false
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
