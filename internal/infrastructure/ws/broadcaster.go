package ws

import (
	"context"
	"encoding/json"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/infrastructure/logging"
	"github.com/bazario/chat-service/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Publisher mirrors the event publisher so the chat core does not depend
// on the AMQP wiring directly. A nil Publisher disables eventing.
type Publisher interface {
	PublishMessageSent(ctx context.Context, msg domain.Message) error
	PublishClientConnected(ctx context.Context, connectionID, userID string) error
	PublishClientDisconnected(ctx context.Context, connectionID, userID string) error
}

// Broadcaster owns the connection lifecycle: it authenticates handshakes,
// admits clients to the registry, relays inbound messages to persistence
// and fans persisted messages out to every registered connection.
type Broadcaster struct {
	registry  *Registry
	messages  domain.MessageRepository
	resolver  domain.SessionResolver
	audit     domain.ChatAuditRepository
	publisher Publisher
	logger    logging.Logger
}

func NewBroadcaster(
	registry *Registry,
	messages domain.MessageRepository,
	resolver domain.SessionResolver,
	audit domain.ChatAuditRepository,
	publisher Publisher,
	logger logging.Logger,
) *Broadcaster {
	return &Broadcaster{
		registry:  registry,
		messages:  messages,
		resolver:  resolver,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
	}
}

func (b *Broadcaster) Registry() *Registry {
	return b.registry
}

// Connect runs the handshake for a freshly upgraded connection: parse the
// credential blob, resolve it to an identity, register the client. On any
// failure the client is told why (best effort) and the transport is
// closed; an unauthenticated socket never reaches the registry.
func (b *Broadcaster) Connect(ctx context.Context, conn *websocket.Conn, rawCreds, remoteAddr string) (*Client, error) {
	if rawCreds == "" {
		return nil, b.reject(conn, remoteAddr, domain.ErrMissingCredentials)
	}

	var creds domain.Credentials
	if err := json.Unmarshal([]byte(rawCreds), &creds); err != nil {
		return nil, b.reject(conn, remoteAddr, domain.ErrMalformedCredentials)
	}

	identity, err := b.resolver.Resolve(ctx, creds)
	if err != nil {
		return nil, b.reject(conn, remoteAddr, err)
	}

	client := NewClient(conn, uuid.NewString(), *identity)
	b.registry.Register(client)

	b.logger.Info(logging.Chat, logging.Handshake, "client connected", map[logging.ExtraKey]any{
		logging.ConnectionID: client.ID,
		logging.UserID:       identity.UserID,
	})

	if b.audit != nil {
		if err := b.audit.Log(ctx, domain.NewClientConnectedLog(client.ID, identity.UserID)); err != nil {
			b.logger.Warn(logging.Chat, logging.Persistence, "failed to write connect audit log", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}
	if b.publisher != nil {
		if err := b.publisher.PublishClientConnected(ctx, client.ID, identity.UserID); err != nil {
			b.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish client connected", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	return client, nil
}

// HandleInbound processes one event from an active connection. Only
// message submissions are recognized; anything else is dropped.
func (b *Broadcaster) HandleInbound(c *Client, ev InboundEvent) {
	switch ev.Type {
	case MessageSend:
		b.handleMessage(c, ev.Text)
	default:
		b.logger.Debugf("dropping unknown event type %q from connection %s", ev.Type, c.ID)
	}
}

// handleMessage persists and fans out one submission. Persistence is
// awaited before broadcast, so each sender's messages go out in the order
// they were sent. A store failure drops the message, signals the sender
// and leaves the connection active.
func (b *Broadcaster) handleMessage(c *Client, text string) {
	msg, err := domain.NewMessage(c.Identity.UserID, text)
	if err != nil {
		b.logger.Debug(logging.Chat, logging.Fanout, "dropping invalid message", map[logging.ExtraKey]any{
			logging.ConnectionID: c.ID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	// Writes already accepted must finish even if the sender disconnects
	// mid-flight, so persistence does not borrow the connection's context.
	ctx := context.Background()

	if err := b.messages.Insert(ctx, msg); err != nil {
		metrics.StoreFailuresTotal.Inc()
		b.logger.Error(logging.Chat, logging.Persistence, "failed to persist message", map[logging.ExtraKey]any{
			logging.ConnectionID: c.ID,
			logging.MessageID:    msg.ID,
			logging.ErrorMessage: err.Error(),
		})

		if b.audit != nil {
			if auditErr := b.audit.Log(ctx, domain.NewStoreFailureLog(c.Identity.UserID, msg.ID)); auditErr != nil {
				b.logger.Warn(logging.Chat, logging.Persistence, "failed to write store failure audit log", map[logging.ExtraKey]any{
					logging.ErrorMessage: auditErr.Error(),
				})
			}
		}

		b.registry.Send(c.ID, NewStoreError("message could not be saved"))
		return
	}

	metrics.MessagesTotal.Inc()
	b.registry.Broadcast(NewMessageEvent(msg))

	if b.publisher != nil {
		if err := b.publisher.PublishMessageSent(ctx, *msg); err != nil {
			b.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish message sent", map[logging.ExtraKey]any{
				logging.MessageID:    msg.ID,
				logging.ErrorMessage: err.Error(),
			})
		}
	}
}

// Disconnect removes the connection from the registry. Safe to call more
// than once; only the first call observes a registered entry.
func (b *Broadcaster) Disconnect(c *Client) {
	b.registry.Unregister(c)

	b.logger.Info(logging.Chat, logging.Handshake, "client disconnected", map[logging.ExtraKey]any{
		logging.ConnectionID: c.ID,
		logging.UserID:       c.Identity.UserID,
	})

	ctx := context.Background()
	if b.audit != nil {
		if err := b.audit.Log(ctx, domain.NewClientDisconnectedLog(c.ID, c.Identity.UserID)); err != nil {
			b.logger.Warn(logging.Chat, logging.Persistence, "failed to write disconnect audit log", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}
	if b.publisher != nil {
		if err := b.publisher.PublishClientDisconnected(ctx, c.ID, c.Identity.UserID); err != nil {
			b.logger.Warn(logging.RabbitMQ, logging.ExternalService, "failed to publish client disconnected", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}
}

func (b *Broadcaster) reject(conn *websocket.Conn, remoteAddr string, cause error) error {
	metrics.AuthFailuresTotal.Inc()

	b.logger.Warn(logging.Chat, logging.Handshake, "rejecting connection", map[logging.ExtraKey]any{
		logging.ClientIp:     remoteAddr,
		logging.ErrorMessage: cause.Error(),
	})

	// Credential errors are safe to echo; anything else (a resolver
	// hitting its backing store, say) stays server-side.
	reason := "authentication failed"
	if domain.IsAuthError(cause) {
		reason = cause.Error()
	}

	// Best effort: termination is authoritative whether or not the client
	// sees the rejection reason.
	_ = conn.WriteJSON(NewAuthError(reason))
	_ = conn.Close()

	if b.audit != nil {
		if err := b.audit.Log(context.Background(), domain.NewAuthRejectedLog(remoteAddr, cause.Error())); err != nil {
			b.logger.Warn(logging.Chat, logging.Persistence, "failed to write auth rejection audit log", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	return cause
}
