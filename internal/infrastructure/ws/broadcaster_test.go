package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/bazario/chat-service/internal/domain"
	"github.com/bazario/chat-service/internal/infrastructure/logging"
)

type fakeStore struct {
	mu       sync.Mutex
	inserted []domain.Message
	failWith error
}

func (s *fakeStore) Insert(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.inserted = append(s.inserted, *msg)
	return nil
}

func (s *fakeStore) List(_ context.Context, _ int, _ time.Time) ([]domain.Message, error) {
	return nil, nil
}

func (s *fakeStore) ListAll(_ context.Context) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.inserted))
	copy(out, s.inserted)
	return out, nil
}

type fakeResolver struct {
	rejectWith error
}

func (r *fakeResolver) Resolve(_ context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if r.rejectWith != nil {
		return nil, r.rejectWith
	}
	if creds.UserID == "" || creds.SessionID == "" {
		return nil, domain.ErrMissingCredentials
	}
	return &domain.Identity{
		UserID:    creds.UserID,
		SessionID: creds.SessionID,
		IP:        creds.IP,
		UserAgent: creds.UserAgent,
	}, nil
}

func newTestBroadcaster(store domain.MessageRepository, resolver domain.SessionResolver) *Broadcaster {
	registry := NewRegistry(logging.NewNopLogger())
	return NewBroadcaster(registry, store, resolver, nil, nil, logging.NewNopLogger())
}

func TestBroadcaster_MessageReachesEveryClient(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	b := newTestBroadcaster(store, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	bob := newTestClient("conn-b", "bob", 64)
	b.registry.Register(alice)
	b.registry.Register(bob)

	b.HandleInbound(alice, InboundEvent{Type: MessageSend, Text: "hello"})

	for _, c := range []*Client{alice, bob} {
		ev := <-c.send
		req.Equal(MessageNew, ev.Type)
		payload, ok := ev.Data.(MessagePayload)
		req.True(ok)
		req.Equal("hello", payload.Text)
		req.Equal("alice", payload.AuthorID)
	}

	req.Len(store.inserted, 1)
	req.Equal("hello", store.inserted[0].Text)
	req.Equal("alice", store.inserted[0].AuthorID)
}

func TestBroadcaster_SenderOrderIsPreserved(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	b := newTestBroadcaster(store, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	bob := newTestClient("conn-b", "bob", 64)
	b.registry.Register(alice)
	b.registry.Register(bob)

	for _, text := range []string{"first", "second", "third"} {
		b.HandleInbound(alice, InboundEvent{Type: MessageSend, Text: text})
	}

	// Persistence completes before each fan-out, so bob observes the
	// sender's submission order.
	for _, want := range []string{"first", "second", "third"} {
		ev := <-bob.send
		payload := ev.Data.(MessagePayload)
		req.Equal(want, payload.Text)
	}
}

func TestBroadcaster_EmptyMessageIsDropped(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	b := newTestBroadcaster(store, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	b.registry.Register(alice)

	b.HandleInbound(alice, InboundEvent{Type: MessageSend, Text: "   "})

	req.Empty(store.inserted)
	req.Len(alice.send, 0)
}

func TestBroadcaster_UnknownEventTypeIsDropped(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{}
	b := newTestBroadcaster(store, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	b.registry.Register(alice)

	b.HandleInbound(alice, InboundEvent{Type: "message.edit", Text: "nope"})

	req.Empty(store.inserted)
	req.Len(alice.send, 0)
}

func TestBroadcaster_StoreFailureSignalsOnlyTheSender(t *testing.T) {
	req := require.New(t)
	store := &fakeStore{failWith: errors.New("disk full")}
	b := newTestBroadcaster(store, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	bob := newTestClient("conn-b", "bob", 64)
	b.registry.Register(alice)
	b.registry.Register(bob)

	b.HandleInbound(alice, InboundEvent{Type: MessageSend, Text: "hello"})

	// The sender learns about the failure, nobody else sees anything.
	ev := <-alice.send
	req.Equal(StoreError, ev.Type)
	payload := ev.Data.(ErrorPayload)
	req.True(payload.Retry)
	req.Len(bob.send, 0)

	// The connection stays usable once the store recovers.
	store.mu.Lock()
	store.failWith = nil
	store.mu.Unlock()

	b.HandleInbound(alice, InboundEvent{Type: MessageSend, Text: "retry"})
	ev = <-alice.send
	req.Equal(MessageNew, ev.Type)
}

func TestBroadcaster_DisconnectIsIdempotent(t *testing.T) {
	req := require.New(t)
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{})

	alice := newTestClient("conn-a", "alice", 64)
	b.registry.Register(alice)

	b.Disconnect(alice)
	b.Disconnect(alice)

	req.Equal(0, b.registry.Len())
}

// dialWebsocket upgrades on the server side, hands the server connection
// to handle, and returns the client side of the socket.
func dialWebsocket(t *testing.T, header http.Header, handle func(conn *websocket.Conn)) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handle(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestBroadcaster_ConnectAcceptsValidCredentials(t *testing.T) {
	req := require.New(t)
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{})

	creds, err := json.Marshal(domain.Credentials{
		UserID:    "alice",
		IP:        "203.0.113.7",
		UserAgent: "test-agent",
		SessionID: "sess-1",
	})
	req.NoError(err)

	done := make(chan error, 1)
	conn := dialWebsocket(t, nil, func(serverConn *websocket.Conn) {
		_, connectErr := b.Connect(context.Background(), serverConn, string(creds), serverConn.RemoteAddr().String())
		done <- connectErr
	})
	defer conn.Close()

	req.NoError(<-done)
	req.Equal(1, b.registry.Len())
}

func TestBroadcaster_ConnectRejectsMissingCredentials(t *testing.T) {
	req := require.New(t)
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{})

	done := make(chan error, 1)
	conn := dialWebsocket(t, nil, func(serverConn *websocket.Conn) {
		_, connectErr := b.Connect(context.Background(), serverConn, "", serverConn.RemoteAddr().String())
		done <- connectErr
	})

	req.ErrorIs(<-done, domain.ErrMissingCredentials)
	req.Equal(0, b.registry.Len())

	// The client is told why before the socket closes.
	var ev Event
	req.NoError(conn.ReadJSON(&ev))
	req.Equal(AuthenticationError, ev.Type)
}

func TestBroadcaster_ConnectRejectsMalformedCredentials(t *testing.T) {
	req := require.New(t)
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{})

	done := make(chan error, 1)
	dialWebsocket(t, nil, func(serverConn *websocket.Conn) {
		_, connectErr := b.Connect(context.Background(), serverConn, "{not json", serverConn.RemoteAddr().String())
		done <- connectErr
	})

	req.ErrorIs(<-done, domain.ErrMalformedCredentials)
	req.Equal(0, b.registry.Len())
}

func TestBroadcaster_ConnectRejectsFailedResolution(t *testing.T) {
	req := require.New(t)
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{rejectWith: domain.ErrSessionRejected})

	creds, err := json.Marshal(domain.Credentials{UserID: "alice", SessionID: "sess-1"})
	req.NoError(err)

	done := make(chan error, 1)
	dialWebsocket(t, nil, func(serverConn *websocket.Conn) {
		_, connectErr := b.Connect(context.Background(), serverConn, string(creds), serverConn.RemoteAddr().String())
		done <- connectErr
	})

	req.ErrorIs(<-done, domain.ErrSessionRejected)
	req.Equal(0, b.registry.Len())
}

func TestBroadcaster_RejectHidesNonCredentialErrors(t *testing.T) {
	req := require.New(t)
	resolverErr := errors.New("session backend unreachable")
	b := newTestBroadcaster(&fakeStore{}, &fakeResolver{rejectWith: resolverErr})

	creds, err := json.Marshal(domain.Credentials{UserID: "alice", SessionID: "sess-1"})
	req.NoError(err)

	done := make(chan error, 1)
	conn := dialWebsocket(t, nil, func(serverConn *websocket.Conn) {
		_, connectErr := b.Connect(context.Background(), serverConn, string(creds), serverConn.RemoteAddr().String())
		done <- connectErr
	})

	req.ErrorIs(<-done, resolverErr)

	// The rejection reaches the client as a generic failure; resolver
	// internals never go over the wire.
	var ev Event
	req.NoError(conn.ReadJSON(&ev))
	req.Equal(AuthenticationError, ev.Type)

	payload, ok := ev.Data.(map[string]any)
	req.True(ok)
	req.Equal("authentication failed", payload["message"])
}
