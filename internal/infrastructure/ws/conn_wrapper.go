package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// connWrapper serializes writes to one chat socket. Gorilla permits a
// single concurrent writer, but here the write pump and the read pump's
// deferred Close can race on the same connection.
type connWrapper struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

func newConnWrapper(c *websocket.Conn) *connWrapper {
	return &connWrapper{conn: c}
}

func (w *connWrapper) WriteJSON(v any) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(v)
}

// Close takes the write lock so an in-flight event finishes its frame
// before the transport goes away.
func (w *connWrapper) Close() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.Close()
}
