package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

// SessionConn wraps a websocket connection with a write mutex so broadcasts
// from concurrent goroutines keep FIFO order per handle. The read side stays
// with the session loop that owns the connection.
type SessionConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewSessionConn adapts a websocket connection into a registry handle.
func NewSessionConn(conn *websocket.Conn, writeTimeout time.Duration) *SessionConn {
	return &SessionConn{conn: conn, writeTimeout: writeTimeout}
}

// WriteJSON sends one frame, honoring the configured write deadline.
func (s *SessionConn) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	return s.conn.WriteJSON(v)
}

// Close closes the underlying connection.
func (s *SessionConn) Close() error {
	return s.conn.Close()
}
