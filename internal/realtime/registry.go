package realtime

import (
	"sync"
)

// Conn is the write side of a live connection. *websocket.Conn satisfies it;
// tests substitute lightweight fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Registry tracks which users currently hold live connections. A user may
// hold several handles at once (multiple tabs, devices); the user counts as
// online while at least one handle remains.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]map[Conn]struct{}),
	}
}

// Register adds a handle for the user.
func (r *Registry) Register(userID string, conn Conn) {
	if conn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.conns[userID]
	if !ok {
		bucket = make(map[Conn]struct{})
		r.conns[userID] = bucket
	}
	bucket[conn] = struct{}{}
}

// Unregister removes a handle for the user. Removing the last handle removes
// the user's bucket so IsOnline reports false.
func (r *Registry) Unregister(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(bucket, conn)
	if len(bucket) == 0 {
		delete(r.conns, userID)
	}
}

// IsOnline reports whether the user holds at least one live handle.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

// CountConnections returns the number of live handles the user holds.
func (r *Registry) CountConnections(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID])
}

// Send writes the envelope to every handle the user holds and reports whether
// at least one write succeeded. Handles whose write fails are pruned, so a
// half-closed socket does not keep the user looking online forever.
func (r *Registry) Send(userID string, envelope Envelope) bool {
	r.mu.RLock()
	bucket := r.conns[userID]
	handles := make([]Conn, 0, len(bucket))
	for conn := range bucket {
		handles = append(handles, conn)
	}
	r.mu.RUnlock()

	delivered := false
	var dead []Conn
	for _, conn := range handles {
		if err := conn.WriteJSON(envelope); err != nil {
			dead = append(dead, conn)
			continue
		}
		delivered = true
	}
	for _, conn := range dead {
		r.Unregister(userID, conn)
		_ = conn.Close()
	}
	return delivered
}

// Broadcast writes the envelope to every connected user.
func (r *Registry) Broadcast(envelope Envelope) {
	r.mu.RLock()
	userIDs := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		userIDs = append(userIDs, userID)
	}
	r.mu.RUnlock()

	for _, userID := range userIDs {
		r.Send(userID, envelope)
	}
}
