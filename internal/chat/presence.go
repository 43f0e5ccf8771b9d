package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks which user currently holds a live connection. It is the
// only state shared across connection goroutines, so every access goes
// through the mutex. One entry per user: a reconnect replaces the old
// handle, and a late disconnect for a replaced handle is ignored.
//
// Nothing here is persisted; losing the map just means everyone looks
// offline until they reconnect.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Client
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]*Client)}
}

// Bind registers the client as the user's live connection, replacing any
// prior entry (last connection wins).
func (r *Registry) Bind(userID uuid.UUID, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userID] = c
}

// Unbind removes the entry only if it still points at this client. A stale
// disconnect event for an already-replaced connection is a no-op.
func (r *Registry) Unbind(userID uuid.UUID, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conns[userID] == c {
		delete(r.conns, userID)
	}
}

// Lookup returns the user's bound connection. Absence means offline, never
// an error.
func (r *Registry) Lookup(userID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Online reports the number of bound connections.
func (r *Registry) Online() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
