package core

import (
	"sync"

	"github.com/google/uuid"
)

// ClientRegistry maps connection identities to live client handles. All
// methods are safe for concurrent use; the registry owns its map and guards
// it with an internal lock.
type ClientRegistry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewClientRegistry builds an empty registry.
func NewClientRegistry() *ClientRegistry {
	return &ClientRegistry{clients: make(map[uuid.UUID]*Client)}
}

// Register allocates a fresh identity for the connection and records the
// handle under it. Generation retries until the identity is unused, so two
// connections can never share one.
func (r *ClientRegistry) Register(name string) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	var id uuid.UUID
	for {
		id = uuid.New()
		if _, taken := r.clients[id]; !taken {
			break
		}
	}

	c := newClient(id, name)
	r.clients[id] = c
	return c
}

// Unregister removes the handle. Room teardown is the caller's job.
func (r *ClientRegistry) Unregister(c *Client) {
	r.mu.Lock()
	delete(r.clients, c.ID)
	r.mu.Unlock()
}

// Get returns the client registered under id.
func (r *ClientRegistry) Get(id uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[id]
	return c, ok
}

// Each calls fn for every registered client. fn must not call back into
// the registry.
func (r *ClientRegistry) Each(fn func(*Client)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		fn(c)
	}
}

// Len reports the number of registered clients.
func (r *ClientRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
