package core

import (
	"sync"

	"github.com/google/uuid"
)

// Client is one connected lobby participant as seen by the core layer.
// The identity is assigned on connect and names the connection for its
// lifetime; it is not an account.
type Client struct {
	ID     uuid.UUID
	Name   string
	Events chan *Event

	mu   sync.Mutex
	room *Room
}

func newClient(id uuid.UUID, name string) *Client {
	return &Client{
		ID:     id,
		Name:   name,
		Events: make(chan *Event, 32),
	}
}

// Room returns the room the client currently occupies, or nil.
func (c *Client) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Client) setRoom(r *Room) {
	c.mu.Lock()
	c.room = r
	c.mu.Unlock()
}

// send delivers an event without blocking. Slow consumers lose events
// rather than stalling the sender.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
	}
}
