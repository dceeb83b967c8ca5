package core

// Broadcaster fans an event out to many clients. Every call runs as its own
// detached goroutine: the caller is never blocked on delivery, a stuck
// recipient cannot hold up the others, and there is no ordering guarantee
// between broadcasts or between recipients of one broadcast.
type Broadcaster struct {
	clients *ClientRegistry
}

// NewBroadcaster builds a broadcaster over the given client registry.
func NewBroadcaster(clients *ClientRegistry) *Broadcaster {
	return &Broadcaster{clients: clients}
}

// Global delivers ev to every currently registered client.
func (b *Broadcaster) Global(ev *Event) {
	go func() {
		b.clients.Each(func(c *Client) {
			c.send(ev)
		})
	}()
}

// ToMembers delivers ev to the given recipients. The slice must be a
// snapshot owned by the broadcast; callers hand it over and stop using it.
func (b *Broadcaster) ToMembers(recipients []*Client, ev *Event) {
	go func() {
		for _, c := range recipients {
			c.send(ev)
		}
	}()
}

// Each delivers a per-recipient event built by fn. Used for room start,
// where every member receives its own identity in the payload.
func (b *Broadcaster) Each(recipients []*Client, fn func(*Client) *Event) {
	go func() {
		for _, c := range recipients {
			c.send(fn(c))
		}
	}()
}
