package core

import (
	"sync"

	"github.com/google/uuid"
)

// RoomState is the room lifecycle state. Lobby rooms are joinable and
// listed; Processing rooms have been handed off to the execution service
// and never come back.
type RoomState int

const (
	RoomStateLobby RoomState = iota
	RoomStateProcessing
)

// RoomSpec is the validated creation payload.
type RoomSpec struct {
	Name       string
	Password   string // empty disables the gate
	MaxMembers int
}

// Room groups a bounded set of clients under one owner. Every mutation of
// the member set happens under one mutex, so the capacity check and the
// insert are a single step and the owner cascade runs exactly once.
type Room struct {
	ID         uuid.UUID
	Name       string
	Password   string
	MaxMembers int
	OwnerID    uuid.UUID

	bcast *Broadcaster

	mu      sync.Mutex
	state   RoomState
	members map[uuid.UUID]*Client
}

func newRoom(id uuid.UUID, spec RoomSpec, ownerID uuid.UUID, bcast *Broadcaster) *Room {
	return &Room{
		ID:         id,
		Name:       spec.Name,
		Password:   spec.Password,
		MaxMembers: spec.MaxMembers,
		OwnerID:    ownerID,
		bcast:      bcast,
		state:      RoomStateLobby,
		members:    make(map[uuid.UUID]*Client),
	}
}

// Join adds the client to the member set. A repeated join by a current
// member is idempotent: it reports JoinOk and changes nothing, before the
// state and capacity checks. The password gate lives in the orchestration
// layer, not here.
func (r *Room) Join(c *Client) JoinResult {
	r.mu.Lock()

	if _, exists := r.members[c.ID]; exists {
		r.mu.Unlock()
		return JoinOk
	}
	if r.state != RoomStateLobby {
		r.mu.Unlock()
		return JoinNotFound
	}
	if len(r.members) >= r.MaxMembers {
		r.mu.Unlock()
		return JoinMaxMemberCount
	}

	r.members[c.ID] = c
	c.setRoom(r)
	recipients := r.membersLocked()
	r.mu.Unlock()

	r.bcast.ToMembers(recipients, &Event{
		Kind:   EventMemberJoined,
		RoomID: r.ID,
		UserID: c.ID,
	})
	return JoinOk
}

// Leave removes the client if present and clears its room reference.
// Owner escalation to full teardown is decided by the caller.
func (r *Room) Leave(c *Client) bool {
	r.mu.Lock()
	if _, exists := r.members[c.ID]; !exists {
		r.mu.Unlock()
		return false
	}
	delete(r.members, c.ID)
	c.setRoom(nil)
	remaining := r.membersLocked()
	r.mu.Unlock()

	r.bcast.ToMembers(remaining, &Event{
		Kind:   EventMemberLeft,
		RoomID: r.ID,
		UserID: c.ID,
	})
	return true
}

// Remove forcibly evicts every remaining member and tells them the room is
// gone. The caller must already have taken the room out of its registry so
// no new member can slip in.
func (r *Room) Remove() {
	r.mu.Lock()
	evicted := r.membersLocked()
	for id, m := range r.members {
		delete(r.members, id)
		m.setRoom(nil)
	}
	r.mu.Unlock()

	r.bcast.ToMembers(evicted, &Event{
		Kind:   EventRoomRemoved,
		RoomID: r.ID,
	})
}

// Start transitions the room to Processing and sends every member its
// handoff payload. Each recipient gets its own event because the payload
// echoes the recipient's identity.
func (r *Room) Start(bridgeIdentity string, endpoints []string) {
	r.mu.Lock()
	r.state = RoomStateProcessing
	members := r.membersLocked()
	count := len(members)
	r.mu.Unlock()

	r.bcast.Each(members, func(m *Client) *Event {
		return &Event{
			Kind:   EventRoomStarted,
			RoomID: r.ID,
			Started: &RoomStarted{
				RoomID:         r.ID,
				Identity:       m.ID,
				BridgeIdentity: bridgeIdentity,
				Endpoints:      endpoints,
				MemberCount:    count,
			},
		}
	})
}

// Chat relays a chat line to every current member.
func (r *Room) Chat(msg Message) {
	r.mu.Lock()
	recipients := r.membersLocked()
	r.mu.Unlock()

	r.bcast.ToMembers(recipients, &Event{
		Kind:    EventChatMessage,
		RoomID:  r.ID,
		UserID:  msg.From,
		Message: msg,
	})
}

// State returns the current lifecycle state.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Has reports whether id is a current member.
func (r *Room) Has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[id]
	return ok
}

// MemberCount returns the current member count.
func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// MemberIDs returns a snapshot of the member identities.
func (r *Room) MemberIDs() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}

// PasswordEnabled reports whether the password gate is active.
func (r *Room) PasswordEnabled() bool {
	return r.Password != ""
}

// membersLocked snapshots the member handles. Callers hold r.mu.
func (r *Room) membersLocked() []*Client {
	out := make([]*Client, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}
