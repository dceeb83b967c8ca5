package core

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/store"
)

// historyLimit caps the chat replay sent to a joining member.
const historyLimit = 50

// HandoffInfo is what a started room's members need to reach the execution
// service. Values come verbatim from configuration.
type HandoffInfo struct {
	BridgeIdentity string
	Endpoints      []string
}

// Lobby is the request orchestration layer: it validates preconditions,
// drives the room registry and fans out notifications. Requests failing an
// authorization or current-room precondition are dropped silently, without
// a reply or broadcast, so callers learn nothing about rooms they do not
// own.
type Lobby struct {
	clients *ClientRegistry
	rooms   *RoomRegistry
	bcast   *Broadcaster
	history store.History
	handoff HandoffInfo
	log     *zerolog.Logger
}

// NewLobby wires the lobby together. history may be nil to disable the
// chat log.
func NewLobby(history store.History, handoff HandoffInfo, logger *zerolog.Logger) *Lobby {
	clients := NewClientRegistry()
	bcast := NewBroadcaster(clients)
	return &Lobby{
		clients: clients,
		rooms:   NewRoomRegistry(bcast),
		bcast:   bcast,
		history: history,
		handoff: handoff,
		log:     logger,
	}
}

// Rooms exposes the room registry; the session bridge queries it read-only.
func (l *Lobby) Rooms() *RoomRegistry { return l.rooms }

// Clients exposes the client registry.
func (l *Lobby) Clients() *ClientRegistry { return l.clients }

// Connect registers a connection and hands back its client handle. The
// transport must deliver the assigned identity to the peer as its first
// outgoing message.
func (l *Lobby) Connect(name string) *Client {
	c := l.clients.Register(name)
	l.log.Debug().Stringer("client_id", c.ID).Msg("client connected")
	return c
}

// Disconnect drops the client from the registry and tears down its room
// membership exactly like an explicit leave, so a vanished connection never
// leaves a dangling member behind.
func (l *Lobby) Disconnect(c *Client) {
	l.clients.Unregister(c)
	l.leaveCurrentRoom(c)
	l.log.Debug().Stringer("client_id", c.ID).Msg("client disconnected")
}

// CreateReply answers a create_room request.
type CreateReply struct {
	Ok     bool
	RoomID uuid.UUID
}

// CreateRoom opens a new room owned by c, joins c into it and announces it
// to everyone. It cannot fail for a validated spec.
func (l *Lobby) CreateRoom(c *Client, spec RoomSpec) CreateReply {
	room := l.rooms.Create(spec, c.ID)
	room.Join(c)

	l.log.Info().
		Stringer("room_id", room.ID).
		Stringer("owner_id", c.ID).
		Str("name", room.Name).
		Int("max_members", room.MaxMembers).
		Msg("room created")

	l.bcast.Global(&Event{
		Kind:   EventRoomAnnounced,
		RoomID: room.ID,
		Announce: &RoomAnnounce{
			RoomID:          room.ID,
			OwnerID:         room.OwnerID,
			Name:            room.Name,
			MaxMembers:      room.MaxMembers,
			MemberCount:     room.MemberCount(),
			PasswordEnabled: room.PasswordEnabled(),
		},
	})

	return CreateReply{Ok: true, RoomID: room.ID}
}

// JoinedRoom is the payload of a successful join reply.
type JoinedRoom struct {
	ID      uuid.UUID
	Name    string
	OwnerID uuid.UUID
	Members []uuid.UUID
}

// JoinReply answers a join_room request.
type JoinReply struct {
	Result JoinResult
	Room   *JoinedRoom
}

// JoinRoom admits c into the room if it exists, is joinable and the
// password matches. The password is compared here, at the caller layer,
// before the member-set lookup, so even a current member re-joining must
// present it.
func (l *Lobby) JoinRoom(ctx context.Context, c *Client, roomID uuid.UUID, password string) JoinReply {
	room, ok := l.rooms.Get(roomID)
	if !ok {
		return JoinReply{Result: JoinNotFound}
	}

	if room.PasswordEnabled() && room.Password != password {
		return JoinReply{Result: JoinInvalidPassword}
	}

	result := room.Join(c)
	if result != JoinOk {
		return JoinReply{Result: result}
	}

	l.bcast.Global(&Event{
		Kind:   EventRoomTitleChanged,
		RoomID: room.ID,
		Title: &RoomTitle{
			RoomID:      room.ID,
			MaxMembers:  room.MaxMembers,
			MemberCount: room.MemberCount(),
		},
	})

	l.replayHistory(ctx, c, room.ID)

	return JoinReply{
		Result: JoinOk,
		Room: &JoinedRoom{
			ID:      room.ID,
			Name:    room.Name,
			OwnerID: room.OwnerID,
			Members: room.MemberIDs(),
		},
	}
}

// LeaveRoom removes c from its current room. The reply is always positive;
// leaving while not in a room is a no-op.
func (l *Lobby) LeaveRoom(c *Client) bool {
	l.leaveCurrentRoom(c)
	return true
}

// SendChat relays a chat line to c's current room. Without a current room
// the request is dropped.
func (l *Lobby) SendChat(ctx context.Context, c *Client, msg Message) {
	room := c.Room()
	if room == nil {
		return
	}
	msg.RoomID = room.ID
	msg.From = c.ID

	if l.history != nil {
		if _, err := l.history.SaveMessage(ctx, room.ID.String(), c.ID.String(), msg.Text); err != nil {
			l.log.Warn().Err(err).Stringer("room_id", room.ID).Msg("failed to persist chat message")
		}
	}

	room.Chat(msg)
}

// StartRoom hands c's room off to the execution service. Only the owner of
// a Lobby-state room may start it; anything else is silently ignored.
func (l *Lobby) StartRoom(c *Client) {
	room := c.Room()
	if room == nil || room.State() != RoomStateLobby {
		return
	}
	if room.OwnerID != c.ID {
		return
	}

	room, ok := l.rooms.MoveToProcessing(room.ID)
	if !ok {
		return
	}

	room.Start(l.handoff.BridgeIdentity, l.handoff.Endpoints)

	l.log.Info().
		Stringer("room_id", room.ID).
		Int("members", room.MemberCount()).
		Msg("room started")

	// The room left the open listing; tell the lobby.
	l.bcast.Global(&Event{Kind: EventRoomRemoved, RoomID: room.ID})
}

// RemoveRoom tears down c's room. Only the owner of a Lobby-state room may
// remove it; anything else is silently ignored.
func (l *Lobby) RemoveRoom(c *Client) {
	room := c.Room()
	if room == nil || room.State() != RoomStateLobby {
		return
	}
	if room.OwnerID != c.ID {
		return
	}

	if !l.rooms.Remove(room.ID) {
		return
	}

	room.Remove()
	l.log.Info().Stringer("room_id", room.ID).Msg("room removed")
	l.bcast.Global(&Event{Kind: EventRoomRemoved, RoomID: room.ID})
}

// RoomList snapshots the open rooms.
func (l *Lobby) RoomList() []RoomSummary {
	return l.rooms.Snapshot()
}

// leaveCurrentRoom is the shared leave path for explicit leave requests and
// disconnects. The owner leaving cascades into full room teardown; the
// room is pulled from the open registry first so the cascade runs once and
// no join can race it.
func (l *Lobby) leaveCurrentRoom(c *Client) {
	room := c.Room()
	if room == nil || room.State() != RoomStateLobby {
		return
	}

	if room.OwnerID == c.ID {
		if !l.rooms.Remove(room.ID) {
			return
		}
		room.Leave(c)
		room.Remove()
		l.log.Info().Stringer("room_id", room.ID).Msg("room removed after owner left")
		l.bcast.Global(&Event{Kind: EventRoomRemoved, RoomID: room.ID})
		return
	}

	room.Leave(c)
}

// replayHistory sends the recent chat log of a room to one client.
func (l *Lobby) replayHistory(ctx context.Context, c *Client, roomID uuid.UUID) {
	if l.history == nil {
		return
	}

	stored, err := l.history.RecentMessages(ctx, roomID.String(), historyLimit)
	if err != nil {
		l.log.Warn().Err(err).Stringer("room_id", roomID).Msg("failed to load chat history")
		return
	}
	if len(stored) == 0 {
		return
	}

	msgs := make([]Message, 0, len(stored))
	for _, m := range stored {
		from, err := uuid.Parse(m.FromID)
		if err != nil {
			continue
		}
		msgs = append(msgs, Message{
			RoomID:    roomID,
			From:      from,
			Text:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}

	c.send(&Event{Kind: EventHistory, RoomID: roomID, Messages: msgs})
}
