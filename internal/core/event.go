package core

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomAnnounced tells every client that a new room opened.
	EventRoomAnnounced EventKind = iota
	// EventRoomTitleChanged tells every client that a listed room's
	// member count changed.
	EventRoomTitleChanged
	// EventMemberJoined notifies room members about a new member.
	EventMemberJoined
	// EventMemberLeft notifies room members that a member left.
	EventMemberLeft
	// EventChatMessage carries a chat line to room members.
	EventChatMessage
	// EventHistory replays recent chat to a client joining a room.
	EventHistory
	// EventRoomStarted hands room members off to the execution service.
	EventRoomStarted
	// EventRoomRemoved announces a room teardown.
	EventRoomRemoved
)

// Event describes what happened in the lobby. An event is built once by a
// single writer and only read afterwards; the broadcast paths share it
// between recipients without copying.
type Event struct {
	Kind     EventKind
	RoomID   uuid.UUID
	UserID   uuid.UUID // acting member for join/leave/chat
	Message  Message
	Messages []Message // EventHistory only
	Announce *RoomAnnounce
	Title    *RoomTitle
	Started  *RoomStarted // EventRoomStarted only, built per recipient
}

// Message is the domain model for a chat line.
type Message struct {
	RoomID    uuid.UUID
	From      uuid.UUID
	Text      string
	CreatedAt time.Time
}

// RoomAnnounce is the payload of EventRoomAnnounced.
type RoomAnnounce struct {
	RoomID          uuid.UUID
	OwnerID         uuid.UUID
	Name            string
	MaxMembers      int
	MemberCount     int
	PasswordEnabled bool
}

// RoomTitle is the payload of EventRoomTitleChanged.
type RoomTitle struct {
	RoomID      uuid.UUID
	MaxMembers  int
	MemberCount int
}

// RoomStarted is the payload of EventRoomStarted. Identity echoes the
// recipient's own id; the client presents it back to the execution service
// as the first segment of its session token.
type RoomStarted struct {
	RoomID         uuid.UUID
	Identity       uuid.UUID
	BridgeIdentity string
	Endpoints      []string
	MemberCount    int
}
