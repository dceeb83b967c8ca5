package proto

import "encoding/json"

const (
	ProtocolVersion = 1

	// CreateRoomSchemaVersion is the only accepted create_room payload
	// schema.
	CreateRoomSchemaVersion = 1
)

// Inbound is the envelope for requests coming from the client. ID is the
// client's correlation tag; replies echo it back.
type Inbound struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeCreateRoom = "create_room"
	InboundTypeJoinRoom   = "join_room"
	InboundTypeLeaveRoom  = "leave_room"
	InboundTypeChat       = "chat"
	InboundTypeStartRoom  = "start_room"
	InboundTypeRemoveRoom = "remove_room"
	InboundTypeRoomList   = "room_list"

	OutboundTypeResult = "result"
	OutboundTypeEvent  = "event"
	OutboundTypeError  = "error"
)

// Outbound event names.
const (
	EventUserIdentity     = "user_identity"
	EventRoomAnnounced    = "room_announced"
	EventRoomTitleChanged = "room_title_changed"
	EventMemberJoined     = "member_joined"
	EventMemberLeft       = "member_left"
	EventChat             = "chat"
	EventHistory          = "history"
	EventRoomStarted      = "room_started"
	EventRoomRemoved      = "room_removed"
)

// CreateRoomData is the versioned create_room payload.
type CreateRoomData struct {
	Schema     int    `json:"schema,omitempty"`
	Name       string `json:"name"`
	Password   string `json:"password,omitempty"`
	MaxMembers int    `json:"max_members"`
}

// JoinRoomData requests admission into a room.
type JoinRoomData struct {
	RoomID   string `json:"room_id"`
	Password string `json:"password,omitempty"`
}

// ChatData is a chat line from the client.
type ChatData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client. ID is present
// on correlated replies only.
type Outbound struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// UserIdentityData is the first message on every connection.
type UserIdentityData struct {
	UserID string `json:"user_id"`
}

// CreateRoomResult answers create_room.
type CreateRoomResult struct {
	Ok     bool   `json:"ok"`
	RoomID string `json:"room_id,omitempty"`
}

// JoinRoomResult answers join_room. Room is set when Status is "ok".
type JoinRoomResult struct {
	Status string    `json:"status"`
	Room   *RoomInfo `json:"room,omitempty"`
}

// RoomInfo describes the joined room.
type RoomInfo struct {
	RoomID  string   `json:"room_id"`
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id"`
	Members []string `json:"members"`
}

// LeaveRoomResult answers leave_room.
type LeaveRoomResult struct {
	Ok bool `json:"ok"`
}

// RoomListResult answers room_list.
type RoomListResult struct {
	Rooms []RoomSummary `json:"rooms"`
}

// RoomSummary is one open room in a listing.
type RoomSummary struct {
	RoomID          string `json:"room_id"`
	Name            string `json:"name"`
	MaxMembers      int    `json:"max_members"`
	MemberCount     int    `json:"member_count"`
	PasswordEnabled bool   `json:"password_enabled"`
}

// RoomAnnouncedData announces a freshly created room to every client.
type RoomAnnouncedData struct {
	RoomID          string `json:"room_id"`
	OwnerID         string `json:"owner_id"`
	Name            string `json:"name"`
	MaxMembers      int    `json:"max_members"`
	MemberCount     int    `json:"member_count"`
	PasswordEnabled bool   `json:"password_enabled"`
}

// RoomTitleChangedData updates a listed room's counters.
type RoomTitleChangedData struct {
	RoomID      string `json:"room_id"`
	MaxMembers  int    `json:"max_members"`
	MemberCount int    `json:"member_count"`
}

// MemberData names a member acting inside a room.
type MemberData struct {
	RoomID string `json:"room_id"`
	UserID string `json:"user_id"`
}

// ChatEventData carries a relayed chat line.
type ChatEventData struct {
	RoomID string `json:"room_id"`
	From   string `json:"from"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// HistoryData replays recent chat to a joining member.
type HistoryData struct {
	RoomID   string          `json:"room_id"`
	Messages []ChatEventData `json:"messages"`
}

// RoomStartedData hands a member off to the execution service. Identity is
// the recipient's own id; presented back to the execution service it forms
// the first segment of the session token.
type RoomStartedData struct {
	RoomID         string   `json:"room_id"`
	Identity       string   `json:"identity"`
	BridgeIdentity string   `json:"bridge_identity"`
	Endpoints      []string `json:"endpoints"`
	MemberCount    int      `json:"member_count"`
}

// RoomRemovedData announces a room teardown.
type RoomRemovedData struct {
	RoomID string `json:"room_id"`
}

// BridgeValidateRequest is the execution service's admission query.
type BridgeValidateRequest struct {
	RoomID string `json:"room_id"`
	Token  string `json:"token"`
}

// BridgeValidateResponse answers the admission query.
type BridgeValidateResponse struct {
	Valid bool `json:"valid"`
}
