package core

import (
	"sync"

	"github.com/google/uuid"
)

// RoomSummary is one entry of a room listing snapshot.
type RoomSummary struct {
	ID              uuid.UUID
	Name            string
	MaxMembers      int
	MemberCount     int
	PasswordEnabled bool
}

// RoomRegistry owns every Room. A room lives in exactly one of two
// collections: open (Lobby state, joinable and listed) or processing
// (started, visible only to the session bridge). Both collections sit
// behind one lock so the lobby→processing migration is atomic: a started
// room is never observable in both maps or in neither.
type RoomRegistry struct {
	bcast *Broadcaster

	mu         sync.RWMutex
	open       map[uuid.UUID]*Room
	processing map[uuid.UUID]*Room
}

// NewRoomRegistry builds an empty registry whose rooms broadcast through
// bcast.
func NewRoomRegistry(bcast *Broadcaster) *RoomRegistry {
	return &RoomRegistry{
		bcast:      bcast,
		open:       make(map[uuid.UUID]*Room),
		processing: make(map[uuid.UUID]*Room),
	}
}

// Create makes a new Lobby-state room owned by ownerID and inserts it into
// the open collection. The id loop retries on collision, so an issued room
// id is never shared, even against ids already retired to processing.
func (rr *RoomRegistry) Create(spec RoomSpec, ownerID uuid.UUID) *Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var id uuid.UUID
	for {
		id = uuid.New()
		_, inOpen := rr.open[id]
		_, inProcessing := rr.processing[id]
		if !inOpen && !inProcessing {
			break
		}
	}

	room := newRoom(id, spec, ownerID, rr.bcast)
	rr.open[id] = room
	return room
}

// Get looks up a joinable room. Processing rooms are invisible here.
func (rr *RoomRegistry) Get(id uuid.UUID) (*Room, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	room, ok := rr.open[id]
	return room, ok
}

// GetProcessing looks up a started room; only the session bridge reads
// this collection.
func (rr *RoomRegistry) GetProcessing(id uuid.UUID) (*Room, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	room, ok := rr.processing[id]
	return room, ok
}

// Remove takes a room out of the open collection. Returns false if it was
// not there, so exactly one caller wins a concurrent teardown.
func (rr *RoomRegistry) Remove(id uuid.UUID) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if _, ok := rr.open[id]; !ok {
		return false
	}
	delete(rr.open, id)
	return true
}

// MoveToProcessing migrates a room from open to processing in one step.
// Returns false if the room is not open, so only one starter wins.
func (rr *RoomRegistry) MoveToProcessing(id uuid.UUID) (*Room, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	room, ok := rr.open[id]
	if !ok {
		return nil, false
	}
	delete(rr.open, id)
	rr.processing[id] = room
	return room, true
}

// Snapshot returns a point-in-time listing of the open collection. Rooms
// created or removed while the snapshot is being taken may or may not
// appear, but no room appears twice and no entry is half-mutated.
func (rr *RoomRegistry) Snapshot() []RoomSummary {
	rr.mu.RLock()
	rooms := make([]*Room, 0, len(rr.open))
	for _, room := range rr.open {
		rooms = append(rooms, room)
	}
	rr.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomSummary{
			ID:              room.ID,
			Name:            room.Name,
			MaxMembers:      room.MaxMembers,
			MemberCount:     room.MemberCount(),
			PasswordEnabled: room.PasswordEnabled(),
		})
	}
	return out
}
