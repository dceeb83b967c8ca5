package core

import (
	"testing"

	"github.com/google/uuid"
)

func newTestRegistry() (*RoomRegistry, *ClientRegistry) {
	clients := NewClientRegistry()
	return NewRoomRegistry(NewBroadcaster(clients)), clients
}

func TestRoomRegistryNeverReusesIDs(t *testing.T) {
	rooms, clients := newTestRegistry()
	owner := clients.Register("owner")

	seen := make(map[uuid.UUID]struct{})
	for i := 0; i < 500; i++ {
		room := rooms.Create(RoomSpec{Name: "r", MaxMembers: 2}, owner.ID)
		if _, dup := seen[room.ID]; dup {
			t.Fatalf("room id %s issued twice", room.ID)
		}
		seen[room.ID] = struct{}{}

		// Half the rooms retire to processing, half are torn down; neither
		// frees the id for reuse while the registry lives.
		if i%2 == 0 {
			rooms.MoveToProcessing(room.ID)
		}
	}
}

func TestMoveToProcessingIsExclusive(t *testing.T) {
	rooms, clients := newTestRegistry()
	room := rooms.Create(RoomSpec{Name: "r", MaxMembers: 2}, clients.Register("o").ID)

	moved, ok := rooms.MoveToProcessing(room.ID)
	if !ok || moved != room {
		t.Fatal("first migration failed")
	}
	if _, ok := rooms.MoveToProcessing(room.ID); ok {
		t.Fatal("second migration succeeded")
	}

	if _, ok := rooms.Get(room.ID); ok {
		t.Fatal("processing room still visible in open collection")
	}
	if _, ok := rooms.GetProcessing(room.ID); !ok {
		t.Fatal("processing room missing from processing collection")
	}
}

func TestRemoveWinsExactlyOnce(t *testing.T) {
	rooms, clients := newTestRegistry()
	room := rooms.Create(RoomSpec{Name: "r", MaxMembers: 2}, clients.Register("o").ID)

	if !rooms.Remove(room.ID) {
		t.Fatal("first remove failed")
	}
	if rooms.Remove(room.ID) {
		t.Fatal("second remove succeeded")
	}
}

func TestSnapshotListsOnlyOpenRooms(t *testing.T) {
	rooms, clients := newTestRegistry()
	owner := clients.Register("owner")

	open := rooms.Create(RoomSpec{Name: "open", MaxMembers: 2}, owner.ID)
	started := rooms.Create(RoomSpec{Name: "started", MaxMembers: 2}, owner.ID)
	rooms.MoveToProcessing(started.ID)

	snapshot := rooms.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("snapshot has %d rooms, want 1", len(snapshot))
	}
	if snapshot[0].ID != open.ID || snapshot[0].Name != "open" {
		t.Fatalf("unexpected snapshot entry: %+v", snapshot[0])
	}
}
