package store

import (
	"context"
	"time"
)

// Message is a persisted chat line. Room and member state are deliberately
// not persisted; only the chat log survives in the database.
type Message struct {
	ID        int64
	RoomID    string
	FromID    string
	Body      string
	CreatedAt time.Time
}

// History is the chat log consumed by the lobby: messages are appended as
// they are relayed and replayed to clients joining a room.
type History interface {
	// SaveMessage appends one chat line.
	SaveMessage(ctx context.Context, roomID, fromID, body string) (*Message, error)

	// RecentMessages returns up to limit most recent messages for a room,
	// oldest first.
	RecentMessages(ctx context.Context, roomID string, limit int) ([]Message, error)

	// Close releases the underlying database.
	Close() error
}
