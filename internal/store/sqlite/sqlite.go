package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/lobbyhub/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room_id    TEXT NOT NULL,
	from_id    TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, id);
`

// SQLiteHistory implements store.History over SQLite.
type SQLiteHistory struct {
	db *sql.DB
}

// New opens (or creates) the chat log database at dbPath.
func New(dbPath string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteHistory{db: db}, nil
}

// NewWithSetup opens the database and runs a setup function before the
// schema check. Useful for tests seeding extra data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteHistory, error) {
	h, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	if setup != nil {
		if err := setup(h.db); err != nil {
			h.db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}
	return h, nil
}

// SaveMessage appends one chat line and returns the stored row.
func (s *SQLiteHistory) SaveMessage(ctx context.Context, roomID, fromID, body string) (*store.Message, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (room_id, from_id, body) VALUES (?, ?, ?)`,
		roomID, fromID, body)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	msg := &store.Message{ID: id, RoomID: roomID, FromID: fromID, Body: body}
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM messages WHERE id = ?`, id).Scan(&msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("read message back: %w", err)
	}
	return msg, nil
}

// RecentMessages returns up to limit most recent messages for a room,
// oldest first.
func (s *SQLiteHistory) RecentMessages(ctx context.Context, roomID string, limit int) ([]store.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, from_id, body, created_at FROM (
			SELECT id, room_id, from_id, body, created_at
			FROM messages WHERE room_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []store.Message
	for rows.Next() {
		var m store.Message
		if err := rows.Scan(&m.ID, &m.RoomID, &m.FromID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
