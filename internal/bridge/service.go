package bridge

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/core"
)

// Service answers the execution service's admission question: is the
// client named by this session token currently a member of that started
// room? It reads only the processing collection and has no side effects.
type Service struct {
	rooms *core.RoomRegistry
	log   *zerolog.Logger
}

// NewService builds the bridge over the lobby's room registry.
func NewService(rooms *core.RoomRegistry, logger *zerolog.Logger) *Service {
	return &Service{rooms: rooms, log: logger}
}

// ValidateSession checks a session token against a started room. The token
// is "{clientIdentity}:{opaque-suffix}"; only the segment before the first
// colon matters. Every parse failure fails closed.
func (s *Service) ValidateSession(roomID, token string) bool {
	rid, err := uuid.Parse(roomID)
	if err != nil {
		s.log.Debug().Str("room_id", roomID).Msg("bridge: malformed room id")
		return false
	}

	identity, _, _ := strings.Cut(token, ":")
	uid, err := uuid.Parse(identity)
	if err != nil {
		s.log.Debug().Stringer("room_id", rid).Msg("bridge: malformed session token")
		return false
	}

	room, ok := s.rooms.GetProcessing(rid)
	if !ok {
		return false
	}
	return room.Has(uid)
}
