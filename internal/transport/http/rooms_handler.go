package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/core"
	"github.com/vovakirdan/lobbyhub/internal/proto"
)

// RoomHandlers exposes the open room listing over plain HTTP.
type RoomHandlers struct {
	lobby *core.Lobby
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(lobby *core.Lobby, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{lobby: lobby, log: logger}
}

// ListRooms returns a snapshot of joinable rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.lobby.RoomList()

	response := make([]proto.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		response = append(response, proto.RoomSummary{
			RoomID:          r.ID.String(),
			Name:            r.Name,
			MaxMembers:      r.MaxMembers,
			MemberCount:     r.MemberCount,
			PasswordEnabled: r.PasswordEnabled,
		})
	}

	h.log.Debug().Int("room_count", len(response)).Msg("rooms listed")
	c.JSON(http.StatusOK, response)
}
