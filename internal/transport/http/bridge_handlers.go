package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/bridge"
	"github.com/vovakirdan/lobbyhub/internal/proto"
)

// BridgeHandlers serves the execution service's admission check.
type BridgeHandlers struct {
	svc *bridge.Service
	log *zerolog.Logger
}

// NewBridgeHandlers creates bridge route handlers.
func NewBridgeHandlers(svc *bridge.Service, logger *zerolog.Logger) *BridgeHandlers {
	return &BridgeHandlers{svc: svc, log: logger}
}

// ValidateSession answers whether the session token belongs to a current
// member of the started room.
// POST /bridge/validate_session
func (h *BridgeHandlers) ValidateSession(c *gin.Context) {
	var req proto.BridgeValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid validate_session request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	valid := h.svc.ValidateSession(req.RoomID, req.Token)
	c.JSON(http.StatusOK, proto.BridgeValidateResponse{Valid: valid})
}
