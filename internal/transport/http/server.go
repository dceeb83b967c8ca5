package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/bridge"
	"github.com/vovakirdan/lobbyhub/internal/config"
	"github.com/vovakirdan/lobbyhub/internal/core"
)

// NewServer builds the HTTP server: health probe, the websocket lobby
// endpoint, the room listing API and the bridge route used by the
// execution service.
func NewServer(lobby *core.Lobby, bridgeSvc *bridge.Service, tokens *bridge.TokenConfig, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(lobby, logger)
	router.GET("/api/rooms", rooms.ListRooms)

	bh := NewBridgeHandlers(bridgeSvc, logger)
	bridgeGroup := router.Group("/bridge", BridgeAuthMiddleware(tokens, logger))
	bridgeGroup.POST("/validate_session", bh.ValidateSession)

	// The upgrade needs the raw ResponseWriter: gin's writer refuses the
	// hijack, so the websocket route sits on the mux, not the router.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(lobby, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
