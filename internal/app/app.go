package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobbyhub/internal/bridge"
	"github.com/vovakirdan/lobbyhub/internal/config"
	"github.com/vovakirdan/lobbyhub/internal/core"
	"github.com/vovakirdan/lobbyhub/internal/store"
	"github.com/vovakirdan/lobbyhub/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/lobbyhub/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	history         store.History
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	history, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init chat log: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("chat log initialized")

	lobby := core.NewLobby(history, core.HandoffInfo{
		BridgeIdentity: cfg.Bridge.Identity,
		Endpoints:      cfg.Bridge.ClientsEndpoints,
	}, logger)

	bridgeSvc := bridge.NewService(lobby.Rooms(), logger)
	tokens := &bridge.TokenConfig{
		Key:      []byte(cfg.Bridge.Key),
		Identity: cfg.Bridge.Identity,
		TTL:      24 * time.Hour,
	}

	server := transporthttp.NewServer(lobby, bridgeSvc, tokens, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		history:         history,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the chat log and other resources.
func (a *App) cleanup() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close chat log")
		} else {
			a.log.Info().Msg("chat log closed")
		}
	}
}
