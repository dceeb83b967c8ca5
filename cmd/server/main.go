package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lobbyhub/internal/app"
	"github.com/vovakirdan/lobbyhub/internal/config"
	"github.com/vovakirdan/lobbyhub/internal/log"
)

func main() {
	var (
		configPath        string
		addr              string
		dbPath            string
		logLevel          string
		readHeaderTimeout time.Duration
		shutdownTimeout   time.Duration
	)

	rootCmd := &cobra.Command{
		Use:          "lobbyhub",
		Short:        "Real-time lobby and matchmaking coordination server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(logLevel)

			cfg, path, err := config.Load(logger, configPath)
			if err != nil {
				return err
			}
			cfg.UpdateFrom(config.Config{
				Addr:              addr,
				ReadHeaderTimeout: readHeaderTimeout,
				ShutdownTimeout:   shutdownTimeout,
				DatabasePath:      dbPath,
				LogLevel:          logLevel,
			})

			logger = log.New(cfg.LogLevel)
			logger.Info().Str("config", path).Str("addr", cfg.Addr).Msg("starting lobbyhub server")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(&cfg, logger)
			if err != nil {
				return err
			}

			if err := application.Run(ctx); err != nil {
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	rootCmd.Flags().StringVar(&dbPath, "db-path", "", "path to the chat log database")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().DurationVar(&readHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	rootCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
