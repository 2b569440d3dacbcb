// Command server runs the Stagebook booking site.
//
// Configuration comes from the environment (and an optional .env file); see
// internal/config for the keys and their defaults.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/stagebook/internal/config"
	"github.com/sakif/stagebook/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Flash.Generated {
		logger.Warn("FLASH_SECRET not set, using a random secret; pending flash messages will not survive a restart")
	}

	ctx := context.Background()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM (or a listen error).
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger logs text in development and JSON in production.
func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.App.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
