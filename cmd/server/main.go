// Package main implements the entry point for the lingodeck server, which
// serves flashcards, quizzes and learning progress over a JSON API.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/lingodeck/internal/config"
	"github.com/phrazzld/lingodeck/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("lingodeck: %v", err)
	}
}

// run loads configuration, builds the application and serves until ctx is
// cancelled. An optional first argument names a config file.
func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	ctx = logger.WithLogger(ctx, l)

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("storage_engine", cfg.Storage.Engine))

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.serve(ctx)
}
