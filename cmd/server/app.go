package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingodeck/internal/app"
	"github.com/phrazzld/lingodeck/internal/catalog"
	"github.com/phrazzld/lingodeck/internal/config"
	"github.com/phrazzld/lingodeck/internal/quiz"
	"github.com/phrazzld/lingodeck/internal/redact"
	"github.com/phrazzld/lingodeck/internal/store"
)

// application holds the process-wide dependencies so they can be released
// together on shutdown.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	kv        store.KV
	scheduler *quiz.TickerScheduler
	state     *app.App
}

// newApplication opens storage, loads the vocabulary and builds the app state.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	kv, err := newKV(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Engine, err)
	}

	cat := catalog.Load(ctx, cfg.Catalog.Path)
	if cat.Len() == 0 {
		logger.Warn("vocabulary is empty; card and quiz requests will find no cards")
	}

	scheduler := quiz.NewTickerScheduler()
	state := app.New(ctx, cat, kv, logger, app.Options{
		Scheduler:     scheduler,
		QuizDuration:  time.Duration(cfg.Quiz.DurationSeconds) * time.Second,
		QuestionLimit: cfg.Quiz.QuestionLimit,
		HistoryLimit:  cfg.Quiz.HistoryLimit,
	})

	return &application{
		config:    cfg,
		logger:    logger,
		kv:        kv,
		scheduler: scheduler,
		state:     state,
	}, nil
}

// cleanup stops the quiz countdown and closes storage.
func (a *application) cleanup() {
	a.state.Close()
	a.scheduler.Wait()

	if err := a.kv.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.String("error", redact.Error(err)))
	}
	a.logger.Info("application resources released")
}
