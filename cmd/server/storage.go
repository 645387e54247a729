package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingodeck/internal/config"
	"github.com/phrazzld/lingodeck/internal/platform/filestore"
	"github.com/phrazzld/lingodeck/internal/platform/sqlstore"
	"github.com/phrazzld/lingodeck/internal/store"
)

// newKV opens the record store selected by cfg.Engine.
func newKV(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (store.KV, error) {
	switch cfg.Engine {
	case config.EngineMemory:
		logger.Warn("using in-memory storage; learner records are lost on exit")
		return store.NewMemoryKV(), nil
	case config.EngineJSON:
		return filestore.New(cfg.Path, logger)
	case config.EngineSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.Path, logger)
	case config.EnginePostgres:
		return sqlstore.OpenPostgres(ctx, cfg.URL, logger)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
}
