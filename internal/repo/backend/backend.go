// Package backend opens the history KV selected by configuration.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/config"
	"github.com/arun-gupta/api-status-dashboard/internal/repo"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/memory"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/postgres"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/sqlite"
)

// Open returns the KV for cfg.StoreDriver() and a func that releases it.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (repo.KV, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.StoreDriver() {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("store_selected", zap.String("driver", config.DriverPostgres))
		return pg, pg.Close, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("sqlite dir: %w", err)
			}
		}
		db, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		log.Info("store_selected", zap.String("driver", config.DriverSQLite), zap.String("path", cfg.SQLitePath))
		return db, func() {
			if err := db.Close(); err != nil {
				log.Warn("sqlite_close_error", zap.Error(err))
			}
		}, nil

	default:
		log.Warn("store_selected", zap.String("driver", config.DriverMemory), zap.String("note", "history is lost on restart"))
		return memory.New(), func() {}, nil
	}
}
