package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
)

// Backend is an opened KeyValue together with its resource cleanup.
type Backend struct {
	KV    KeyValue
	Name  string
	close func()
}

// Close releases connections held by the backend.
func (b *Backend) Close() {
	if b != nil && b.close != nil {
		b.close()
	}
}

// Open connects the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	ns := cfg.Store.Namespace

	switch cfg.Store.Backend {
	case config.BackendRedis:
		r := NewRedis(ctx, cfg.Redis, logger)
		return &Backend{KV: r.KeyValue(ns), Name: config.BackendRedis, close: r.Close}, nil

	case config.BackendPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.DB(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		return &Backend{KV: NewSQLKV(pg.DB(), ns), Name: config.BackendPostgres, close: pg.Close}, nil

	case config.BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := RunMigrations(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("opened sqlite", zap.String("path", cfg.SQLite.Path))
		return &Backend{KV: NewSQLKV(db, ns), Name: config.BackendSQLite, close: func() { _ = db.Close() }}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return &Backend{KV: NewMemoryKV(ns), Name: config.BackendMemory}, nil
	}
	return nil, fmt.Errorf("unsupported backend %q", cfg.Store.Backend)
}
