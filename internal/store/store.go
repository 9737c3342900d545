// Package store opens the document store selected by configuration.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/qdn-tickets/ticket-service/internal/config"
	"github.com/qdn-tickets/ticket-service/internal/persistence"
	"github.com/qdn-tickets/ticket-service/internal/qdn"
	"github.com/qdn-tickets/ticket-service/internal/repository"
	"github.com/qdn-tickets/ticket-service/migrations"
)

// Backend is an opened document store plus the handles it owns.
type Backend struct {
	Source string
	Store  qdn.DocumentStore
	// Mirror is set for the postgres and sqlite sources.
	Mirror repository.DocumentRepository
	Checks map[string]qdn.Pinger

	closers []func()
}

// Open connects the backend named by cfg.QDN.Source.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend := &Backend{Source: cfg.QDN.Source, Checks: map[string]qdn.Pinger{}}

	switch cfg.QDN.Source {
	case config.SourceHTTP:
		client, err := qdn.NewClient(cfg.QDN, logger.Named("qdn"))
		if err != nil {
			return nil, err
		}
		backend.Store = client
		backend.Checks["qdn"] = client

	case config.SourcePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		backend.closers = append(backend.closers, pg.Close)
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
				backend.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		backend.Mirror = repository.NewPostgresDocumentRepository(pg.PoolHandle())
		backend.Store = backend.Mirror
		backend.Checks["postgres"] = pg

	case config.SourceSQLite:
		lite, err := persistence.NewSQLite(cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		backend.closers = append(backend.closers, lite.Close)
		backend.Mirror = repository.NewSQLiteDocumentRepository(lite.DB)
		backend.Store = backend.Mirror
		backend.Checks["sqlite"] = lite

	default:
		return nil, fmt.Errorf("unknown document source %q", cfg.QDN.Source)
	}

	logger.Info("document store ready", zap.String("source", cfg.QDN.Source))
	return backend, nil
}

// Close releases every handle in reverse order of acquisition.
func (b *Backend) Close() {
	if b == nil {
		return
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
