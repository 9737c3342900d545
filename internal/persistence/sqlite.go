package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/qdn-tickets/ticket-service/internal/config"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS qdn_documents (
    service     TEXT    NOT NULL,
    name        TEXT    NOT NULL,
    identifier  TEXT    NOT NULL,
    body        TEXT    NOT NULL,
    created_at  INTEGER,
    updated_at  INTEGER,
    mirrored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (service, name, identifier)
);
CREATE INDEX IF NOT EXISTS idx_qdn_documents_name ON qdn_documents(name);
`

// SQLite wraps the local document mirror database.
type SQLite struct {
	DB *sql.DB
}

// NewSQLite opens the mirror at cfg.Path and ensures its schema exists.
func NewSQLite(cfg config.SQLiteConfig, logger *zap.Logger) (*SQLite, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	logger.Info("opened sqlite mirror", zap.String("path", cfg.Path))
	return &SQLite{DB: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies the database is usable.
func (s *SQLite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("sqlite not configured")
	}
	return s.DB.PingContext(ctx)
}
