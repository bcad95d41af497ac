// Package backend selects the storage adapter named in config.
package backend

import (
	"context"
	"errors"
	"fmt"

	"taskboard/internal/backend/filestore"
	"taskboard/internal/backend/firestore"
	"taskboard/internal/backend/sqlstore"
	"taskboard/internal/config"
	"taskboard/internal/storage"
)

// ErrNoDSN is returned when the mysql backend has no DSN configured.
var ErrNoDSN = errors.New("mysql backend requires sql.dsn (or TASKBOARD_SQL_DSN)")

// Open returns the storage adapter for cfg.Settings.Backend.
// Adapters that hold resources also implement io.Closer.
func Open(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Settings.Backend {
	case config.BackendFile:
		return filestore.New(cfg.BoardsPath())
	case config.BackendSQLite:
		dsn := cfg.Settings.SQL.DSN
		if dsn == "" {
			if err := cfg.EnsureDir(); err != nil {
				return nil, fmt.Errorf("failed to create config directory: %w", err)
			}
			dsn = cfg.DatabasePath()
		}
		return sqlstore.Open(ctx, sqlstore.DriverSQLite, dsn)
	case config.BackendMySQL:
		if cfg.Settings.SQL.DSN == "" {
			return nil, ErrNoDSN
		}
		return sqlstore.Open(ctx, sqlstore.DriverMySQL, cfg.Settings.SQL.DSN)
	case config.BackendFirestore:
		return firestore.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Settings.Backend)
	}
}

// NeedsAuth reports whether the configured backend authenticates with the
// stored login token.
func NeedsAuth(cfg *config.Config) bool {
	return cfg.Settings.Backend == config.BackendFirestore && cfg.Settings.Firestore.CredentialsFile == ""
}
