// Package sqlstore implements storage.Storage on a single key-value table,
// using SQLite (modernc.org/sqlite) or MySQL (go-sql-driver/mysql).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"taskboard/internal/storage"
)

const (
	// DriverSQLite selects the pure-Go SQLite driver.
	DriverSQLite = "sqlite"

	// DriverMySQL selects the MySQL driver.
	DriverMySQL = "mysql"
)

type dialect struct {
	createTable string
	upsert      string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		createTable: `CREATE TABLE IF NOT EXISTS kv_store (
    store_key TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
		upsert: `INSERT INTO kv_store (store_key, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(store_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	},
	DriverMySQL: {
		createTable: `CREATE TABLE IF NOT EXISTS kv_store (
    store_key VARCHAR(191) PRIMARY KEY,
    payload LONGBLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
		upsert: `INSERT INTO kv_store (store_key, payload, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`,
	},
}

// Store is a storage.Storage backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database and creates the table if needed.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One writer at a time; SQLite serializes anyway.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s := &Store{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return fmt.Errorf("create kv_store: %w", err)
	}
	return nil
}

// GetItem implements storage.Storage.
func (s *Store) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	if err := storage.ValidateKey(key); err != nil {
		return nil, false, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_store WHERE store_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// SetItem implements storage.Storage.
func (s *Store) SetItem(ctx context.Context, key string, value []byte) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().UTC())
	return err
}

// RemoveItem implements storage.Storage.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE store_key = ?`, key)
	return err
}
