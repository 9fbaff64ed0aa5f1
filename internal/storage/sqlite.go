package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable Store backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and runs
// pending migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, kind, owner string, v any) (bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE kind = ? AND owner = ?`,
		kind, owner,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get entry %s/%s: %w", kind, owner, err)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode entry %s/%s: %w", kind, owner, err)
	}
	return true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, kind, owner string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode entry %s/%s: %w", kind, owner, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries (kind, owner, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (kind, owner) DO UPDATE SET
		   value = excluded.value,
		   updated_at = CURRENT_TIMESTAMP`,
		kind, owner, raw,
	)
	if err != nil {
		return fmt.Errorf("put entry %s/%s: %w", kind, owner, err)
	}

	slog.DebugContext(ctx, "Entry persisted", "kind", kind, "owner", owner, "bytes", len(raw))
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, kind, owner string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE kind = ? AND owner = ?`,
		kind, owner,
	); err != nil {
		return fmt.Errorf("delete entry %s/%s: %w", kind, owner, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
