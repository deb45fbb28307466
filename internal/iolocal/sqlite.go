package iolocal

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/gnames/gncat/pkg/store"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// sqliteStore keeps the payload in one row of a sqlite table.
type sqliteStore struct {
	db   *sql.DB
	path string
	key  string
}

// NewSQLite opens (creating if needed) a sqlite database at path.
func NewSQLite(ctx context.Context, path, key string) (store.LocalStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, OpenError("sqlite", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, OpenError("sqlite", path, err)
	}
	// one writer at a time avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, OpenError("sqlite", path, err)
	}
	return &sqliteStore{db: db, path: path, key: key}, nil
}

func (s *sqliteStore) Load(ctx context.Context) ([]byte, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}
	var res []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM kv WHERE key = ?`, s.key).Scan(&res)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoData
	}
	if err != nil {
		return nil, LoadError(s.key, err)
	}
	return res, nil
}

func (s *sqliteStore) Save(ctx context.Context, data []byte) error {
	if s.db == nil {
		return NotConnectedError()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, payload, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		s.key, data)
	if err != nil {
		return SaveError(s.key, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
