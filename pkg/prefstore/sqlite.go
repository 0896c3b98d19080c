package prefstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore 把偏好存到单表 prefs(key, value)
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite 打开（或创建）SQLite 文件并建表
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite：单连接更稳定
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS prefs (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate prefs: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetBool(key string) (bool, bool, error) {
	if s == nil || s.db == nil {
		return false, false, ErrClosed
	}
	k, err := normalizeKey(key)
	if err != nil {
		return false, false, err
	}
	var raw string
	err = s.db.QueryRow(`SELECT value FROM prefs WHERE key = ?`, k).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return decodeBool(raw), true, nil
}

func (s *SQLiteStore) SetBool(key string, value bool) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	k, err := normalizeKey(key)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO prefs(key, value, updated_at) VALUES(?, ?, strftime('%s','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		k, encodeBool(value))
	return err
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
