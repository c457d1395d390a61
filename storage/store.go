// Package storage implements the device-scoped settings store: a small
// key-value table that survives restarts but is never shared across
// devices. It holds the generated user ID, the last-entered agent engine
// resource ID, and the optional credential bundle.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"aetui/config"
)

// Keys persisted in the settings store.
const (
	KeyUserID      = "user_id"
	KeyResourceID  = "agent_engine_resource_id"
	KeyCredentials = "gcp_credentials"
)

// Store is a per-device key-value store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings store under dataDir.
func Open(dataDir string) (*Store, error) {
	// 0700 - the store holds credentials
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "settings.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping settings store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize settings store: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value under key, replacing any previous value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}
	return nil
}

// UserID returns the device user identifier, generating and persisting a
// fresh UUID on first use. The ID is opaque to the remote service; it only
// partitions sessions.
func (s *Store) UserID() (string, error) {
	id, ok, err := s.Get(KeyUserID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.New().String()
	if err := s.Set(KeyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}

// ResourceID returns the previously entered resource ID, if any.
func (s *Store) ResourceID() (string, bool) {
	id, ok, err := s.Get(KeyResourceID)
	if err != nil || id == "" {
		return "", false
	}
	return id, ok
}

func (s *Store) SaveResourceID(id string) error {
	return s.Set(KeyResourceID, id)
}

// Credentials returns the stored credential bundle. A missing or malformed
// blob is reported as absent, not as an error; the caller reopens the
// bootstrap dialog in that case.
func (s *Store) Credentials() (*config.Credentials, bool) {
	blob, ok, err := s.Get(KeyCredentials)
	if err != nil || !ok {
		return nil, false
	}

	creds, err := config.ParseCredentials(blob)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Store] Ignoring malformed credential blob: %v", err)
		}
		return nil, false
	}
	return creds, true
}

func (s *Store) SaveCredentials(creds *config.Credentials) error {
	blob, err := creds.Encode()
	if err != nil {
		return err
	}
	return s.Set(KeyCredentials, blob)
}
