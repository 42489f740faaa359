// Package sqlite implements types.KV on a SQLite database. Each key is a
// row in the kv table; the schema is managed by embedded migrations.
//
// On open, keys missing from the database are imported from the JSON files
// a file-backed data directory would hold, so switching backends keeps the
// existing journal.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// DBFile is the database file name inside the data directory.
const DBFile = "moodlog.db"

// Store is a SQLite-backed types.KV.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
	now    func() time.Time
}

// Open creates dataDir if needed, migrates the database and imports any
// JSON files for keys the database does not hold yet.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, types.ErrDataDirEmpty
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, DBFile)
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)"

	if err := runMigrations(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// A single connection keeps writes ordered.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path, now: time.Now}

	if err := importJSONFiles(s, dataDir, types.KeyCatalog, types.KeyRecords); err != nil {
		db.Close()
		return nil, fmt.Errorf("importing JSON files: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Load returns the value stored under key.
func (s *Store) Load(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, types.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, types.ErrStoreClosed
	}

	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading %s: %w", key, err)
	}
	return value, true, nil
}

// Save upserts the value under key.
func (s *Store) Save(key string, data []byte) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	return s.saveLocked(key, data)
}

func (s *Store) saveLocked(key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
