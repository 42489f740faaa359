// Package filestore implements types.KV on a directory of JSON files, one
// file per key. Writes go through a temp file that is fsynced and renamed
// over the target so readers never observe a partial value.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// fileExt is appended to each key to form its file name.
const fileExt = ".json"

var keyRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is a directory-backed types.KV.
type Store struct {
	mu     sync.RWMutex
	dir    string
	closed bool
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, types.ErrDataDirEmpty
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string { return s.dir }

// Path returns the file that holds key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Load reads the file for key. A missing file reports ok=false.
func (s *Store) Load(key string) ([]byte, bool, error) {
	if !keyRe.MatchString(key) {
		return nil, false, fmt.Errorf("%w: %q", types.ErrInvalidKey, key)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, types.ErrStoreClosed
	}
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

// Save atomically replaces the file for key.
func (s *Store) Save(key string, data []byte) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", types.ErrInvalidKey, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.ErrStoreClosed
	}
	return writeFileAtomic(s.Path(key), data)
}

// Close marks the store closed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// writeFileAtomic writes data using the temp-file, fsync, rename pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		if _, err := tmp.Write([]byte{'\n'}); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WriteFile exposes the atomic write for other artifacts that live next to
// the data files, such as rendered output.
func WriteFile(path string, data []byte) error {
	return writeFileAtomic(path, data)
}
