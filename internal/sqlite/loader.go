package sqlite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// importJSONFiles copies <key>.json from dataDir into the kv table for each
// key that has no row yet. Missing files are skipped. Content is stored as
// read; decoding happens in the services that own each key.
func importJSONFiles(s *Store, dataDir string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		var n int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv WHERE key = ?`, key).Scan(&n); err != nil {
			return fmt.Errorf("checking %s: %w", key, err)
		}
		if n > 0 {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dataDir, key+".json"))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s.json: %w", key, err)
		}
		if err := s.saveLocked(key, data); err != nil {
			return err
		}
	}
	return nil
}
