// Package backend opens the KV store selected by configuration.
package backend

import (
	"fmt"

	"github.com/mesh-intelligence/moodlog/internal/filestore"
	"github.com/mesh-intelligence/moodlog/internal/memory"
	"github.com/mesh-intelligence/moodlog/internal/sqlite"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// Open validates cfg and returns the matching store. The caller owns the
// returned store and must Close it.
func Open(cfg types.Config) (types.KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case types.BackendJSON:
		s, err := filestore.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening json backend: %w", err)
		}
		return s, nil
	case types.BackendSQLite:
		s, err := sqlite.Open(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite backend: %w", err)
		}
		return s, nil
	case types.BackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}
