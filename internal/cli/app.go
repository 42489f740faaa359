package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/moodlog/internal/backend"
	"github.com/mesh-intelligence/moodlog/internal/catalog"
	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// app bundles the services one command works with. The caller must Close it.
type app struct {
	settings settings
	logger   *log.Logger
	kv       types.KV
	catalog  *catalog.Service
	journal  *journal.Journal
}

// openApp resolves settings, opens the configured backend and wires the
// catalog and journal over it.
func openApp(cmd *cobra.Command, opts ...journal.Option) (*app, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	logger, err := s.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	kv, err := backend.Open(s.Store)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	logger.Debug("backend opened",
		log.FieldBackend, s.Store.Backend,
		log.FieldDataDir, s.Store.DataDir)

	cat := catalog.New(kv, catalog.WithLogger(logger.WithComponent(log.ComponentCatalog)))
	opts = append([]journal.Option{
		journal.WithClock(clock),
		journal.WithLogger(logger.WithComponent(log.ComponentJournal)),
	}, opts...)

	return &app{
		settings: s,
		logger:   logger,
		kv:       kv,
		catalog:  cat,
		journal:  journal.New(kv, cat, opts...),
	}, nil
}

// Close releases the backend.
func (a *app) Close() error {
	if err := a.kv.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// withApp opens the app, runs fn and closes the app, joining any close
// error with fn's error.
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
