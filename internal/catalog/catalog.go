// Package catalog serves the feeling catalog. The catalog is loaded once
// per service; when the store has none, the default palette is written on
// first use.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// defaultFeelings is the palette persisted on first run.
var defaultFeelings = []types.Feeling{
	{Name: "alegria", Emoji: "😊", Color: "#FFD700"},
	{Name: "tristeza", Emoji: "😢", Color: "#4A90E2"},
	{Name: "raiva", Emoji: "😠", Color: "#E74C3C"},
	{Name: "nojinho", Emoji: "🤢", Color: "#2ECC71"},
	{Name: "medo", Emoji: "😨", Color: "#9B59B6"},
	{Name: "ansiedade", Emoji: "😰", Color: "#FF6B6B"},
	{Name: "tedio", Emoji: "😑", Color: "#95A5A6"},
	{Name: "vergonha", Emoji: "😳", Color: "#FF69B4"},
	{Name: "inveja", Emoji: "😒", Color: "#00CED1"},
	{Name: "nostalgia", Emoji: "🥺", Color: "#DEB887"},
}

// Defaults returns the built-in catalog.
func Defaults() types.Catalog {
	c, err := types.NewCatalog(defaultFeelings)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid default palette: %v", err))
	}
	return c
}

// Service loads and validates feelings against a KV store.
type Service struct {
	kv     types.KV
	logger *log.Logger

	mu     sync.Mutex
	loaded bool
	cat    types.Catalog
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentCatalog) }
}

// New returns a catalog service reading from kv.
func New(kv types.KV, opts ...Option) *Service {
	s := &Service{kv: kv, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the catalog, writing the defaults when none is stored.
func (s *Service) List() (types.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.cat, nil
	}

	data, ok, err := s.kv.Load(types.KeyCatalog)
	if err != nil {
		return types.Catalog{}, fmt.Errorf("loading catalog: %w", err)
	}

	var cat types.Catalog
	if ok {
		cat, err = types.DecodeCatalog(data)
		if err != nil {
			return types.Catalog{}, fmt.Errorf("decoding catalog: %w", err)
		}
	} else {
		cat, err = s.bootstrap()
		if err != nil {
			return types.Catalog{}, err
		}
	}

	s.cat = cat
	s.loaded = true
	return cat, nil
}

// bootstrap persists the default palette. The caller holds s.mu.
func (s *Service) bootstrap() (types.Catalog, error) {
	cat := Defaults()
	data, err := types.EncodeCatalog(cat)
	if err != nil {
		return types.Catalog{}, fmt.Errorf("encoding default catalog: %w", err)
	}
	if err := s.kv.Save(types.KeyCatalog, data); err != nil {
		return types.Catalog{}, fmt.Errorf("saving default catalog: %w", err)
	}
	s.logger.Info("catalog bootstrapped", log.FieldOperation, log.OpBootstrap, "feelings", cat.Len())
	return cat, nil
}

// Validate reports whether name is a known feeling.
func (s *Service) Validate(name string) (bool, error) {
	cat, err := s.List()
	if err != nil {
		return false, err
	}
	return cat.Has(name), nil
}

// Get returns the named feeling, or an *types.InvalidFeelingError listing
// the valid names.
func (s *Service) Get(name string) (types.Feeling, error) {
	cat, err := s.List()
	if err != nil {
		return types.Feeling{}, err
	}
	f, ok := cat.Get(name)
	if !ok {
		return types.Feeling{}, &types.InvalidFeelingError{Name: name, Valid: cat.Names()}
	}
	return f, nil
}

// IsInvalidFeeling reports whether err came from an unknown feeling name.
func IsInvalidFeeling(err error) bool {
	return errors.Is(err, types.ErrInvalidFeeling)
}
