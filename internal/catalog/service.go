package catalog

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Fetcher is the upstream listing dependency, satisfied by *Client.
type Fetcher interface {
	List(ctx context.Context) ([]Item, error)
}

// Service owns the in-memory snapshot of the remote catalog. The fetch
// resolves once, asynchronously; every reader sees an empty catalog until it
// does. Fetch failure is logged and leaves the snapshot empty, so the
// storefront renders an empty gallery instead of crashing.
type Service struct {
	mu     sync.RWMutex
	items  []Item
	loaded bool

	fetcher Fetcher
	cache   *Cache
	logger  zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Fetcher Fetcher
	Cache   *Cache
	Logger  zerolog.Logger
}

// NewService constructs a Service instance with an empty snapshot.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		fetcher: cfg.Fetcher,
		cache:   cfg.Cache,
		logger:  cfg.Logger,
	}
}

// Refresh resolves the catalog snapshot: cache first, then the upstream
// feed. It is fire-and-forget from the caller's perspective; errors degrade
// to an empty catalog and are only logged.
func (s *Service) Refresh(ctx context.Context) {
	if s == nil || s.fetcher == nil {
		return
	}
	if cached, ok, err := s.cache.GetListing(ctx); err == nil && ok {
		s.replace(cached)
		s.logger.Info().Int("items", len(cached)).Msg("catalog loaded from cache")
		return
	}
	items, err := s.fetcher.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("catalog fetch failed, serving empty catalog")
		s.replace(nil)
		return
	}
	s.replace(items)
	if err := s.cache.SetListing(ctx, items); err != nil {
		s.logger.Warn().Err(err).Msg("cache catalog listing")
	}
	s.logger.Info().Int("items", len(items)).Msg("catalog loaded")
}

// List returns the current snapshot filtered by the author search term.
func (s *Service) List(term string) []Item {
	s.mu.RLock()
	items := s.items
	s.mu.RUnlock()
	return FilterByAuthor(items, term)
}

// Lookup finds an item by id within the current snapshot.
func (s *Service) Lookup(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Loaded reports whether the initial fetch has resolved (successfully or
// not). Used by the readiness probe.
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Service) replace(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.loaded = true
}
