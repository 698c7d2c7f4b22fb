package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-galeri/internal/pricing"
)

// Registry owns the live carts, keyed by cart id. Carts are in-memory only
// and expire after the configured idle TTL; there is no persistence across
// restarts.
type Registry struct {
	mu     sync.Mutex
	carts  map[string]*registryEntry
	policy pricing.Policy
	ttl    time.Duration
	now    func() time.Time
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry constructs a Registry that prices new line items with the
// provided policy.
func NewRegistry(policy pricing.Policy, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Registry{
		carts:  make(map[string]*registryEntry),
		policy: policy,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the registry clock. Tests use it to exercise expiry.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now != nil {
		r.now = now
	}
	return r
}

// Create registers a new empty cart and returns its id.
func (r *Registry) Create() (string, *Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	id := uuid.NewString()
	store := NewStore(r.policy)
	r.carts[id] = &registryEntry{store: store, lastSeen: r.now()}
	return id, store
}

// Get returns the cart for the given id, refreshing its idle deadline.
// Expired carts are treated as absent.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	entry, ok := r.carts[id]
	if !ok {
		return nil, false
	}
	entry.lastSeen = r.now()
	return entry.store, true
}

// Delete removes a cart. Deleting an absent id is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
}

// Len reports the number of live carts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.carts)
}

func (r *Registry) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, entry := range r.carts {
		if entry.lastSeen.Before(cutoff) {
			delete(r.carts, id)
		}
	}
}
