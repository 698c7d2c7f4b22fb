package cart

import (
	"testing"
	"time"

	"github.com/noah-isme/backend-galeri/internal/pricing"
)

func TestRegistryCreateAndGet(t *testing.T) {
	reg := NewRegistry(pricing.Fixed{Amount: 100}, time.Hour)
	id, store := reg.Create()
	if id == "" || store == nil {
		t.Fatal("expected a cart id and store")
	}

	got, ok := reg.Get(id)
	if !ok || got != store {
		t.Fatal("expected to resolve the same store")
	}
	if _, ok := reg.Get("unknown"); ok {
		t.Fatal("unknown id resolved")
	}
}

func TestRegistryDelete(t *testing.T) {
	reg := NewRegistry(pricing.Fixed{Amount: 100}, time.Hour)
	id, _ := reg.Create()
	reg.Delete(id)
	if _, ok := reg.Get(id); ok {
		t.Fatal("deleted cart still resolvable")
	}
	reg.Delete(id) // no-op
}

func TestRegistryExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	reg := NewRegistry(pricing.Fixed{Amount: 100}, 30*time.Minute).WithClock(clock)

	id, _ := reg.Create()

	current = current.Add(29 * time.Minute)
	if _, ok := reg.Get(id); !ok {
		t.Fatal("cart expired before its TTL")
	}

	// Get refreshed lastSeen, so a full TTL must elapse again.
	current = current.Add(31 * time.Minute)
	if _, ok := reg.Get(id); ok {
		t.Fatal("idle cart survived past its TTL")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}
