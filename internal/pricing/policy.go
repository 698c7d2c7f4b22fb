package pricing

import (
	"math/rand"
	"sync"
)

// Policy assigns a unit price to a catalog item at the moment it enters a
// cart. The returned price is frozen for the line item's lifetime by the
// caller; implementations are never consulted again for the same line item.
type Policy interface {
	PriceFor(id string) Money
}

// Fixed prices every item at the same constant amount.
type Fixed struct {
	Amount Money
}

// PriceFor returns the configured amount regardless of the item.
func (f Fixed) PriceFor(string) Money {
	if f.Amount < 0 {
		return 0
	}
	return f.Amount
}

// Random draws an integer price uniformly from the closed range [Min, Max].
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
	min Money
	max Money
}

// NewRandom constructs a seeded random pricing policy. Bounds are normalised
// so that 0 < min <= max; callers pass a fixed seed in tests to make assigned
// prices deterministic.
func NewRandom(min, max Money, seed int64) *Random {
	if min < 1 {
		min = 100
	}
	if max < min {
		max = min
	}
	return &Random{
		rng: rand.New(rand.NewSource(seed)),
		min: min,
		max: max,
	}
}

// PriceFor draws a price from the configured range. The draw happens exactly
// once per added line item; re-renders and re-queries must never call this
// for an id already in the cart.
func (r *Random) PriceFor(string) Money {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := r.max - r.min + 1
	return r.min + Money(r.rng.Int63n(span))
}
