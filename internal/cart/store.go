package cart

import (
	"sync"

	"github.com/noah-isme/backend-galeri/internal/catalog"
	"github.com/noah-isme/backend-galeri/internal/pricing"
)

// defaultQuantity applies to any line item without an explicit quantity
// entry. All default resolution funnels through effectiveQuantity; nothing
// else may assume the default.
const defaultQuantity = 1

// LineItem is one distinct cart entry keyed by catalog item id. UnitPrice is
// assigned exactly once, when the item enters the cart, and never changes
// for the line item's lifetime.
type LineItem struct {
	ID          string        `json:"id"`
	Author      string        `json:"author"`
	DownloadURL string        `json:"downloadUrl"`
	UnitPrice   pricing.Money `json:"unitPrice"`
}

// State is a read-only snapshot of a cart. Quantities carries the effective
// quantity for every line item (explicit entries included, so a decremented
// item shows 0 rather than falling back to the default). TotalCost is always
// sum(unitPrice * quantity) over the line items, recomputed on every
// mutation, never adjusted incrementally.
type State struct {
	LineItems  []LineItem     `json:"lineItems"`
	Quantities map[string]int `json:"quantities"`
	TotalCost  pricing.Money  `json:"totalCost"`
}

// Store owns one session's cart. There is no package-level cart; each Store
// is an explicitly constructed instance so tests and callers control its
// lifetime. Mutations are serialised by an internal mutex since HTTP
// handlers run concurrently.
type Store struct {
	mu         sync.Mutex
	lineItems  []LineItem
	quantities map[string]int
	policy     pricing.Policy
}

// NewStore constructs an empty cart using the provided pricing policy.
func NewStore(policy pricing.Policy) *Store {
	if policy == nil {
		policy = pricing.Fixed{Amount: 0}
	}
	return &Store{
		quantities: make(map[string]int),
		policy:     policy,
	}
}

// Add puts a catalog item into the cart, assigning its unit price via the
// pricing policy. Adding an id already in the cart is a no-op: the existing
// line item and its price are preserved, never re-rolled or overwritten.
// Items without an id are ignored.
func (s *Store) Add(item catalog.Item) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" || s.indexLocked(item.ID) >= 0 {
		return s.stateLocked()
	}
	s.lineItems = append(s.lineItems, LineItem{
		ID:          item.ID,
		Author:      item.Author,
		DownloadURL: item.DownloadURL,
		UnitPrice:   s.policy.PriceFor(item.ID),
	})
	return s.stateLocked()
}

// Remove drops the line item with the given id and its quantity entry.
// Removing an absent id is a no-op, so the operation is idempotent.
func (s *Store) Remove(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.lineItems = append(s.lineItems[:i], s.lineItems[i+1:]...)
		delete(s.quantities, id)
	}
	return s.stateLocked()
}

// IncrementQuantity raises the quantity for an existing line item by one.
// Ids with no line item are a no-op; the store never records orphan
// quantity entries.
func (s *Store) IncrementQuantity(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) >= 0 {
		s.quantities[id] = s.effectiveQuantityLocked(id) + 1
	}
	return s.stateLocked()
}

// DecrementQuantity lowers the quantity for an existing line item by one,
// flooring at 0. The line item stays in the cart at quantity 0; it is never
// auto-removed. A first decrement from the implicit default materialises an
// explicit entry so readers see 0, not the default.
func (s *Store) DecrementQuantity(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) >= 0 {
		qty := s.effectiveQuantityLocked(id) - 1
		if qty < 0 {
			qty = 0
		}
		s.quantities[id] = qty
	}
	return s.stateLocked()
}

// SetQuantity assigns an explicit quantity for an existing line item.
// Non-positive input clamps to 1; absent ids are a no-op. It never returns
// an error: callers are UI event handlers that must not crash on user input.
func (s *Store) SetQuantity(id string, qty int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) >= 0 {
		if qty < 1 {
			qty = 1
		}
		s.quantities[id] = qty
	}
	return s.stateLocked()
}

// State returns a snapshot reflecting the latest completed mutation.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Reset empties the cart. Used when a checkout completes or a session ends.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineItems = nil
	s.quantities = make(map[string]int)
}

func (s *Store) indexLocked(id string) int {
	for i, li := range s.lineItems {
		if li.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) effectiveQuantityLocked(id string) int {
	if qty, ok := s.quantities[id]; ok {
		return qty
	}
	return defaultQuantity
}

func (s *Store) stateLocked() State {
	items := make([]LineItem, len(s.lineItems))
	copy(items, s.lineItems)
	quantities := make(map[string]int, len(items))
	pricingItems := make([]pricing.Item, 0, len(items))
	for _, li := range items {
		qty := s.effectiveQuantityLocked(li.ID)
		quantities[li.ID] = qty
		pricingItems = append(pricingItems, pricing.Item{Qty: qty, UnitPrice: li.UnitPrice})
	}
	summary := pricing.Compute(pricingItems)
	return State{
		LineItems:  items,
		Quantities: quantities,
		TotalCost:  summary.Total,
	}
}
