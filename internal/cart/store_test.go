package cart

import (
	"testing"

	"github.com/noah-isme/backend-galeri/internal/catalog"
	"github.com/noah-isme/backend-galeri/internal/pricing"
)

func img(id, author string) catalog.Item {
	return catalog.Item{ID: id, Author: author, DownloadURL: "https://picsum.photos/id/" + id + "/5000/3333"}
}

func TestAddAssignsPriceOnce(t *testing.T) {
	store := NewStore(pricing.NewRandom(100, 10000, 42))
	first := store.Add(img("10", "Paul Jarvis"))
	if len(first.LineItems) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(first.LineItems))
	}
	price := first.LineItems[0].UnitPrice
	if price < 100 || price > 10000 {
		t.Fatalf("price %d outside policy range", price)
	}

	// Re-adding the same id must not re-roll the price.
	second := store.Add(img("10", "Paul Jarvis"))
	if len(second.LineItems) != 1 {
		t.Fatalf("duplicate add created a line item: %d", len(second.LineItems))
	}
	if second.LineItems[0].UnitPrice != price {
		t.Fatalf("unit price changed on duplicate add: %d != %d", second.LineItems[0].UnitPrice, price)
	}
}

func TestAddIgnoresEmptyID(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 500})
	state := store.Add(catalog.Item{Author: "Nobody"})
	if len(state.LineItems) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(state.LineItems))
	}
}

func TestDefaultQuantityAndTotal(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 500})
	store.Add(img("1", "Alejandro Escamilla"))
	state := store.Add(img("2", "Alejandro Escamilla"))

	if got := state.Quantities["1"]; got != 1 {
		t.Fatalf("expected default quantity 1, got %d", got)
	}
	if state.TotalCost != 1000 {
		t.Fatalf("expected total 1000, got %d", state.TotalCost)
	}
}

func TestIncrementDecrementQuantity(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 150})
	store.Add(img("7", "Tina Rataj"))

	state := store.IncrementQuantity("7")
	if state.Quantities["7"] != 2 {
		t.Fatalf("expected quantity 2, got %d", state.Quantities["7"])
	}
	if state.TotalCost != 300 {
		t.Fatalf("expected total 300, got %d", state.TotalCost)
	}

	state = store.DecrementQuantity("7")
	state = store.DecrementQuantity("7")
	if state.Quantities["7"] != 0 {
		t.Fatalf("expected quantity 0, got %d", state.Quantities["7"])
	}
	if state.TotalCost != 0 {
		t.Fatalf("expected total 0, got %d", state.TotalCost)
	}
	if len(state.LineItems) != 1 {
		t.Fatalf("line item must survive decrement to zero")
	}

	// Floor at zero.
	state = store.DecrementQuantity("7")
	if state.Quantities["7"] != 0 {
		t.Fatalf("quantity went below zero: %d", state.Quantities["7"])
	}
}

func TestQuantityOpsOnAbsentID(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 100})
	store.Add(img("1", "a"))

	state := store.IncrementQuantity("missing")
	if _, ok := state.Quantities["missing"]; ok {
		t.Fatal("increment created an orphan quantity entry")
	}
	state = store.DecrementQuantity("missing")
	if _, ok := state.Quantities["missing"]; ok {
		t.Fatal("decrement created an orphan quantity entry")
	}
	state = store.SetQuantity("missing", 5)
	if _, ok := state.Quantities["missing"]; ok {
		t.Fatal("set created an orphan quantity entry")
	}
}

func TestSetQuantityClampsToOne(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 100})
	store.Add(img("3", "b"))

	state := store.SetQuantity("3", 0)
	if state.Quantities["3"] != 1 {
		t.Fatalf("expected clamp to 1, got %d", state.Quantities["3"])
	}
	state = store.SetQuantity("3", -4)
	if state.Quantities["3"] != 1 {
		t.Fatalf("expected clamp to 1, got %d", state.Quantities["3"])
	}
	state = store.SetQuantity("3", 7)
	if state.Quantities["3"] != 7 {
		t.Fatalf("expected 7, got %d", state.Quantities["3"])
	}
	if state.TotalCost != 700 {
		t.Fatalf("expected total 700, got %d", state.TotalCost)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 200})
	store.Add(img("5", "c"))
	store.IncrementQuantity("5")

	state := store.Remove("5")
	if len(state.LineItems) != 0 {
		t.Fatalf("expected empty cart after remove, got %d items", len(state.LineItems))
	}
	if _, ok := state.Quantities["5"]; ok {
		t.Fatal("quantity entry survived removal")
	}
	if state.TotalCost != 0 {
		t.Fatalf("expected total 0, got %d", state.TotalCost)
	}

	state = store.Remove("5")
	if len(state.LineItems) != 0 {
		t.Fatal("second remove changed state")
	}
}

type sequencePolicy struct {
	prices []pricing.Money
	calls  int
}

func (p *sequencePolicy) PriceFor(string) pricing.Money {
	price := p.prices[p.calls%len(p.prices)]
	p.calls++
	return price
}

func TestRemoveThenReAddRerollsPrice(t *testing.T) {
	policy := &sequencePolicy{prices: []pricing.Money{300, 800}}
	store := NewStore(policy)

	first := store.Add(img("9", "d")).LineItems[0].UnitPrice
	store.Remove("9")
	second := store.Add(img("9", "d")).LineItems[0].UnitPrice

	if first != 300 || second != 800 {
		t.Fatalf("expected a fresh draw per add, got %d then %d", first, second)
	}
	if policy.calls != 2 {
		t.Fatalf("expected 2 policy calls, got %d", policy.calls)
	}
}

func TestTotalMixedQuantities(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 500})
	store.Add(img("1", "a"))
	store.Add(img("2", "b"))
	store.Add(img("3", "c"))
	store.SetQuantity("2", 3)
	state := store.DecrementQuantity("3")

	// 1x500 + 3x500 + 0x500
	if state.TotalCost != 2000 {
		t.Fatalf("expected total 2000, got %d", state.TotalCost)
	}
}

func TestResetEmptiesCart(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 500})
	store.Add(img("1", "a"))
	store.IncrementQuantity("1")
	store.Reset()

	state := store.State()
	if len(state.LineItems) != 0 || len(state.Quantities) != 0 || state.TotalCost != 0 {
		t.Fatalf("cart not empty after reset: %+v", state)
	}
}

func TestStateIsSnapshot(t *testing.T) {
	store := NewStore(pricing.Fixed{Amount: 500})
	store.Add(img("1", "a"))
	state := store.State()

	state.Quantities["1"] = 99
	state.LineItems[0].UnitPrice = 1

	fresh := store.State()
	if fresh.Quantities["1"] != 1 {
		t.Fatalf("snapshot mutation leaked into store: %d", fresh.Quantities["1"])
	}
	if fresh.LineItems[0].UnitPrice != 500 {
		t.Fatalf("snapshot mutation leaked into store: %d", fresh.LineItems[0].UnitPrice)
	}
}
