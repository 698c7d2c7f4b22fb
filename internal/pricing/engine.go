package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Item describes a line item used for pricing calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// Summary aggregates computed pricing components.
type Summary struct {
	Subtotal Money
	Total    Money
}

// Compute calculates cart totals from scratch given the provided line items.
// Lines with a non-positive quantity contribute nothing.
func Compute(items []Item) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	return Summary{
		Subtotal: subtotal,
		Total:    subtotal,
	}
}
