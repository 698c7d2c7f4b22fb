package pricing

import "testing"

func TestFixedPolicy(t *testing.T) {
	p := Fixed{Amount: 250}
	if got := p.PriceFor("1"); got != 250 {
		t.Fatalf("expected 250, got %d", got)
	}
	neg := Fixed{Amount: -10}
	if got := neg.PriceFor("1"); got != 0 {
		t.Fatalf("expected negative amount clamped to 0, got %d", got)
	}
}

func TestRandomPolicyWithinBounds(t *testing.T) {
	p := NewRandom(100, 1000, 42)
	for i := 0; i < 1000; i++ {
		price := p.PriceFor("x")
		if price < 100 || price > 1000 {
			t.Fatalf("price %d outside [100, 1000]", price)
		}
	}
}

func TestRandomPolicyDeterministicSeed(t *testing.T) {
	a := NewRandom(100, 1000, 7)
	b := NewRandom(100, 1000, 7)
	for i := 0; i < 10; i++ {
		if pa, pb := a.PriceFor("x"), b.PriceFor("x"); pa != pb {
			t.Fatalf("same seed diverged at draw %d: %d vs %d", i, pa, pb)
		}
	}
}

func TestRandomPolicyNormalisesBounds(t *testing.T) {
	p := NewRandom(0, -5, 1)
	price := p.PriceFor("x")
	if price < 100 {
		t.Fatalf("expected normalised lower bound 100, got %d", price)
	}
}
