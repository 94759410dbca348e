package domain

import "testing"

func int64Ptr(v int64) *int64 { return &v }

func TestEffectivePricePrefersDiscount(t *testing.T) {
	if got := EffectivePrice(1000, int64Ptr(750)); got != 750 {
		t.Fatalf("expected 750, got %d", got)
	}
	if got := EffectivePrice(1000, nil); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
	if got := EffectivePrice(1000, int64Ptr(0)); got != 1000 {
		t.Fatalf("expected zero discount to be ignored, got %d", got)
	}
}

func TestLinePrice(t *testing.T) {
	line := LineItem{Quantity: 3, UnitPrice: 500, DiscountPrice: int64Ptr(400)}
	if got := line.LinePrice(); got != 1200 {
		t.Fatalf("expected 1200, got %d", got)
	}

	line.DiscountPrice = nil
	if got := line.LinePrice(); got != 1500 {
		t.Fatalf("expected 1500, got %d", got)
	}
}

func TestLineSavings(t *testing.T) {
	line := LineItem{Quantity: 2, UnitPrice: 500, DiscountPrice: int64Ptr(350)}
	if got := line.LineSavings(); got != 300 {
		t.Fatalf("expected 300, got %d", got)
	}

	// A discount above the list price never reports negative savings.
	line.DiscountPrice = int64Ptr(600)
	if got := line.LineSavings(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	line.DiscountPrice = nil
	if got := line.LineSavings(); got != 0 {
		t.Fatalf("expected 0 without a discount, got %d", got)
	}
}

func TestOrderTotalFloorsAtZero(t *testing.T) {
	lines := []LineItem{
		{Quantity: 1, UnitPrice: 500},
		{Quantity: 2, UnitPrice: 300, DiscountPrice: int64Ptr(250)},
	}

	if got := OrderTotal(lines, 0); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
	if got := OrderTotal(lines, 400); got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
	if got := OrderTotal(lines, 5000); got != 0 {
		t.Fatalf("expected floor at 0, got %d", got)
	}
}

func TestOrderLineItemMembership(t *testing.T) {
	order := Order{}
	order.AttachLineItem("a")
	order.AttachLineItem("b")
	order.AttachLineItem("a")

	if len(order.LineItemIDs) != 2 {
		t.Fatalf("expected 2 unique line ids, got %v", order.LineItemIDs)
	}
	if !order.HasLineItem("b") {
		t.Fatalf("expected order to contain line b")
	}

	order.DetachLineItem("a")
	if order.HasLineItem("a") {
		t.Fatalf("expected line a to be detached")
	}
	if len(order.LineItemIDs) != 1 {
		t.Fatalf("expected 1 line id, got %v", order.LineItemIDs)
	}
}
