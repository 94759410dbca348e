package services

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestAddToCartOpensOrderLazily(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.GetOpenOrder(ctx, "u1"); !errors.Is(err, ErrCartNoActiveOrder) {
		t.Fatalf("expected ErrCartNoActiveOrder, got %v", err)
	}

	view, err := env.cart.AddToCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.OrderID == "" || view.RefCode == "" {
		t.Fatalf("expected order id and ref code, got %+v", view)
	}
	if !view.StartDate.Equal(env.now) {
		t.Fatalf("expected start date %v, got %v", env.now, view.StartDate)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 1 {
		t.Fatalf("unexpected lines: %+v", view.Lines)
	}
	if view.Total != 2500 {
		t.Fatalf("expected total 2500, got %d", view.Total)
	}
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := env.cart.AddToCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(view.Lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", view.Lines[0].Quantity)
	}
	if view.Total != 5000 {
		t.Fatalf("expected total 5000, got %d", view.Total)
	}
}

func TestAddToCartResolvesSlug(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.cart.AddToCart(context.Background(), "u1", "leather-belt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Lines[0].ItemID != "item-belt" {
		t.Fatalf("expected item-belt, got %s", view.Lines[0].ItemID)
	}
	// Discounted price drives the total; savings report the difference.
	if view.Total != 2000 || view.Saved != 1000 {
		t.Fatalf("expected total 2000 saved 1000, got total %d saved %d", view.Total, view.Saved)
	}
}

func TestAddToCartUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.cart.AddToCart(context.Background(), "u1", "no-such-item"); !errors.Is(err, ErrCartUnknownItem) {
		t.Fatalf("expected ErrCartUnknownItem, got %v", err)
	}
}

func TestAddToCartReattachesOrphanedLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// An open line without an order, as left behind by a partial failure.
	orphan, _, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.AddToCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected orphan re-attachment, got %d lines", len(view.Lines))
	}
	if view.Lines[0].LineItemID != orphan.ID {
		t.Fatalf("expected orphan line %s, got %s", orphan.ID, view.Lines[0].LineItemID)
	}
	if view.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", view.Lines[0].Quantity)
	}
}

func TestRemoveFromCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddToCart(ctx, "u1", "item-belt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.RemoveFromCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ItemID != "item-belt" {
		t.Fatalf("expected only item-belt, got %+v", view.Lines)
	}

	if _, err := env.cart.RemoveFromCart(ctx, "u1", "item-hat"); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestRemoveFromCartWithoutOrder(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.cart.RemoveFromCart(context.Background(), "u1", "item-hat"); !errors.Is(err, ErrCartNoActiveOrder) {
		t.Fatalf("expected ErrCartNoActiveOrder, got %v", err)
	}
}

func TestDecrementInCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.DecrementInCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Lines[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", view.Lines[0].Quantity)
	}

	view, err = env.cart.DecrementInCart(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Lines)
	}

	if _, err := env.cart.DecrementInCart(ctx, "u1", "item-hat"); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}
}

func TestApplyCoupon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.ApplyCoupon(ctx, "u1", "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.CouponCode != "SAVE10" || view.Discount != 1000 {
		t.Fatalf("unexpected coupon state: %+v", view)
	}
	if view.Total != 1500 {
		t.Fatalf("expected total 1500, got %d", view.Total)
	}
}

func TestApplyCouponFloorsTotalAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.ApplyCoupon(ctx, "u1", "BIGSAVE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Subtotal != 2500 {
		t.Fatalf("expected subtotal 2500, got %d", view.Subtotal)
	}
	if view.Total != 0 {
		t.Fatalf("expected total floored at 0, got %d", view.Total)
	}
}

func TestApplyCouponErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.ApplyCoupon(ctx, "u1", "SAVE10"); !errors.Is(err, ErrCartNoActiveOrder) {
		t.Fatalf("expected ErrCartNoActiveOrder, got %v", err)
	}

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.ApplyCoupon(ctx, "u1", "EXPIRED"); !errors.Is(err, ErrCartCouponNotFound) {
		t.Fatalf("expected ErrCartCouponNotFound, got %v", err)
	}
}

func TestConcurrentAddsSerialise(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("unexpected error: %v", err)
	}

	view, err := env.cart.GetOpenOrder(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != workers {
		t.Fatalf("expected quantity %d, got %d", workers, view.Lines[0].Quantity)
	}
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.cart.AddToCart(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := env.cart.AddToCart(ctx, "u2", "item-belt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ItemID != "item-belt" {
		t.Fatalf("expected u2 cart to hold only item-belt, got %+v", view.Lines)
	}

	u1, err := env.cart.GetOpenOrder(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u1.OrderID == view.OrderID {
		t.Fatalf("expected distinct orders per user")
	}
}
