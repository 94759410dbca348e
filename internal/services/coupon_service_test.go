package services

import (
	"context"
	"errors"
	"testing"
)

func TestResolveCoupon(t *testing.T) {
	env := newTestEnv(t)

	coupon, err := env.coupon.Resolve(context.Background(), "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupon.Code != "SAVE10" || coupon.Amount != 1000 {
		t.Fatalf("unexpected coupon: %+v", coupon)
	}
}

func TestResolveCouponExactMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Codes are case sensitive and never fuzzy matched.
	if _, err := env.coupon.Resolve(ctx, "save10"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
	if _, err := env.coupon.Resolve(ctx, "SAVE"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("expected ErrCouponNotFound, got %v", err)
	}
}

func TestResolveCouponValidation(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.coupon.Resolve(context.Background(), "   "); !errors.Is(err, ErrCouponInvalidInput) {
		t.Fatalf("expected ErrCouponInvalidInput, got %v", err)
	}
}

func TestCatalogServiceBrowse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.catalog.GetItemBySlug(ctx, "wide-brim-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "item-hat" {
		t.Fatalf("expected item-hat, got %s", item.ID)
	}

	items, err := env.catalog.ListItems(ctx, ListItemsQuery{Search: "belt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-belt" {
		t.Fatalf("unexpected search result: %+v", items)
	}

	categories, err := env.catalog.ListCategories(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}

	if _, err := env.catalog.GetItem(ctx, "missing"); !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("expected ErrCatalogNotFound, got %v", err)
	}
}
