package memory

import (
	"context"
	"testing"
	"time"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

func seededStore() *Store {
	store := NewStore()
	store.SeedCatalog(repositories.CatalogSeed{
		Items: []domain.Item{
			{ID: "item-1", Title: "Wide Brim Hat", Slug: "wide-brim-hat", Price: 2500, CategoryID: "cat-1"},
			{ID: "item-2", Title: "Straw Hat", Slug: "straw-hat", Price: 1800, CategoryID: "cat-1"},
			{ID: "item-3", Title: "Leather Belt", Slug: "leather-belt", Price: 3200, CategoryID: "cat-2"},
		},
		Categories: []domain.Category{
			{ID: "cat-1", Name: "Hats", Slug: "hats"},
			{ID: "cat-2", Name: "Accessories", Slug: "accessories"},
		},
		Coupons: []domain.Coupon{{Code: "SAVE10", Amount: 1000}},
	})
	return store
}

func TestCatalogLookups(t *testing.T) {
	store := seededStore()
	catalog := store.Catalog()
	ctx := context.Background()

	item, err := catalog.GetItemBySlug(ctx, "straw-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "item-2" {
		t.Fatalf("expected item-2, got %s", item.ID)
	}

	if _, err := catalog.GetItem(ctx, "missing"); !repositories.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	coupon, err := catalog.GetCoupon(ctx, "SAVE10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coupon.Amount != 1000 {
		t.Fatalf("expected amount 1000, got %d", coupon.Amount)
	}
}

func TestListItemsFiltersAndPages(t *testing.T) {
	store := seededStore()
	catalog := store.Catalog()
	ctx := context.Background()

	hats, err := catalog.ListItems(ctx, repositories.ItemQuery{CategorySlug: "hats"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hats) != 2 {
		t.Fatalf("expected 2 hats, got %d", len(hats))
	}

	matched, err := catalog.ListItems(ctx, repositories.ItemQuery{Search: "leather"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matched) != 1 || matched[0].ID != "item-3" {
		t.Fatalf("expected item-3, got %v", matched)
	}

	page, err := catalog.ListItems(ctx, repositories.ItemQuery{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("expected 1 item on second page, got %d", len(page))
	}
}

func TestOpenLineItemUniqueness(t *testing.T) {
	store := seededStore()
	lines := store.LineItems()
	ctx := context.Background()

	first := domain.LineItem{ID: "line-1", UserID: "u1", ItemID: "item-1", Quantity: 1, UnitPrice: 2500}
	if _, err := lines.Upsert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	duplicate := domain.LineItem{ID: "line-2", UserID: "u1", ItemID: "item-1", Quantity: 1, UnitPrice: 2500}
	if _, err := lines.Upsert(ctx, duplicate); !repositories.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Replacing the same line is fine.
	first.Quantity = 2
	if _, err := lines.Upsert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := lines.GetOpen(ctx, "u1", "item-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", got.Quantity)
	}
}

func TestMarkOrderedReleasesOpenSlot(t *testing.T) {
	store := seededStore()
	lines := store.LineItems()
	ctx := context.Background()

	first := domain.LineItem{ID: "line-1", UserID: "u1", ItemID: "item-1", Quantity: 1, UnitPrice: 2500}
	if _, err := lines.Upsert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := lines.MarkOrdered(ctx, []string{"line-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := lines.GetOpen(ctx, "u1", "item-1"); !repositories.IsNotFound(err) {
		t.Fatalf("expected not found after ordering, got %v", err)
	}

	next := domain.LineItem{ID: "line-2", UserID: "u1", ItemID: "item-1", Quantity: 1, UnitPrice: 2500}
	if _, err := lines.Upsert(ctx, next); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenOrderUniqueness(t *testing.T) {
	store := seededStore()
	orders := store.Orders()
	ctx := context.Background()
	now := time.Now()

	open := domain.Order{ID: "order-1", UserID: "u1", RefCode: "REF1", StartDate: now}
	if _, err := orders.Insert(ctx, open); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := domain.Order{ID: "order-2", UserID: "u1", RefCode: "REF2", StartDate: now}
	if _, err := orders.Insert(ctx, second); !repositories.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	// Finalizing frees the open slot.
	open.Ordered = true
	orderedAt := now
	open.OrderedDate = &orderedAt
	if _, err := orders.Update(ctx, open); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := orders.Insert(ctx, second); err != nil {
		t.Fatalf("unexpected error after finalize: %v", err)
	}

	history, err := orders.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].ID != "order-1" {
		t.Fatalf("expected finalized order-1 in history, got %v", history)
	}
}

func TestRefundPerOrderUniqueness(t *testing.T) {
	store := seededStore()
	refunds := store.Refunds()
	ctx := context.Background()

	refund := domain.Refund{ID: "refund-1", OrderID: "order-1", Reason: "damaged", Email: "a@b.c"}
	if _, err := refunds.Insert(ctx, refund); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again := domain.Refund{ID: "refund-2", OrderID: "order-1", Reason: "late", Email: "a@b.c"}
	if _, err := refunds.Insert(ctx, again); !repositories.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	found, err := refunds.FindByOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != "refund-1" {
		t.Fatalf("expected refund-1, got %s", found.ID)
	}
}
