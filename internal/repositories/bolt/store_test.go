package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "storefront.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeedAndCatalogReads(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.SeedCatalog(repositories.CatalogSeed{
		Items: []domain.Item{
			{ID: "item-1", Title: "Wide Brim Hat", Slug: "wide-brim-hat", Price: 2500, CategoryID: "cat-1"},
			{ID: "item-2", Title: "Leather Belt", Slug: "leather-belt", Price: 3200, CategoryID: "cat-2"},
		},
		Categories: []domain.Category{
			{ID: "cat-1", Name: "Hats", Slug: "hats"},
			{ID: "cat-2", Name: "Accessories", Slug: "accessories"},
		},
		Coupons: []domain.Coupon{{Code: "SAVE10", Amount: 1000}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	catalog := store.Catalog()

	item, err := catalog.GetItemBySlug(ctx, "leather-belt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "item-2" {
		t.Fatalf("expected item-2, got %s", item.ID)
	}

	hats, err := catalog.ListItems(ctx, repositories.ItemQuery{CategorySlug: "hats"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hats) != 1 || hats[0].ID != "item-1" {
		t.Fatalf("unexpected hats: %+v", hats)
	}

	if _, err := catalog.GetCoupon(ctx, "NOPE"); !repositories.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLineItemInvariants(t *testing.T) {
	store := openTestStore(t)
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

	if err := lines.MarkOrdered(ctx, []string{"line-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := lines.GetOpen(ctx, "u1", "item-1"); !repositories.IsNotFound(err) {
		t.Fatalf("expected not found after ordering, got %v", err)
	}
	if _, err := lines.Upsert(ctx, duplicate); err != nil {
		t.Fatalf("expected open slot after ordering, got %v", err)
	}
}

func TestOrderAndRefundInvariants(t *testing.T) {
	store := openTestStore(t)
	orders := store.Orders()
	refunds := store.Refunds()
	ctx := context.Background()
	now := time.Now().UTC()

	open := domain.Order{ID: "order-1", UserID: "u1", RefCode: "REF1", StartDate: now}
	if _, err := orders.Insert(ctx, open); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := orders.Insert(ctx, domain.Order{ID: "order-2", UserID: "u1", RefCode: "REF2", StartDate: now}); !repositories.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	open.Ordered = true
	open.OrderedDate = &now
	if _, err := orders.Update(ctx, open); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := orders.FindByRefCode(ctx, "REF1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found.Ordered || found.OrderedDate == nil {
		t.Fatalf("expected finalized order, got %+v", found)
	}

	refund := domain.Refund{ID: "refund-1", OrderID: "order-1", Reason: "damaged", Email: "a@b.c", CreatedAt: now}
	if _, err := refunds.Insert(ctx, refund); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := refunds.Insert(ctx, domain.Refund{ID: "refund-2", OrderID: "order-1", Reason: "late", Email: "a@b.c"}); !repositories.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	refund.Accepted = true
	if _, err := refunds.Update(ctx, refund); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := refunds.FindByOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stored.Accepted {
		t.Fatalf("expected accepted refund, got %+v", stored)
	}
}
