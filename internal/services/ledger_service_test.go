package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

func TestAddOrIncrementCreatesThenIncrements(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	line, created, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected new line")
	}
	if line.Quantity != 1 || line.UnitPrice != 2500 {
		t.Fatalf("unexpected line: %+v", line)
	}

	again, created, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected increment, not a new line")
	}
	if again.ID != line.ID {
		t.Fatalf("expected same line, got %s and %s", line.ID, again.ID)
	}
	if again.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", again.Quantity)
	}
}

func TestAddOrIncrementCapturesDiscountPrice(t *testing.T) {
	env := newTestEnv(t)

	line, _, err := env.ledger.AddOrIncrement(context.Background(), "u1", "item-belt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.UnitPrice != 3000 {
		t.Fatalf("expected unit price 3000, got %d", line.UnitPrice)
	}
	if line.DiscountPrice == nil || *line.DiscountPrice != 2000 {
		t.Fatalf("expected discount price 2000, got %v", line.DiscountPrice)
	}
}

func TestAddOrIncrementUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.ledger.AddOrIncrement(context.Background(), "u1", "missing")
	if !errors.Is(err, ErrLedgerItemNotFound) {
		t.Fatalf("expected ErrLedgerItemNotFound, got %v", err)
	}
}

func TestDecrementOrRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	line, removed, err := env.ledger.DecrementOrRemove(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed || line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got removed=%v quantity=%d", removed, line.Quantity)
	}

	_, removed, err = env.ledger.DecrementOrRemove(ctx, "u1", "item-hat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatalf("expected line removal at zero")
	}

	if _, _, err := env.ledger.DecrementOrRemove(ctx, "u1", "item-hat"); !errors.Is(err, ErrLedgerLineNotFound) {
		t.Fatalf("expected ErrLedgerLineNotFound, got %v", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.ledger.AddOrIncrement(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.ledger.Remove(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := env.ledger.Remove(ctx, "u1", "item-hat"); err != nil {
		t.Fatalf("expected idempotent remove, got %v", err)
	}
}

func TestLedgerValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.ledger.AddOrIncrement(ctx, "", "item-hat"); !errors.Is(err, ErrLedgerInvalidInput) {
		t.Fatalf("expected ErrLedgerInvalidInput, got %v", err)
	}
	if _, _, err := env.ledger.DecrementOrRemove(ctx, "u1", "  "); !errors.Is(err, ErrLedgerInvalidInput) {
		t.Fatalf("expected ErrLedgerInvalidInput, got %v", err)
	}
}

// stubCatalog fails every call with a categorised outage.
type stubCatalog struct{}

func (stubCatalog) GetItem(context.Context, string) (domain.Item, error) {
	return domain.Item{}, unavailableStub{}
}
func (stubCatalog) GetItemBySlug(context.Context, string) (domain.Item, error) {
	return domain.Item{}, unavailableStub{}
}
func (stubCatalog) ListItems(context.Context, repositories.ItemQuery) ([]domain.Item, error) {
	return nil, unavailableStub{}
}
func (stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return nil, unavailableStub{}
}
func (stubCatalog) GetCoupon(context.Context, string) (domain.Coupon, error) {
	return domain.Coupon{}, unavailableStub{}
}

func TestLedgerTranslatesOutages(t *testing.T) {
	env := newTestEnv(t)

	ledger, err := NewLedgerService(LedgerServiceDeps{
		Catalog:   stubCatalog{},
		LineItems: env.store.LineItems(),
	})
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}

	if _, _, err := ledger.AddOrIncrement(context.Background(), "u1", "item-hat"); !errors.Is(err, ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
}
