package services

import (
	"testing"
	"time"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/platform/locks"
	"github.com/tstore/storefront/internal/repositories"
	"github.com/tstore/storefront/internal/repositories/memory"
)

func discountOf(v int64) *int64 { return &v }

// testEnv wires every service over one seeded in-memory store.
type testEnv struct {
	store    *memory.Store
	ledger   LedgerService
	cart     CartService
	checkout CheckoutService
	coupon   CouponService
	refund   RefundService
	catalog  CatalogService
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.SeedCatalog(repositories.CatalogSeed{
		Items: []domain.Item{
			{ID: "item-hat", Title: "Wide Brim Hat", Slug: "wide-brim-hat", Price: 2500, CategoryID: "cat-1"},
			{ID: "item-belt", Title: "Leather Belt", Slug: "leather-belt", Price: 3000, DiscountPrice: discountOf(2000), CategoryID: "cat-2"},
		},
		Categories: []domain.Category{
			{ID: "cat-1", Name: "Hats", Slug: "hats"},
			{ID: "cat-2", Name: "Accessories", Slug: "accessories"},
		},
		Coupons: []domain.Coupon{
			{Code: "SAVE10", Amount: 1000},
			{Code: "BIGSAVE", Amount: 100000},
		},
	})

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	userLocks := locks.NewKeyed()

	ledger, err := NewLedgerService(LedgerServiceDeps{
		Catalog:   store.Catalog(),
		LineItems: store.LineItems(),
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("new ledger service: %v", err)
	}

	cart, err := NewCartService(CartServiceDeps{
		Catalog:   store.Catalog(),
		LineItems: store.LineItems(),
		Orders:    store.Orders(),
		Ledger:    ledger,
		UserLocks: userLocks,
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("new cart service: %v", err)
	}

	checkout, err := NewCheckoutService(CheckoutServiceDeps{
		Orders:    store.Orders(),
		LineItems: store.LineItems(),
		Addresses: store.Addresses(),
		UserLocks: userLocks,
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("new checkout service: %v", err)
	}

	coupon, err := NewCouponService(CouponServiceDeps{Catalog: store.Catalog()})
	if err != nil {
		t.Fatalf("new coupon service: %v", err)
	}

	refund, err := NewRefundService(RefundServiceDeps{
		Orders:  store.Orders(),
		Refunds: store.Refunds(),
		Clock:   clock,
	})
	if err != nil {
		t.Fatalf("new refund service: %v", err)
	}

	catalog, err := NewCatalogService(CatalogServiceDeps{Catalog: store.Catalog()})
	if err != nil {
		t.Fatalf("new catalog service: %v", err)
	}

	return &testEnv{
		store:    store,
		ledger:   ledger,
		cart:     cart,
		checkout: checkout,
		coupon:   coupon,
		refund:   refund,
		catalog:  catalog,
		now:      now,
	}
}

// unavailableStub satisfies every repository error category check for
// outage translation tests.
type unavailableStub struct{}

func (unavailableStub) Error() string       { return "backend down" }
func (unavailableStub) IsNotFound() bool    { return false }
func (unavailableStub) IsConflict() bool    { return false }
func (unavailableStub) IsUnavailable() bool { return true }
