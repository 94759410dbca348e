package firestore

import (
	"errors"

	"github.com/tstore/storefront/internal/domain"
	fs "github.com/tstore/storefront/internal/platform/firestore"
	"github.com/tstore/storefront/internal/repositories"
)

const (
	itemsCollection      = "items"
	categoriesCollection = "categories"
	couponsCollection    = "coupons"
	lineItemsCollection  = "lineItems"
	ordersCollection     = "orders"
	addressesCollection  = "addresses"
	refundsCollection    = "refunds"
)

// Repositories bundles all Firestore backed repositories over one provider.
type Repositories struct {
	Catalog   repositories.CatalogRepository
	LineItems repositories.LineItemRepository
	Orders    repositories.OrderRepository
	Addresses repositories.AddressRepository
	Refunds   repositories.RefundRepository
}

// New constructs the repository set over the shared provider.
func New(provider *fs.Provider) (*Repositories, error) {
	if provider == nil {
		return nil, errors.New("firestore repositories: provider is required")
	}
	return &Repositories{
		Catalog: &CatalogRepository{
			items:      fs.NewBaseRepository[domain.Item](provider, itemsCollection, nil, nil),
			categories: fs.NewBaseRepository[domain.Category](provider, categoriesCollection, nil, nil),
			coupons:    fs.NewBaseRepository[domain.Coupon](provider, couponsCollection, nil, nil),
		},
		LineItems: &LineItemRepository{
			provider: provider,
			base:     fs.NewBaseRepository[domain.LineItem](provider, lineItemsCollection, nil, nil),
		},
		Orders: &OrderRepository{
			provider: provider,
			base:     fs.NewBaseRepository[domain.Order](provider, ordersCollection, nil, nil),
		},
		Addresses: &AddressRepository{
			base: fs.NewBaseRepository[domain.Address](provider, addressesCollection, nil, nil),
		},
		Refunds: &RefundRepository{
			provider: provider,
			base:     fs.NewBaseRepository[domain.Refund](provider, refundsCollection, nil, nil),
		},
	}, nil
}
