package repositories

import (
	"context"
	"errors"

	"github.com/tstore/storefront/internal/domain"
)

// RepositoryError lets callers categorise storage failures without depending
// on a concrete backend.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsConflict reports whether err represents a conflicting write.
func IsConflict(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsConflict()
}

// IsUnavailable reports whether err represents a transient backend outage.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// ItemQuery filters and pages catalog listings.
type ItemQuery struct {
	// Search matches against item titles and descriptions.
	Search string
	// CategorySlug restricts results to one category.
	CategorySlug string
	// Limit caps the page size; implementations apply a default when zero.
	Limit int
	// Offset skips results for paging.
	Offset int
}

// CatalogRepository provides read access to items, categories, and coupons.
type CatalogRepository interface {
	GetItem(ctx context.Context, itemID string) (domain.Item, error)
	GetItemBySlug(ctx context.Context, slug string) (domain.Item, error)
	ListItems(ctx context.Context, query ItemQuery) ([]domain.Item, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCoupon(ctx context.Context, code string) (domain.Coupon, error)
}

// LineItemRepository persists per-user line items. At most one open
// (non-ordered) line exists per user and item; GetOpen and Upsert maintain
// that invariant.
type LineItemRepository interface {
	Get(ctx context.Context, lineItemID string) (domain.LineItem, error)
	// GetOpen returns the single open line for the user and item.
	GetOpen(ctx context.Context, userID, itemID string) (domain.LineItem, error)
	// Upsert inserts or replaces the line keyed by its ID.
	Upsert(ctx context.Context, line domain.LineItem) (domain.LineItem, error)
	Delete(ctx context.Context, lineItemID string) error
	ListByIDs(ctx context.Context, lineItemIDs []string) ([]domain.LineItem, error)
	// MarkOrdered flips the ordered flag on all given lines.
	MarkOrdered(ctx context.Context, lineItemIDs []string) error
}

// OrderRepository persists orders. At most one open order exists per user.
type OrderRepository interface {
	// GetOpenByUser returns the user's single open order.
	GetOpenByUser(ctx context.Context, userID string) (domain.Order, error)
	FindByID(ctx context.Context, orderID string) (domain.Order, error)
	FindByRefCode(ctx context.Context, refCode string) (domain.Order, error)
	// Insert creates the order, failing with a conflict when the user already
	// has an open order.
	Insert(ctx context.Context, order domain.Order) (domain.Order, error)
	Update(ctx context.Context, order domain.Order) (domain.Order, error)
	// ListByUser returns the user's finalized orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// AddressRepository persists shipping addresses per user.
type AddressRepository interface {
	Insert(ctx context.Context, address domain.Address) (domain.Address, error)
	Get(ctx context.Context, userID, addressID string) (domain.Address, error)
	List(ctx context.Context, userID string) ([]domain.Address, error)
}

// RefundRepository persists refund requests, at most one per order.
type RefundRepository interface {
	Insert(ctx context.Context, refund domain.Refund) (domain.Refund, error)
	Update(ctx context.Context, refund domain.Refund) (domain.Refund, error)
	FindByOrder(ctx context.Context, orderID string) (domain.Refund, error)
}

// CatalogSeed describes catalog fixtures loaded into the local backends at
// startup.
type CatalogSeed struct {
	Items      []domain.Item     `json:"items"`
	Categories []domain.Category `json:"categories"`
	Coupons    []domain.Coupon   `json:"coupons"`
}
