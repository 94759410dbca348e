package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

// Store is a mutex-guarded in-memory backend used for tests and local
// development. All repositories returned by a Store share its lock, so the
// single-writer guarantee matches the transactional backends.
type Store struct {
	mu         sync.RWMutex
	items      map[string]domain.Item
	itemSlugs  map[string]string
	categories map[string]domain.Category
	coupons    map[string]domain.Coupon
	lines      map[string]domain.LineItem
	orders     map[string]domain.Order
	addresses  map[string]domain.Address
	refunds    map[string]domain.Refund
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		items:      map[string]domain.Item{},
		itemSlugs:  map[string]string{},
		categories: map[string]domain.Category{},
		coupons:    map[string]domain.Coupon{},
		lines:      map[string]domain.LineItem{},
		orders:     map[string]domain.Order{},
		addresses:  map[string]domain.Address{},
		refunds:    map[string]domain.Refund{},
	}
}

// Catalog returns the catalog repository view of the store.
func (s *Store) Catalog() repositories.CatalogRepository { return &catalogRepository{store: s} }

// LineItems returns the line item repository view of the store.
func (s *Store) LineItems() repositories.LineItemRepository { return &lineItemRepository{store: s} }

// Orders returns the order repository view of the store.
func (s *Store) Orders() repositories.OrderRepository { return &orderRepository{store: s} }

// Addresses returns the address repository view of the store.
func (s *Store) Addresses() repositories.AddressRepository { return &addressRepository{store: s} }

// Refunds returns the refund repository view of the store.
func (s *Store) Refunds() repositories.RefundRepository { return &refundRepository{store: s} }

// SeedCatalog loads catalog fixtures into the store, replacing entries with
// matching IDs.
func (s *Store) SeedCatalog(seed repositories.CatalogSeed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range seed.Items {
		s.items[item.ID] = item
		if slug := strings.TrimSpace(item.Slug); slug != "" {
			s.itemSlugs[slug] = item.ID
		}
	}
	for _, category := range seed.Categories {
		s.categories[category.ID] = category
	}
	for _, coupon := range seed.Coupons {
		s.coupons[coupon.Code] = coupon
	}
}

// LoadSeedFile reads a JSON seed file and loads it into the store.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("memory: read seed file: %w", err)
	}
	var seed repositories.CatalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("memory: parse seed file: %w", err)
	}
	s.SeedCatalog(seed)
	return nil
}

// sortOrdersNewestFirst orders by start date descending, ID as tiebreak.
func sortOrdersNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].StartDate.Equal(orders[j].StartDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].StartDate.After(orders[j].StartDate)
	})
}
