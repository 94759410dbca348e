package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

const defaultItemPageSize = 20

type catalogRepository struct {
	store *Store
}

var _ repositories.CatalogRepository = (*catalogRepository)(nil)

func (r *catalogRepository) GetItem(_ context.Context, itemID string) (domain.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[strings.TrimSpace(itemID)]
	if !ok {
		return domain.Item{}, notFoundError("memory.catalog.get", "item not found")
	}
	return item, nil
}

func (r *catalogRepository) GetItemBySlug(_ context.Context, slug string) (domain.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.itemSlugs[strings.TrimSpace(slug)]
	if !ok {
		return domain.Item{}, notFoundError("memory.catalog.getbyslug", "item not found")
	}
	return r.store.items[id], nil
}

func (r *catalogRepository) ListItems(_ context.Context, query repositories.ItemQuery) ([]domain.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categoryID := ""
	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		for _, category := range r.store.categories {
			if category.Slug == slug {
				categoryID = category.ID
				break
			}
		}
		if categoryID == "" {
			return nil, notFoundError("memory.catalog.list", "category not found")
		}
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))

	var matched []domain.Item
	for _, item := range r.store.items {
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	limit := query.Limit
	if limit <= 0 {
		limit = defaultItemPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *catalogRepository) ListCategories(_ context.Context) ([]domain.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.store.categories))
	for _, category := range r.store.categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *catalogRepository) GetCoupon(_ context.Context, code string) (domain.Coupon, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	coupon, ok := r.store.coupons[strings.TrimSpace(code)]
	if !ok {
		return domain.Coupon{}, notFoundError("memory.catalog.getcoupon", "coupon not found")
	}
	return coupon, nil
}
