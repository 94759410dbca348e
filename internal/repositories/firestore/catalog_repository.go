package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/tstore/storefront/internal/domain"
	fs "github.com/tstore/storefront/internal/platform/firestore"
	"github.com/tstore/storefront/internal/repositories"
)

const defaultItemPageSize = 20

// CatalogRepository reads items, categories, and coupons from Firestore.
type CatalogRepository struct {
	items      *fs.BaseRepository[domain.Item]
	categories *fs.BaseRepository[domain.Category]
	coupons    *fs.BaseRepository[domain.Coupon]
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

func (r *CatalogRepository) GetItem(ctx context.Context, itemID string) (domain.Item, error) {
	doc, err := r.items.Get(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return domain.Item{}, err
	}
	item := doc.Data
	item.ID = doc.ID
	return item, nil
}

func (r *CatalogRepository) GetItemBySlug(ctx context.Context, slug string) (domain.Item, error) {
	slug = strings.TrimSpace(slug)
	docs, err := r.items.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("slug", "==", slug).Limit(1)
	})
	if err != nil {
		return domain.Item{}, err
	}
	if len(docs) == 0 {
		return domain.Item{}, fs.NewNotFound("items.getbyslug", errors.New("item not found"))
	}
	item := docs[0].Data
	item.ID = docs[0].ID
	return item, nil
}

func (r *CatalogRepository) ListItems(ctx context.Context, query repositories.ItemQuery) ([]domain.Item, error) {
	categoryID := ""
	if slug := strings.TrimSpace(query.CategorySlug); slug != "" {
		category, err := r.categoryBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultItemPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))

	docs, err := r.items.Query(ctx, func(q firestore.Query) firestore.Query {
		if categoryID != "" {
			q = q.Where("categoryId", "==", categoryID)
		}
		q = q.OrderBy("title", firestore.Asc)
		// Text search is filtered in process, so paging moves to the client
		// side of the query as well.
		if search == "" {
			q = q.Offset(offset).Limit(limit)
		}
		return q
	})
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, 0, len(docs))
	for _, doc := range docs {
		item := doc.Data
		item.ID = doc.ID
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Title), search) &&
			!strings.Contains(strings.ToLower(item.Description), search) {
			continue
		}
		items = append(items, item)
	}

	if search != "" {
		if offset >= len(items) {
			return nil, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		items = items[offset:end]
	}
	return items, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	docs, err := r.categories.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.OrderBy("name", firestore.Asc)
	})
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(docs))
	for _, doc := range docs {
		category := doc.Data
		category.ID = doc.ID
		categories = append(categories, category)
	}
	return categories, nil
}

func (r *CatalogRepository) GetCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	doc, err := r.coupons.Get(ctx, strings.TrimSpace(code))
	if err != nil {
		return domain.Coupon{}, err
	}
	coupon := doc.Data
	coupon.Code = doc.ID
	return coupon, nil
}

func (r *CatalogRepository) categoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	docs, err := r.categories.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("slug", "==", slug).Limit(1)
	})
	if err != nil {
		return domain.Category{}, err
	}
	if len(docs) == 0 {
		return domain.Category{}, fs.NewNotFound("categories.getbyslug", errors.New("category not found"))
	}
	category := docs[0].Data
	category.ID = docs[0].ID
	return category, nil
}
