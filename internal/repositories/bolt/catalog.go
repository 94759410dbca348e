package bolt

import (
	"context"
	"sort"
	"strings"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

const defaultItemPageSize = 20

type catalogRepository struct {
	db *bolt.DB
}

var _ repositories.CatalogRepository = (*catalogRepository)(nil)

func (r *catalogRepository) GetItem(_ context.Context, itemID string) (domain.Item, error) {
	var item domain.Item
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketItems), strings.TrimSpace(itemID), &item)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("bolt.catalog.get", "item not found")
		}
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (r *catalogRepository) GetItemBySlug(_ context.Context, slug string) (domain.Item, error) {
	slug = strings.TrimSpace(slug)
	var match *domain.Item
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketItems).ForEach(func(_, data []byte) error {
			if match != nil {
				return nil
			}
			var item domain.Item
			if err := decodeValue(data, &item); err != nil {
				return err
			}
			if item.Slug == slug {
				match = &item
			}
			return nil
		})
	})
	if err != nil {
		return domain.Item{}, err
	}
	if match == nil {
		return domain.Item{}, notFoundError("bolt.catalog.getbyslug", "item not found")
	}
	return *match, nil
}

func (r *catalogRepository) ListItems(_ context.Context, query repositories.ItemQuery) ([]domain.Item, error) {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	categorySlug := strings.TrimSpace(query.CategorySlug)

	var matched []domain.Item
	err := r.db.View(func(tx *bolt.Tx) error {
		categoryID := ""
		if categorySlug != "" {
			err := tx.Bucket(bucketCategories).ForEach(func(_, data []byte) error {
				var category domain.Category
				if err := decodeValue(data, &category); err != nil {
					return err
				}
				if category.Slug == categorySlug {
					categoryID = category.ID
				}
				return nil
			})
			if err != nil {
				return err
			}
			if categoryID == "" {
				return notFoundError("bolt.catalog.list", "category not found")
			}
		}

		return tx.Bucket(bucketItems).ForEach(func(_, data []byte) error {
			var item domain.Item
			if err := decodeValue(data, &item); err != nil {
				return err
			}
			if categoryID != "" && item.CategoryID != categoryID {
				return nil
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(item.Title), search) &&
				!strings.Contains(strings.ToLower(item.Description), search) {
				return nil
			}
			matched = append(matched, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
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
	var categories []domain.Category
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCategories).ForEach(func(_, data []byte) error {
			var category domain.Category
			if err := decodeValue(data, &category); err != nil {
				return err
			}
			categories = append(categories, category)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *catalogRepository) GetCoupon(_ context.Context, code string) (domain.Coupon, error) {
	var coupon domain.Coupon
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketCoupons), strings.TrimSpace(code), &coupon)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("bolt.catalog.getcoupon", "coupon not found")
		}
		return nil
	})
	if err != nil {
		return domain.Coupon{}, err
	}
	return coupon, nil
}
