package bolt

import (
	"context"
	"strings"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type lineItemRepository struct {
	db *bolt.DB
}

var _ repositories.LineItemRepository = (*lineItemRepository)(nil)

func (r *lineItemRepository) Get(_ context.Context, lineItemID string) (domain.LineItem, error) {
	var line domain.LineItem
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketLineItems), strings.TrimSpace(lineItemID), &line)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("bolt.lineitem.get", "line item not found")
		}
		return nil
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	return line, nil
}

func (r *lineItemRepository) GetOpen(_ context.Context, userID, itemID string) (domain.LineItem, error) {
	var match *domain.LineItem
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLineItems).ForEach(func(_, data []byte) error {
			if match != nil {
				return nil
			}
			var line domain.LineItem
			if err := decodeValue(data, &line); err != nil {
				return err
			}
			if !line.Ordered && line.UserID == userID && line.ItemID == itemID {
				match = &line
			}
			return nil
		})
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	if match == nil {
		return domain.LineItem{}, notFoundError("bolt.lineitem.getopen", "open line item not found")
	}
	return *match, nil
}

func (r *lineItemRepository) Upsert(_ context.Context, line domain.LineItem) (domain.LineItem, error) {
	if strings.TrimSpace(line.ID) == "" {
		return domain.LineItem{}, invalidError("bolt.lineitem.upsert", "line item id is required")
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketLineItems)
		if !line.Ordered {
			var conflict bool
			err := bucket.ForEach(func(_, data []byte) error {
				var existing domain.LineItem
				if err := decodeValue(data, &existing); err != nil {
					return err
				}
				if existing.ID != line.ID && !existing.Ordered &&
					existing.UserID == line.UserID && existing.ItemID == line.ItemID {
					conflict = true
				}
				return nil
			})
			if err != nil {
				return err
			}
			if conflict {
				return conflictError("bolt.lineitem.upsert", "open line item already exists")
			}
		}
		return putJSON(bucket, line.ID, line)
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	return line, nil
}

func (r *lineItemRepository) Delete(_ context.Context, lineItemID string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLineItems).Delete([]byte(strings.TrimSpace(lineItemID)))
	})
}

func (r *lineItemRepository) ListByIDs(_ context.Context, lineItemIDs []string) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, 0, len(lineItemIDs))
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketLineItems)
		for _, id := range lineItemIDs {
			var line domain.LineItem
			found, err := getJSON(bucket, id, &line)
			if err != nil {
				return err
			}
			if found {
				lines = append(lines, line)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *lineItemRepository) MarkOrdered(_ context.Context, lineItemIDs []string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketLineItems)
		for _, id := range lineItemIDs {
			var line domain.LineItem
			found, err := getJSON(bucket, id, &line)
			if err != nil {
				return err
			}
			if !found {
				return notFoundError("bolt.lineitem.markordered", "line item not found")
			}
			line.Ordered = true
			if err := putJSON(bucket, id, line); err != nil {
				return err
			}
		}
		return nil
	})
}
