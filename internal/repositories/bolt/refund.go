package bolt

import (
	"context"
	"strings"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type refundRepository struct {
	db *bolt.DB
}

var _ repositories.RefundRepository = (*refundRepository)(nil)

func (r *refundRepository) Insert(_ context.Context, refund domain.Refund) (domain.Refund, error) {
	if strings.TrimSpace(refund.ID) == "" {
		return domain.Refund{}, invalidError("bolt.refund.insert", "refund id is required")
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketRefunds)
		var conflict bool
		err := bucket.ForEach(func(_, data []byte) error {
			var existing domain.Refund
			if err := decodeValue(data, &existing); err != nil {
				return err
			}
			if existing.OrderID == refund.OrderID {
				conflict = true
			}
			return nil
		})
		if err != nil {
			return err
		}
		if conflict {
			return conflictError("bolt.refund.insert", "refund already exists for order")
		}
		return putJSON(bucket, refund.ID, refund)
	})
	if err != nil {
		return domain.Refund{}, err
	}
	return refund, nil
}

func (r *refundRepository) Update(_ context.Context, refund domain.Refund) (domain.Refund, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketRefunds)
		if bucket.Get([]byte(refund.ID)) == nil {
			return notFoundError("bolt.refund.update", "refund not found")
		}
		return putJSON(bucket, refund.ID, refund)
	})
	if err != nil {
		return domain.Refund{}, err
	}
	return refund, nil
}

func (r *refundRepository) FindByOrder(_ context.Context, orderID string) (domain.Refund, error) {
	orderID = strings.TrimSpace(orderID)
	var match *domain.Refund
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRefunds).ForEach(func(_, data []byte) error {
			if match != nil {
				return nil
			}
			var refund domain.Refund
			if err := decodeValue(data, &refund); err != nil {
				return err
			}
			if refund.OrderID == orderID {
				match = &refund
			}
			return nil
		})
	})
	if err != nil {
		return domain.Refund{}, err
	}
	if match == nil {
		return domain.Refund{}, notFoundError("bolt.refund.findbyorder", "refund not found")
	}
	return *match, nil
}
