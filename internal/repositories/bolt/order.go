package bolt

import (
	"context"
	"sort"
	"strings"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type orderRepository struct {
	db *bolt.DB
}

var _ repositories.OrderRepository = (*orderRepository)(nil)

func (r *orderRepository) GetOpenByUser(_ context.Context, userID string) (domain.Order, error) {
	var match *domain.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, data []byte) error {
			if match != nil {
				return nil
			}
			var order domain.Order
			if err := decodeValue(data, &order); err != nil {
				return err
			}
			if !order.Ordered && order.UserID == userID {
				match = &order
			}
			return nil
		})
	})
	if err != nil {
		return domain.Order{}, err
	}
	if match == nil {
		return domain.Order{}, notFoundError("bolt.order.getopen", "open order not found")
	}
	return *match, nil
}

func (r *orderRepository) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	var order domain.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketOrders), strings.TrimSpace(orderID), &order)
		if err != nil {
			return err
		}
		if !found {
			return notFoundError("bolt.order.findbyid", "order not found")
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) FindByRefCode(_ context.Context, refCode string) (domain.Order, error) {
	code := strings.TrimSpace(refCode)
	var match *domain.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, data []byte) error {
			if match != nil {
				return nil
			}
			var order domain.Order
			if err := decodeValue(data, &order); err != nil {
				return err
			}
			if order.RefCode == code {
				match = &order
			}
			return nil
		})
	})
	if err != nil {
		return domain.Order{}, err
	}
	if match == nil {
		return domain.Order{}, notFoundError("bolt.order.findbyrefcode", "order not found")
	}
	return *match, nil
}

func (r *orderRepository) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	if strings.TrimSpace(order.ID) == "" {
		return domain.Order{}, invalidError("bolt.order.insert", "order id is required")
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOrders)
		if bucket.Get([]byte(order.ID)) != nil {
			return conflictError("bolt.order.insert", "order already exists")
		}
		if !order.Ordered {
			var conflict bool
			err := bucket.ForEach(func(_, data []byte) error {
				var existing domain.Order
				if err := decodeValue(data, &existing); err != nil {
					return err
				}
				if !existing.Ordered && existing.UserID == order.UserID {
					conflict = true
				}
				return nil
			})
			if err != nil {
				return err
			}
			if conflict {
				return conflictError("bolt.order.insert", "open order already exists")
			}
		}
		return putJSON(bucket, order.ID, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) Update(_ context.Context, order domain.Order) (domain.Order, error) {
	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketOrders)
		if bucket.Get([]byte(order.ID)) == nil {
			return notFoundError("bolt.order.update", "order not found")
		}
		return putJSON(bucket, order.ID, order)
	})
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOrders).ForEach(func(_, data []byte) error {
			var order domain.Order
			if err := decodeValue(data, &order); err != nil {
				return err
			}
			if order.Ordered && order.UserID == userID {
				orders = append(orders, order)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].StartDate.Equal(orders[j].StartDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].StartDate.After(orders[j].StartDate)
	})
	return orders, nil
}
