package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tstore/storefront/internal/domain"
	fs "github.com/tstore/storefront/internal/platform/firestore"
	"github.com/tstore/storefront/internal/repositories"
)

// OrderRepository persists orders in Firestore. Insert runs in a transaction
// so a user can never end up with two open orders.
type OrderRepository struct {
	provider *fs.Provider
	base     *fs.BaseRepository[domain.Order]
}

var _ repositories.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) GetOpenByUser(ctx context.Context, userID string) (domain.Order, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("userId", "==", userID).Where("ordered", "==", false).Limit(1)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if len(docs) == 0 {
		return domain.Order{}, fs.NewNotFound("orders.getopen", errors.New("open order not found"))
	}
	order := docs[0].Data
	order.ID = docs[0].ID
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, orderID string) (domain.Order, error) {
	doc, err := r.base.Get(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return domain.Order{}, err
	}
	order := doc.Data
	order.ID = doc.ID
	return order, nil
}

func (r *OrderRepository) FindByRefCode(ctx context.Context, refCode string) (domain.Order, error) {
	code := strings.TrimSpace(refCode)
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("refCode", "==", code).Limit(1)
	})
	if err != nil {
		return domain.Order{}, err
	}
	if len(docs) == 0 {
		return domain.Order{}, fs.NewNotFound("orders.findbyrefcode", errors.New("order not found"))
	}
	order := docs[0].Data
	order.ID = docs[0].ID
	return order, nil
}

func (r *OrderRepository) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	id := strings.TrimSpace(order.ID)
	if id == "" {
		return domain.Order{}, fs.WrapError("orders.insert", errors.New("order id is required"))
	}

	coll, err := r.base.CollectionRef(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	payload, err := r.base.Encode(ctx, order)
	if err != nil {
		return domain.Order{}, fs.WrapError("orders.insert", err)
	}

	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if !order.Ordered {
			query := coll.Where("userId", "==", order.UserID).Where("ordered", "==", false).Limit(1)
			iter := tx.Documents(query)
			defer iter.Stop()
			_, err := iter.Next()
			if err == nil {
				return fs.NewConflict("orders.insert", errors.New("open order already exists"))
			}
			if !errors.Is(err, iterator.Done) {
				return err
			}
		}
		return tx.Create(coll.Doc(id), payload)
	})
	if err != nil {
		return domain.Order{}, fs.WrapError("orders.insert", err)
	}
	return order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	if _, err := r.base.Set(ctx, order.ID, order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("userId", "==", userID).
			Where("ordered", "==", true).
			OrderBy("startDate", firestore.Desc)
	})
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		order := doc.Data
		order.ID = doc.ID
		orders = append(orders, order)
	}
	return orders, nil
}
