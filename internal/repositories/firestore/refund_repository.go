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

// RefundRepository persists refund requests in Firestore. Insert enforces the
// one-refund-per-order invariant inside a transaction.
type RefundRepository struct {
	provider *fs.Provider
	base     *fs.BaseRepository[domain.Refund]
}

var _ repositories.RefundRepository = (*RefundRepository)(nil)

func (r *RefundRepository) Insert(ctx context.Context, refund domain.Refund) (domain.Refund, error) {
	id := strings.TrimSpace(refund.ID)
	if id == "" {
		return domain.Refund{}, fs.WrapError("refunds.insert", errors.New("refund id is required"))
	}

	coll, err := r.base.CollectionRef(ctx)
	if err != nil {
		return domain.Refund{}, err
	}
	payload, err := r.base.Encode(ctx, refund)
	if err != nil {
		return domain.Refund{}, fs.WrapError("refunds.insert", err)
	}

	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		query := coll.Where("orderId", "==", refund.OrderID).Limit(1)
		iter := tx.Documents(query)
		defer iter.Stop()
		_, err := iter.Next()
		if err == nil {
			return fs.NewConflict("refunds.insert", errors.New("refund already exists for order"))
		}
		if !errors.Is(err, iterator.Done) {
			return err
		}
		return tx.Create(coll.Doc(id), payload)
	})
	if err != nil {
		return domain.Refund{}, fs.WrapError("refunds.insert", err)
	}
	return refund, nil
}

func (r *RefundRepository) Update(ctx context.Context, refund domain.Refund) (domain.Refund, error) {
	if _, err := r.base.Set(ctx, refund.ID, refund); err != nil {
		return domain.Refund{}, err
	}
	return refund, nil
}

func (r *RefundRepository) FindByOrder(ctx context.Context, orderID string) (domain.Refund, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("orderId", "==", strings.TrimSpace(orderID)).Limit(1)
	})
	if err != nil {
		return domain.Refund{}, err
	}
	if len(docs) == 0 {
		return domain.Refund{}, fs.NewNotFound("refunds.findbyorder", errors.New("refund not found"))
	}
	refund := docs[0].Data
	refund.ID = docs[0].ID
	return refund, nil
}
