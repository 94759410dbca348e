package memory

import (
	"context"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type refundRepository struct {
	store *Store
}

var _ repositories.RefundRepository = (*refundRepository)(nil)

func (r *refundRepository) Insert(_ context.Context, refund domain.Refund) (domain.Refund, error) {
	if strings.TrimSpace(refund.ID) == "" {
		return domain.Refund{}, invalidError("memory.refund.insert", "refund id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.refunds {
		if existing.OrderID == refund.OrderID {
			return domain.Refund{}, conflictError("memory.refund.insert", "refund already exists for order")
		}
	}
	r.store.refunds[refund.ID] = refund
	return refund, nil
}

func (r *refundRepository) Update(_ context.Context, refund domain.Refund) (domain.Refund, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.refunds[refund.ID]; !ok {
		return domain.Refund{}, notFoundError("memory.refund.update", "refund not found")
	}
	r.store.refunds[refund.ID] = refund
	return refund, nil
}

func (r *refundRepository) FindByOrder(_ context.Context, orderID string) (domain.Refund, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, refund := range r.store.refunds {
		if refund.OrderID == strings.TrimSpace(orderID) {
			return refund, nil
		}
	}
	return domain.Refund{}, notFoundError("memory.refund.findbyorder", "refund not found")
}
