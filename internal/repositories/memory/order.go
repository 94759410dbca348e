package memory

import (
	"context"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type orderRepository struct {
	store *Store
}

var _ repositories.OrderRepository = (*orderRepository)(nil)

func (r *orderRepository) GetOpenByUser(_ context.Context, userID string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, order := range r.store.orders {
		if !order.Ordered && order.UserID == userID {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, notFoundError("memory.order.getopen", "open order not found")
}

func (r *orderRepository) FindByID(_ context.Context, orderID string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[strings.TrimSpace(orderID)]
	if !ok {
		return domain.Order{}, notFoundError("memory.order.findbyid", "order not found")
	}
	return cloneOrder(order), nil
}

func (r *orderRepository) FindByRefCode(_ context.Context, refCode string) (domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	code := strings.TrimSpace(refCode)
	for _, order := range r.store.orders {
		if order.RefCode == code {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, notFoundError("memory.order.findbyrefcode", "order not found")
}

func (r *orderRepository) Insert(_ context.Context, order domain.Order) (domain.Order, error) {
	if strings.TrimSpace(order.ID) == "" {
		return domain.Order{}, invalidError("memory.order.insert", "order id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.orders[order.ID]; exists {
		return domain.Order{}, conflictError("memory.order.insert", "order already exists")
	}
	if !order.Ordered {
		for _, existing := range r.store.orders {
			if !existing.Ordered && existing.UserID == order.UserID {
				return domain.Order{}, conflictError("memory.order.insert", "open order already exists")
			}
		}
	}

	r.store.orders[order.ID] = cloneOrder(order)
	return order, nil
}

func (r *orderRepository) Update(_ context.Context, order domain.Order) (domain.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[order.ID]; !ok {
		return domain.Order{}, notFoundError("memory.order.update", "order not found")
	}
	r.store.orders[order.ID] = cloneOrder(order)
	return order, nil
}

func (r *orderRepository) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var orders []domain.Order
	for _, order := range r.store.orders {
		if order.Ordered && order.UserID == userID {
			orders = append(orders, cloneOrder(order))
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

// cloneOrder copies the order so callers never share the stored slice.
func cloneOrder(order domain.Order) domain.Order {
	order.LineItemIDs = append([]string(nil), order.LineItemIDs...)
	return order
}
