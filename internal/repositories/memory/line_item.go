package memory

import (
	"context"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type lineItemRepository struct {
	store *Store
}

var _ repositories.LineItemRepository = (*lineItemRepository)(nil)

func (r *lineItemRepository) Get(_ context.Context, lineItemID string) (domain.LineItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	line, ok := r.store.lines[strings.TrimSpace(lineItemID)]
	if !ok {
		return domain.LineItem{}, notFoundError("memory.lineitem.get", "line item not found")
	}
	return line, nil
}

func (r *lineItemRepository) GetOpen(_ context.Context, userID, itemID string) (domain.LineItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, line := range r.store.lines {
		if !line.Ordered && line.UserID == userID && line.ItemID == itemID {
			return line, nil
		}
	}
	return domain.LineItem{}, notFoundError("memory.lineitem.getopen", "open line item not found")
}

func (r *lineItemRepository) Upsert(_ context.Context, line domain.LineItem) (domain.LineItem, error) {
	if strings.TrimSpace(line.ID) == "" {
		return domain.LineItem{}, invalidError("memory.lineitem.upsert", "line item id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Guard the one-open-line-per-(user,item) invariant against duplicate
	// inserts racing past the service layer.
	if !line.Ordered {
		for id, existing := range r.store.lines {
			if id != line.ID && !existing.Ordered && existing.UserID == line.UserID && existing.ItemID == line.ItemID {
				return domain.LineItem{}, conflictError("memory.lineitem.upsert", "open line item already exists")
			}
		}
	}

	r.store.lines[line.ID] = line
	return line, nil
}

func (r *lineItemRepository) Delete(_ context.Context, lineItemID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.lines, strings.TrimSpace(lineItemID))
	return nil
}

func (r *lineItemRepository) ListByIDs(_ context.Context, lineItemIDs []string) ([]domain.LineItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	lines := make([]domain.LineItem, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		if line, ok := r.store.lines[id]; ok {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *lineItemRepository) MarkOrdered(_ context.Context, lineItemIDs []string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range lineItemIDs {
		line, ok := r.store.lines[id]
		if !ok {
			return notFoundError("memory.lineitem.markordered", "line item not found")
		}
		line.Ordered = true
		r.store.lines[id] = line
	}
	return nil
}
