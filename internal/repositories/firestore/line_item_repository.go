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

// LineItemRepository persists line items in Firestore. The open-line
// uniqueness invariant is enforced inside a transaction on Upsert.
type LineItemRepository struct {
	provider *fs.Provider
	base     *fs.BaseRepository[domain.LineItem]
}

var _ repositories.LineItemRepository = (*LineItemRepository)(nil)

func (r *LineItemRepository) Get(ctx context.Context, lineItemID string) (domain.LineItem, error) {
	doc, err := r.base.Get(ctx, strings.TrimSpace(lineItemID))
	if err != nil {
		return domain.LineItem{}, err
	}
	line := doc.Data
	line.ID = doc.ID
	return line, nil
}

func (r *LineItemRepository) GetOpen(ctx context.Context, userID, itemID string) (domain.LineItem, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("userId", "==", userID).
			Where("itemId", "==", itemID).
			Where("ordered", "==", false).
			Limit(1)
	})
	if err != nil {
		return domain.LineItem{}, err
	}
	if len(docs) == 0 {
		return domain.LineItem{}, fs.NewNotFound("lineItems.getopen", errors.New("open line item not found"))
	}
	line := docs[0].Data
	line.ID = docs[0].ID
	return line, nil
}

func (r *LineItemRepository) Upsert(ctx context.Context, line domain.LineItem) (domain.LineItem, error) {
	id := strings.TrimSpace(line.ID)
	if id == "" {
		return domain.LineItem{}, fs.WrapError("lineItems.upsert", errors.New("line item id is required"))
	}

	coll, err := r.base.CollectionRef(ctx)
	if err != nil {
		return domain.LineItem{}, err
	}
	payload, err := r.base.Encode(ctx, line)
	if err != nil {
		return domain.LineItem{}, fs.WrapError("lineItems.upsert", err)
	}

	err = r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if !line.Ordered {
			query := coll.Where("userId", "==", line.UserID).
				Where("itemId", "==", line.ItemID).
				Where("ordered", "==", false).
				Limit(2)
			iter := tx.Documents(query)
			defer iter.Stop()
			for {
				snap, err := iter.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					return err
				}
				if snap.Ref.ID != id {
					return fs.NewConflict("lineItems.upsert", errors.New("open line item already exists"))
				}
			}
		}
		return tx.Set(coll.Doc(id), payload)
	})
	if err != nil {
		return domain.LineItem{}, fs.WrapError("lineItems.upsert", err)
	}
	return line, nil
}

func (r *LineItemRepository) Delete(ctx context.Context, lineItemID string) error {
	err := r.base.Delete(ctx, strings.TrimSpace(lineItemID))
	if repositories.IsNotFound(err) {
		return nil
	}
	return err
}

func (r *LineItemRepository) ListByIDs(ctx context.Context, lineItemIDs []string) ([]domain.LineItem, error) {
	lines := make([]domain.LineItem, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		doc, err := r.base.Get(ctx, id)
		if err != nil {
			if repositories.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		line := doc.Data
		line.ID = doc.ID
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *LineItemRepository) MarkOrdered(ctx context.Context, lineItemIDs []string) error {
	if len(lineItemIDs) == 0 {
		return nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(lineItemIDs))
	for _, id := range lineItemIDs {
		ref, err := r.base.DocumentRef(ctx, id)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, ref := range refs {
			if err := tx.Update(ref, []firestore.Update{{Path: "ordered", Value: true}}); err != nil {
				return err
			}
		}
		return nil
	})
	return fs.WrapError("lineItems.markordered", err)
}
