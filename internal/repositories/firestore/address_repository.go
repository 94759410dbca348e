package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/tstore/storefront/internal/domain"
	fs "github.com/tstore/storefront/internal/platform/firestore"
	"github.com/tstore/storefront/internal/repositories"
)

// AddressRepository persists shipping addresses in Firestore.
type AddressRepository struct {
	base *fs.BaseRepository[domain.Address]
}

var _ repositories.AddressRepository = (*AddressRepository)(nil)

func (r *AddressRepository) Insert(ctx context.Context, address domain.Address) (domain.Address, error) {
	if strings.TrimSpace(address.ID) == "" {
		return domain.Address{}, fs.WrapError("addresses.insert", errors.New("address id is required"))
	}
	if _, err := r.base.Set(ctx, address.ID, address); err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func (r *AddressRepository) Get(ctx context.Context, userID, addressID string) (domain.Address, error) {
	doc, err := r.base.Get(ctx, strings.TrimSpace(addressID))
	if err != nil {
		return domain.Address{}, err
	}
	address := doc.Data
	address.ID = doc.ID
	if address.UserID != userID {
		return domain.Address{}, fs.NewNotFound("addresses.get", errors.New("address not found"))
	}
	return address, nil
}

func (r *AddressRepository) List(ctx context.Context, userID string) ([]domain.Address, error) {
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("userId", "==", userID)
	})
	if err != nil {
		return nil, err
	}
	addresses := make([]domain.Address, 0, len(docs))
	for _, doc := range docs {
		address := doc.Data
		address.ID = doc.ID
		addresses = append(addresses, address)
	}
	return addresses, nil
}
