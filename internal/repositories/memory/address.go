package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type addressRepository struct {
	store *Store
}

var _ repositories.AddressRepository = (*addressRepository)(nil)

func (r *addressRepository) Insert(_ context.Context, address domain.Address) (domain.Address, error) {
	if strings.TrimSpace(address.ID) == "" {
		return domain.Address{}, invalidError("memory.address.insert", "address id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.addresses[address.ID]; exists {
		return domain.Address{}, conflictError("memory.address.insert", "address already exists")
	}
	r.store.addresses[address.ID] = address
	return address, nil
}

func (r *addressRepository) Get(_ context.Context, userID, addressID string) (domain.Address, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	address, ok := r.store.addresses[strings.TrimSpace(addressID)]
	if !ok || address.UserID != userID {
		return domain.Address{}, notFoundError("memory.address.get", "address not found")
	}
	return address, nil
}

func (r *addressRepository) List(_ context.Context, userID string) ([]domain.Address, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var addresses []domain.Address
	for _, address := range r.store.addresses {
		if address.UserID == userID {
			addresses = append(addresses, address)
		}
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].ID < addresses[j].ID })
	return addresses, nil
}
