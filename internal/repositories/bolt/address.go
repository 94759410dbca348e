package bolt

import (
	"context"
	"sort"
	"strings"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

type addressRepository struct {
	db *bolt.DB
}

var _ repositories.AddressRepository = (*addressRepository)(nil)

func (r *addressRepository) Insert(_ context.Context, address domain.Address) (domain.Address, error) {
	if strings.TrimSpace(address.ID) == "" {
		return domain.Address{}, invalidError("bolt.address.insert", "address id is required")
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketAddresses)
		if bucket.Get([]byte(address.ID)) != nil {
			return conflictError("bolt.address.insert", "address already exists")
		}
		return putJSON(bucket, address.ID, address)
	})
	if err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func (r *addressRepository) Get(_ context.Context, userID, addressID string) (domain.Address, error) {
	var address domain.Address
	err := r.db.View(func(tx *bolt.Tx) error {
		found, err := getJSON(tx.Bucket(bucketAddresses), strings.TrimSpace(addressID), &address)
		if err != nil {
			return err
		}
		if !found || address.UserID != userID {
			return notFoundError("bolt.address.get", "address not found")
		}
		return nil
	})
	if err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func (r *addressRepository) List(_ context.Context, userID string) ([]domain.Address, error) {
	var addresses []domain.Address
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAddresses).ForEach(func(_, data []byte) error {
			var address domain.Address
			if err := decodeValue(data, &address); err != nil {
				return err
			}
			if address.UserID == userID {
				addresses = append(addresses, address)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(addresses, func(i, j int) bool { return addresses[i].ID < addresses[j].ID })
	return addresses, nil
}
