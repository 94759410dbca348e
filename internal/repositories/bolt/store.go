package bolt

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "github.com/boltdb/bolt"

	"github.com/tstore/storefront/internal/repositories"
)

var (
	bucketItems      = []byte("items")
	bucketCategories = []byte("categories")
	bucketCoupons    = []byte("coupons")
	bucketLineItems  = []byte("lineItems")
	bucketOrders     = []byte("orders")
	bucketAddresses  = []byte("addresses")
	bucketRefunds    = []byte("refunds")
)

// Store is an embedded BoltDB backend. Bolt serialises writers, so the
// uniqueness scans inside update transactions are race free.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{
			bucketItems, bucketCategories, bucketCoupons,
			bucketLineItems, bucketOrders, bucketAddresses, bucketRefunds,
		} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Catalog returns the catalog repository view of the store.
func (s *Store) Catalog() repositories.CatalogRepository { return &catalogRepository{db: s.db} }

// LineItems returns the line item repository view of the store.
func (s *Store) LineItems() repositories.LineItemRepository { return &lineItemRepository{db: s.db} }

// Orders returns the order repository view of the store.
func (s *Store) Orders() repositories.OrderRepository { return &orderRepository{db: s.db} }

// Addresses returns the address repository view of the store.
func (s *Store) Addresses() repositories.AddressRepository { return &addressRepository{db: s.db} }

// Refunds returns the refund repository view of the store.
func (s *Store) Refunds() repositories.RefundRepository { return &refundRepository{db: s.db} }

// SeedCatalog loads catalog fixtures, replacing entries with matching IDs.
func (s *Store) SeedCatalog(seed repositories.CatalogSeed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, item := range seed.Items {
			if err := putJSON(tx.Bucket(bucketItems), item.ID, item); err != nil {
				return err
			}
		}
		for _, category := range seed.Categories {
			if err := putJSON(tx.Bucket(bucketCategories), category.ID, category); err != nil {
				return err
			}
		}
		for _, coupon := range seed.Coupons {
			if err := putJSON(tx.Bucket(bucketCoupons), coupon.Code, coupon); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSeedFile reads a JSON seed file and loads it into the store.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bolt: read seed file: %w", err)
	}
	var seed repositories.CatalogSeed
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("bolt: parse seed file: %w", err)
	}
	return s.SeedCatalog(seed)
}

func putJSON(bucket *bolt.Bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("bolt: encode %s: %w", key, err)
	}
	return bucket.Put([]byte(key), data)
}

func getJSON(bucket *bolt.Bucket, key string, target any) (bool, error) {
	data := bucket.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("bolt: decode %s: %w", key, err)
	}
	return true, nil
}

func decodeValue(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("bolt: decode value: %w", err)
	}
	return nil
}
