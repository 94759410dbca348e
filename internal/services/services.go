package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Clock supplies the current time so tests can pin it.
type Clock func() time.Time

// IDGenerator mints identifiers for new entities.
type IDGenerator func() string

// NewULIDGenerator returns a generator producing lexicographically sortable
// IDs for orders, line items, and refunds.
func NewULIDGenerator() IDGenerator {
	return func() string {
		return ulid.Make().String()
	}
}

// NewRefCodeGenerator returns a generator for customer-facing order
// reference codes.
func NewRefCodeGenerator() IDGenerator {
	return func() string {
		id := ulid.Make().String()
		// Keep only the random portion of the ULID.
		return id[6:]
	}
}

// NewUUIDGenerator returns a generator producing random UUIDs for addresses.
func NewUUIDGenerator() IDGenerator {
	return uuid.NewString
}
