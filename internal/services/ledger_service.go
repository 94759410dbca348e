package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

var (
	ErrLedgerInvalidInput = errors.New("ledger service: invalid input")
	ErrLedgerItemNotFound = errors.New("ledger service: item not found")
	ErrLedgerLineNotFound = errors.New("ledger service: line item not found")
	ErrLedgerConflict     = errors.New("ledger service: conflicting update")
	ErrLedgerUnavailable  = errors.New("ledger service: storage unavailable")
)

// LedgerService maintains the per-user line item ledger. Quantities only move
// by one per call; the cart service drives it inside the per-user critical
// section.
type LedgerService interface {
	// AddOrIncrement creates a quantity-1 open line for the item or bumps the
	// existing one. The returned flag reports whether a new line was created.
	AddOrIncrement(ctx context.Context, userID, itemID string) (domain.LineItem, bool, error)
	// DecrementOrRemove lowers the open line's quantity, deleting it at zero.
	// The returned flag reports whether the line was removed.
	DecrementOrRemove(ctx context.Context, userID, itemID string) (domain.LineItem, bool, error)
	// Remove deletes the open line unconditionally. Missing lines are not an
	// error.
	Remove(ctx context.Context, userID, itemID string) error
}

// LedgerServiceDeps bundles the ledger service dependencies.
type LedgerServiceDeps struct {
	Catalog   repositories.CatalogRepository
	LineItems repositories.LineItemRepository
	Clock     Clock
	IDGen     IDGenerator
	Logger    *zap.Logger
}

type ledgerService struct {
	catalog repositories.CatalogRepository
	lines   repositories.LineItemRepository
	clock   Clock
	idGen   IDGenerator
	logger  *zap.Logger
}

// NewLedgerService validates deps and constructs the service.
func NewLedgerService(deps LedgerServiceDeps) (LedgerService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("ledger service: catalog repository is required")
	}
	if deps.LineItems == nil {
		return nil, errors.New("ledger service: line item repository is required")
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.IDGen == nil {
		deps.IDGen = NewULIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &ledgerService{
		catalog: deps.Catalog,
		lines:   deps.LineItems,
		clock:   deps.Clock,
		idGen:   deps.IDGen,
		logger:  deps.Logger,
	}, nil
}

func (s *ledgerService) AddOrIncrement(ctx context.Context, userID, itemID string) (domain.LineItem, bool, error) {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return domain.LineItem{}, false, ErrLedgerInvalidInput
	}

	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.LineItem{}, false, ErrLedgerItemNotFound
		}
		return domain.LineItem{}, false, s.translate(err)
	}

	now := s.clock().UTC()

	line, err := s.lines.GetOpen(ctx, userID, itemID)
	switch {
	case err == nil:
		line.Quantity++
		line.UpdatedAt = now
		updated, err := s.lines.Upsert(ctx, line)
		if err != nil {
			return domain.LineItem{}, false, s.translate(err)
		}
		return updated, false, nil
	case repositories.IsNotFound(err):
		line = domain.LineItem{
			ID:            s.idGen(),
			UserID:        userID,
			ItemID:        itemID,
			Quantity:      1,
			UnitPrice:     item.Price,
			DiscountPrice: item.DiscountPrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		created, err := s.lines.Upsert(ctx, line)
		if err != nil {
			return domain.LineItem{}, false, s.translate(err)
		}
		s.logger.Debug("line item created",
			zap.String("user_id", userID),
			zap.String("item_id", itemID),
		)
		return created, true, nil
	default:
		return domain.LineItem{}, false, s.translate(err)
	}
}

func (s *ledgerService) DecrementOrRemove(ctx context.Context, userID, itemID string) (domain.LineItem, bool, error) {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return domain.LineItem{}, false, ErrLedgerInvalidInput
	}

	line, err := s.lines.GetOpen(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.LineItem{}, false, ErrLedgerLineNotFound
		}
		return domain.LineItem{}, false, s.translate(err)
	}

	if line.Quantity <= 1 {
		if err := s.lines.Delete(ctx, line.ID); err != nil {
			return domain.LineItem{}, false, s.translate(err)
		}
		line.Quantity = 0
		return line, true, nil
	}

	line.Quantity--
	line.UpdatedAt = s.clock().UTC()
	updated, err := s.lines.Upsert(ctx, line)
	if err != nil {
		return domain.LineItem{}, false, s.translate(err)
	}
	return updated, false, nil
}

func (s *ledgerService) Remove(ctx context.Context, userID, itemID string) error {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return ErrLedgerInvalidInput
	}

	line, err := s.lines.GetOpen(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil
		}
		return s.translate(err)
	}
	if err := s.lines.Delete(ctx, line.ID); err != nil {
		return s.translate(err)
	}
	return nil
}

func (s *ledgerService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return ErrLedgerLineNotFound
	case repositories.IsConflict(err):
		return ErrLedgerConflict
	case repositories.IsUnavailable(err):
		return ErrLedgerUnavailable
	default:
		return err
	}
}
