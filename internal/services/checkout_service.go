package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/platform/locks"
	"github.com/tstore/storefront/internal/repositories"
)

var (
	ErrCheckoutInvalidInput     = errors.New("checkout service: invalid input")
	ErrCheckoutNoActiveOrder    = errors.New("checkout service: no active order")
	ErrCheckoutEmptyCart        = errors.New("checkout service: cart is empty")
	ErrCheckoutAlreadyFinalized = errors.New("checkout service: order already finalized")
	ErrCheckoutOrderNotFound    = errors.New("checkout service: order not found")
	ErrCheckoutConflict         = errors.New("checkout service: conflicting update")
	ErrCheckoutUnavailable      = errors.New("checkout service: storage unavailable")
)

// FinalizeCommand carries the checkout form.
type FinalizeCommand struct {
	UserID        string
	StreetAddress string
	Country       string
	Zip           string
	PaymentOption string
	// OrderID optionally pins the submission to a known order so a repeated
	// submit reports the already-finalized state instead of a missing cart.
	OrderID string
}

// FinalizedOrder is the checkout result returned to the caller.
type FinalizedOrder struct {
	Order   domain.Order   `json:"order"`
	Address domain.Address `json:"address"`
	Total   int64          `json:"total"`
}

// CheckoutService finalizes the open order and answers order history queries.
type CheckoutService interface {
	Finalize(ctx context.Context, cmd FinalizeCommand) (FinalizedOrder, error)
	// ListOrders returns the user's finalized orders, newest first.
	ListOrders(ctx context.Context, userID string) ([]FinalizedOrder, error)
	// GetOrder returns one of the user's finalized orders by reference code.
	GetOrder(ctx context.Context, userID, refCode string) (FinalizedOrder, error)
}

// CheckoutServiceDeps bundles the checkout service dependencies.
type CheckoutServiceDeps struct {
	Orders    repositories.OrderRepository
	LineItems repositories.LineItemRepository
	Addresses repositories.AddressRepository
	UserLocks *locks.Keyed
	Clock     Clock
	AddressID IDGenerator
	Logger    *zap.Logger
}

type checkoutService struct {
	orders    repositories.OrderRepository
	lines     repositories.LineItemRepository
	addresses repositories.AddressRepository
	userLocks *locks.Keyed
	clock     Clock
	addressID IDGenerator
	logger    *zap.Logger
}

// NewCheckoutService validates deps and constructs the service.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Orders == nil {
		return nil, errors.New("checkout service: order repository is required")
	}
	if deps.LineItems == nil {
		return nil, errors.New("checkout service: line item repository is required")
	}
	if deps.Addresses == nil {
		return nil, errors.New("checkout service: address repository is required")
	}
	if deps.UserLocks == nil {
		deps.UserLocks = locks.NewKeyed()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.AddressID == nil {
		deps.AddressID = NewUUIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &checkoutService{
		orders:    deps.Orders,
		lines:     deps.LineItems,
		addresses: deps.Addresses,
		userLocks: deps.UserLocks,
		clock:     deps.Clock,
		addressID: deps.AddressID,
		logger:    deps.Logger,
	}, nil
}

func (s *checkoutService) Finalize(ctx context.Context, cmd FinalizeCommand) (FinalizedOrder, error) {
	cmd.UserID = strings.TrimSpace(cmd.UserID)
	cmd.StreetAddress = strings.TrimSpace(cmd.StreetAddress)
	cmd.Country = strings.TrimSpace(cmd.Country)
	cmd.Zip = strings.TrimSpace(cmd.Zip)
	cmd.OrderID = strings.TrimSpace(cmd.OrderID)

	if cmd.UserID == "" || cmd.StreetAddress == "" || cmd.Country == "" {
		return FinalizedOrder{}, ErrCheckoutInvalidInput
	}
	payment, ok := domain.KnownPaymentOption(cmd.PaymentOption)
	if !ok {
		return FinalizedOrder{}, ErrCheckoutInvalidInput
	}

	unlock := s.userLocks.Lock(cmd.UserID)
	defer unlock()

	order, err := s.resolveOrder(ctx, cmd)
	if err != nil {
		return FinalizedOrder{}, err
	}
	if order.Ordered {
		return FinalizedOrder{}, ErrCheckoutAlreadyFinalized
	}
	if len(order.LineItemIDs) == 0 {
		return FinalizedOrder{}, ErrCheckoutEmptyCart
	}

	address := domain.Address{
		ID:            s.addressID(),
		UserID:        cmd.UserID,
		StreetAddress: cmd.StreetAddress,
		Country:       cmd.Country,
		Zip:           cmd.Zip,
	}
	if address, err = s.addresses.Insert(ctx, address); err != nil {
		return FinalizedOrder{}, s.translate(err)
	}

	if err := s.lines.MarkOrdered(ctx, order.LineItemIDs); err != nil {
		return FinalizedOrder{}, s.translate(err)
	}

	now := s.clock().UTC()
	order.Ordered = true
	order.OrderedDate = &now
	order.ShippingAddressID = address.ID
	order.PaymentOption = payment
	order.Status = domain.OrderStatusPlaced
	if order, err = s.orders.Update(ctx, order); err != nil {
		return FinalizedOrder{}, s.translate(err)
	}

	total, err := s.orderTotal(ctx, order)
	if err != nil {
		return FinalizedOrder{}, err
	}

	s.logger.Info("order finalized",
		zap.String("user_id", cmd.UserID),
		zap.String("order_id", order.ID),
		zap.String("ref_code", order.RefCode),
	)
	return FinalizedOrder{Order: order, Address: address, Total: total}, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID string) ([]FinalizedOrder, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrCheckoutInvalidInput
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.translate(err)
	}

	results := make([]FinalizedOrder, 0, len(orders))
	for _, order := range orders {
		finalized, err := s.hydrate(ctx, order)
		if err != nil {
			return nil, err
		}
		results = append(results, finalized)
	}
	return results, nil
}

func (s *checkoutService) GetOrder(ctx context.Context, userID, refCode string) (FinalizedOrder, error) {
	userID = strings.TrimSpace(userID)
	refCode = strings.TrimSpace(refCode)
	if userID == "" || refCode == "" {
		return FinalizedOrder{}, ErrCheckoutInvalidInput
	}

	order, err := s.orders.FindByRefCode(ctx, refCode)
	if err != nil {
		if repositories.IsNotFound(err) {
			return FinalizedOrder{}, ErrCheckoutOrderNotFound
		}
		return FinalizedOrder{}, s.translate(err)
	}
	// Orders are only addressable by their owner.
	if order.UserID != userID || !order.Ordered {
		return FinalizedOrder{}, ErrCheckoutOrderNotFound
	}
	return s.hydrate(ctx, order)
}

func (s *checkoutService) resolveOrder(ctx context.Context, cmd FinalizeCommand) (domain.Order, error) {
	if cmd.OrderID != "" {
		order, err := s.orders.FindByID(ctx, cmd.OrderID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return domain.Order{}, ErrCheckoutNoActiveOrder
			}
			return domain.Order{}, s.translate(err)
		}
		if order.UserID != cmd.UserID {
			return domain.Order{}, ErrCheckoutNoActiveOrder
		}
		return order, nil
	}

	order, err := s.orders.GetOpenByUser(ctx, cmd.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Order{}, ErrCheckoutNoActiveOrder
		}
		return domain.Order{}, s.translate(err)
	}
	return order, nil
}

func (s *checkoutService) hydrate(ctx context.Context, order domain.Order) (FinalizedOrder, error) {
	total, err := s.orderTotal(ctx, order)
	if err != nil {
		return FinalizedOrder{}, err
	}

	finalized := FinalizedOrder{Order: order, Total: total}
	if order.ShippingAddressID != "" {
		address, err := s.addresses.Get(ctx, order.UserID, order.ShippingAddressID)
		if err == nil {
			finalized.Address = address
		} else if !repositories.IsNotFound(err) {
			return FinalizedOrder{}, s.translate(err)
		}
	}
	return finalized, nil
}

func (s *checkoutService) orderTotal(ctx context.Context, order domain.Order) (int64, error) {
	lines, err := s.lines.ListByIDs(ctx, order.LineItemIDs)
	if err != nil {
		return 0, s.translate(err)
	}
	return domain.OrderTotal(lines, order.CouponAmount), nil
}

func (s *checkoutService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return ErrCheckoutOrderNotFound
	case repositories.IsConflict(err):
		return ErrCheckoutConflict
	case repositories.IsUnavailable(err):
		return ErrCheckoutUnavailable
	default:
		return err
	}
}
