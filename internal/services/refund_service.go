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
	ErrRefundInvalidInput     = errors.New("refund service: invalid input")
	ErrRefundOrderNotFound    = errors.New("refund service: order not found")
	ErrRefundAlreadyProcessed = errors.New("refund service: refund already processed")
	ErrRefundNotRequested     = errors.New("refund service: refund not requested")
	ErrRefundUnavailable      = errors.New("refund service: storage unavailable")
)

// RequestRefundCommand carries the refund request form.
type RequestRefundCommand struct {
	RefCode string
	Reason  string
	Email   string
}

// RefundService handles refund requests against finalized orders. An order
// accepts exactly one refund request for its lifetime.
type RefundService interface {
	RequestRefund(ctx context.Context, cmd RequestRefundCommand) (domain.Refund, error)
	// AcceptRefund grants a previously requested refund.
	AcceptRefund(ctx context.Context, refCode string) (domain.Refund, error)
}

// RefundServiceDeps bundles the refund service dependencies.
type RefundServiceDeps struct {
	Orders     repositories.OrderRepository
	Refunds    repositories.RefundRepository
	OrderLocks *locks.Keyed
	Clock      Clock
	IDGen      IDGenerator
	Logger     *zap.Logger
}

type refundService struct {
	orders     repositories.OrderRepository
	refunds    repositories.RefundRepository
	orderLocks *locks.Keyed
	clock      Clock
	idGen      IDGenerator
	logger     *zap.Logger
}

// NewRefundService validates deps and constructs the service.
func NewRefundService(deps RefundServiceDeps) (RefundService, error) {
	if deps.Orders == nil {
		return nil, errors.New("refund service: order repository is required")
	}
	if deps.Refunds == nil {
		return nil, errors.New("refund service: refund repository is required")
	}
	if deps.OrderLocks == nil {
		deps.OrderLocks = locks.NewKeyed()
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
	return &refundService{
		orders:     deps.Orders,
		refunds:    deps.Refunds,
		orderLocks: deps.OrderLocks,
		clock:      deps.Clock,
		idGen:      deps.IDGen,
		logger:     deps.Logger,
	}, nil
}

func (s *refundService) RequestRefund(ctx context.Context, cmd RequestRefundCommand) (domain.Refund, error) {
	cmd.RefCode = strings.TrimSpace(cmd.RefCode)
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	cmd.Email = strings.TrimSpace(cmd.Email)
	if cmd.RefCode == "" || cmd.Reason == "" || cmd.Email == "" {
		return domain.Refund{}, ErrRefundInvalidInput
	}

	order, err := s.orders.FindByRefCode(ctx, cmd.RefCode)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Refund{}, ErrRefundOrderNotFound
		}
		return domain.Refund{}, s.translate(err)
	}
	// Open carts have no ref-code facing surface; only finalized orders
	// qualify.
	if !order.Ordered {
		return domain.Refund{}, ErrRefundOrderNotFound
	}

	unlock := s.orderLocks.Lock(order.ID)
	defer unlock()

	// Re-read under the lock so concurrent requests observe the flag.
	if order, err = s.orders.FindByID(ctx, order.ID); err != nil {
		return domain.Refund{}, s.translate(err)
	}
	if order.RefundRequested || order.RefundGranted {
		return domain.Refund{}, ErrRefundAlreadyProcessed
	}

	refund := domain.Refund{
		ID:        s.idGen(),
		OrderID:   order.ID,
		Reason:    cmd.Reason,
		Email:     cmd.Email,
		CreatedAt: s.clock().UTC(),
	}
	if refund, err = s.refunds.Insert(ctx, refund); err != nil {
		if repositories.IsConflict(err) {
			return domain.Refund{}, ErrRefundAlreadyProcessed
		}
		return domain.Refund{}, s.translate(err)
	}

	order.RefundRequested = true
	order.Status = domain.OrderStatusRefundOpen
	if _, err = s.orders.Update(ctx, order); err != nil {
		return domain.Refund{}, s.translate(err)
	}

	s.logger.Info("refund requested",
		zap.String("order_id", order.ID),
		zap.String("ref_code", order.RefCode),
	)
	return refund, nil
}

func (s *refundService) AcceptRefund(ctx context.Context, refCode string) (domain.Refund, error) {
	refCode = strings.TrimSpace(refCode)
	if refCode == "" {
		return domain.Refund{}, ErrRefundInvalidInput
	}

	order, err := s.orders.FindByRefCode(ctx, refCode)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Refund{}, ErrRefundOrderNotFound
		}
		return domain.Refund{}, s.translate(err)
	}

	unlock := s.orderLocks.Lock(order.ID)
	defer unlock()

	if order, err = s.orders.FindByID(ctx, order.ID); err != nil {
		return domain.Refund{}, s.translate(err)
	}
	if !order.RefundRequested {
		return domain.Refund{}, ErrRefundNotRequested
	}
	if order.RefundGranted {
		return domain.Refund{}, ErrRefundAlreadyProcessed
	}

	refund, err := s.refunds.FindByOrder(ctx, order.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Refund{}, ErrRefundNotRequested
		}
		return domain.Refund{}, s.translate(err)
	}

	order.RefundGranted = true
	order.Status = domain.OrderStatusRefunded
	if _, err = s.orders.Update(ctx, order); err != nil {
		return domain.Refund{}, s.translate(err)
	}

	refund.Accepted = true
	if refund, err = s.refunds.Update(ctx, refund); err != nil {
		return domain.Refund{}, s.translate(err)
	}

	s.logger.Info("refund granted",
		zap.String("order_id", order.ID),
		zap.String("ref_code", order.RefCode),
	)
	return refund, nil
}

func (s *refundService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return ErrRefundOrderNotFound
	case repositories.IsUnavailable(err):
		return ErrRefundUnavailable
	default:
		return err
	}
}
