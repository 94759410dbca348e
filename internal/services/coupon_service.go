package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tstore/storefront/internal/domain"
	"github.com/tstore/storefront/internal/repositories"
)

var (
	ErrCouponInvalidInput = errors.New("coupon service: invalid input")
	ErrCouponNotFound     = errors.New("coupon service: coupon not found")
	ErrCouponUnavailable  = errors.New("coupon service: storage unavailable")
)

// CouponService resolves coupon codes to their flat discount amount. Lookup
// is exact match; there is no expiry or usage tracking.
type CouponService interface {
	Resolve(ctx context.Context, code string) (domain.Coupon, error)
}

// CouponServiceDeps bundles the coupon service dependencies.
type CouponServiceDeps struct {
	Catalog repositories.CatalogRepository
}

type couponService struct {
	catalog repositories.CatalogRepository
}

// NewCouponService validates deps and constructs the service.
func NewCouponService(deps CouponServiceDeps) (CouponService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("coupon service: catalog repository is required")
	}
	return &couponService{catalog: deps.Catalog}, nil
}

func (s *couponService) Resolve(ctx context.Context, code string) (domain.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Coupon{}, ErrCouponInvalidInput
	}

	coupon, err := s.catalog.GetCoupon(ctx, code)
	if err != nil {
		switch {
		case repositories.IsNotFound(err):
			return domain.Coupon{}, ErrCouponNotFound
		case repositories.IsUnavailable(err):
			return domain.Coupon{}, ErrCouponUnavailable
		default:
			return domain.Coupon{}, err
		}
	}
	return coupon, nil
}
