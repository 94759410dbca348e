package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tstore/storefront/internal/platform/httpx"
	"github.com/tstore/storefront/internal/platform/requestctx"
	"github.com/tstore/storefront/internal/services"
)

// writeServiceError maps service sentinels onto the JSON error envelope.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httpx.WriteError(ctx, w, serviceError(ctx, err))
}

func serviceError(ctx context.Context, err error) httpx.Error {
	switch {
	case errors.Is(err, services.ErrCartInvalidInput),
		errors.Is(err, services.ErrLedgerInvalidInput),
		errors.Is(err, services.ErrCheckoutInvalidInput),
		errors.Is(err, services.ErrCouponInvalidInput),
		errors.Is(err, services.ErrRefundInvalidInput),
		errors.Is(err, services.ErrCatalogInvalidInput):
		return httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest)

	case errors.Is(err, services.ErrCheckoutEmptyCart):
		return httpx.NewError("empty_cart", "cannot finalize an empty cart", http.StatusBadRequest)

	case errors.Is(err, services.ErrCartNoActiveOrder),
		errors.Is(err, services.ErrCheckoutNoActiveOrder):
		return httpx.NewError("no_active_order", "you do not have an active order", http.StatusNotFound)

	case errors.Is(err, services.ErrCartUnknownItem),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrLedgerItemNotFound),
		errors.Is(err, services.ErrLedgerLineNotFound),
		errors.Is(err, services.ErrCartCouponNotFound),
		errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, services.ErrCheckoutOrderNotFound),
		errors.Is(err, services.ErrRefundOrderNotFound),
		errors.Is(err, services.ErrCatalogNotFound):
		return httpx.NewError("not_found", err.Error(), http.StatusNotFound)

	case errors.Is(err, services.ErrCheckoutAlreadyFinalized):
		return httpx.NewError("order_already_finalized", "this order was already finalized", http.StatusConflict)

	case errors.Is(err, services.ErrRefundAlreadyProcessed):
		return httpx.NewError("refund_already_processed", "a refund was already requested for this order", http.StatusConflict)

	case errors.Is(err, services.ErrRefundNotRequested):
		return httpx.NewError("refund_not_requested", "no refund was requested for this order", http.StatusConflict)

	case errors.Is(err, services.ErrCartConflict),
		errors.Is(err, services.ErrLedgerConflict),
		errors.Is(err, services.ErrCheckoutConflict):
		return httpx.NewError("conflict", "the request conflicted with another update", http.StatusConflict)

	case errors.Is(err, services.ErrCartUnavailable),
		errors.Is(err, services.ErrLedgerUnavailable),
		errors.Is(err, services.ErrCheckoutUnavailable),
		errors.Is(err, services.ErrCouponUnavailable),
		errors.Is(err, services.ErrRefundUnavailable),
		errors.Is(err, services.ErrCatalogUnavailable):
		return httpx.NewError("unavailable", "storage is temporarily unavailable", http.StatusServiceUnavailable)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return httpx.NewError("timeout", "the request was cancelled", http.StatusServiceUnavailable)

	default:
		requestctx.Logger(ctx).Error("unhandled service error", zap.Error(err))
		return httpx.NewError("internal", "an internal error occurred", http.StatusInternalServerError)
	}
}
