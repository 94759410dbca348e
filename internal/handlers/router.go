package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tstore/storefront/internal/platform/auth"
	"github.com/tstore/storefront/internal/platform/httpx"
	"github.com/tstore/storefront/internal/platform/observability"
	"github.com/tstore/storefront/internal/services"
)

const defaultRequestTimeout = 30 * time.Second

// Deps bundles everything the router needs.
type Deps struct {
	Logger    *zap.Logger
	Verifier  *auth.Verifier
	Catalog   services.CatalogService
	Cart      services.CartService
	Checkout  services.CheckoutService
	Coupons   services.CouponService
	Refunds   services.RefundService
	ProjectID string
	// Ready reports backend readiness for the readiness probe.
	Ready func() error
}

// NewRouter validates deps and assembles the HTTP API.
func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Verifier == nil {
		return nil, errors.New("handlers: verifier is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("handlers: catalog service is required")
	}
	if deps.Cart == nil {
		return nil, errors.New("handlers: cart service is required")
	}
	if deps.Checkout == nil {
		return nil, errors.New("handlers: checkout service is required")
	}
	if deps.Coupons == nil {
		return nil, errors.New("handlers: coupon service is required")
	}
	if deps.Refunds == nil {
		return nil, errors.New("handlers: refund service is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	catalogHandler := &catalogHandler{catalog: deps.Catalog, coupons: deps.Coupons}
	cartHandler := &cartHandler{cart: deps.Cart}
	checkoutHandler := &checkoutHandler{checkout: deps.Checkout}
	ordersHandler := &ordersHandler{checkout: deps.Checkout}
	refundsHandler := &refundsHandler{refunds: deps.Refunds}
	healthHandler := &healthHandler{ready: deps.Ready}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TraceMiddleware(deps.ProjectID))
	r.Use(observability.InjectLoggerMiddleware(deps.Logger))
	r.Use(observability.RequestLoggerMiddleware(deps.ProjectID))
	r.Use(observability.RecoveryMiddleware(deps.Logger))
	r.Use(middleware.Timeout(defaultRequestTimeout))

	r.Get("/healthz", healthHandler.live)
	r.Get("/readyz", healthHandler.readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/public", func(r chi.Router) {
			r.Get("/items", catalogHandler.listItems)
			r.Get("/items/{slug}", catalogHandler.getItem)
			r.Get("/categories", catalogHandler.listCategories)
			r.Get("/coupons/{code}", catalogHandler.getCoupon)
		})

		r.Post("/refunds", refundsHandler.request)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(deps.Verifier))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.get)
				r.Post("/items", cartHandler.addItem)
				r.Delete("/items/{itemID}", cartHandler.removeItem)
				r.Post("/items/{itemID}/decrement", cartHandler.decrementItem)
				r.Post("/coupon", cartHandler.applyCoupon)
			})

			r.Post("/checkout", checkoutHandler.finalize)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordersHandler.list)
				r.Get("/{refCode}", ordersHandler.get)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
	})

	return r, nil
}
