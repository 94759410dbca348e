package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tstore/storefront/internal/handlers"
	"github.com/tstore/storefront/internal/platform/auth"
	"github.com/tstore/storefront/internal/platform/config"
	fsplatform "github.com/tstore/storefront/internal/platform/firestore"
	"github.com/tstore/storefront/internal/platform/locks"
	"github.com/tstore/storefront/internal/platform/observability"
	"github.com/tstore/storefront/internal/repositories"
	boltrepo "github.com/tstore/storefront/internal/repositories/bolt"
	fsrepo "github.com/tstore/storefront/internal/repositories/firestore"
	"github.com/tstore/storefront/internal/repositories/memory"
	"github.com/tstore/storefront/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "storefront-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer backend.close()

	userLocks := locks.NewKeyed()

	ledger, err := services.NewLedgerService(services.LedgerServiceDeps{
		Catalog:   backend.catalog,
		LineItems: backend.lineItems,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	cart, err := services.NewCartService(services.CartServiceDeps{
		Catalog:   backend.catalog,
		LineItems: backend.lineItems,
		Orders:    backend.orders,
		Ledger:    ledger,
		UserLocks: userLocks,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	checkout, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Orders:    backend.orders,
		LineItems: backend.lineItems,
		Addresses: backend.addresses,
		UserLocks: userLocks,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	coupon, err := services.NewCouponService(services.CouponServiceDeps{Catalog: backend.catalog})
	if err != nil {
		return err
	}
	refund, err := services.NewRefundService(services.RefundServiceDeps{
		Orders:  backend.orders,
		Refunds: backend.refunds,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{Catalog: backend.catalog})
	if err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return err
	}

	router, err := handlers.NewRouter(handlers.Deps{
		Logger:    logger,
		Verifier:  verifier,
		Catalog:   catalog,
		Cart:      cart,
		Checkout:  checkout,
		Coupons:   coupon,
		Refunds:   refund,
		ProjectID: cfg.Firestore.ProjectID,
		Ready:     backend.ready,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("store_driver", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// backend bundles the selected storage driver behind the repository
// interfaces.
type backend struct {
	catalog   repositories.CatalogRepository
	lineItems repositories.LineItemRepository
	orders    repositories.OrderRepository
	addresses repositories.AddressRepository
	refunds   repositories.RefundRepository
	ready     func() error
	close     func()
}

func buildBackend(cfg config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case "firestore":
		provider := fsplatform.NewProvider(cfg.Firestore)
		repos, err := fsrepo.New(provider)
		if err != nil {
			return nil, err
		}
		return &backend{
			catalog:   repos.Catalog,
			lineItems: repos.LineItems,
			orders:    repos.Orders,
			addresses: repos.Addresses,
			refunds:   repos.Refunds,
			ready: func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_, err := provider.Client(ctx)
				return err
			},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := provider.Close(ctx); err != nil {
					logger.Warn("close firestore provider", zap.Error(err))
				}
			},
		}, nil

	case "bolt":
		store, err := boltrepo.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Catalog.SeedFile != "" {
			if err := store.LoadSeedFile(cfg.Catalog.SeedFile); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return &backend{
			catalog:   store.Catalog(),
			lineItems: store.LineItems(),
			orders:    store.Orders(),
			addresses: store.Addresses(),
			refunds:   store.Refunds(),
			ready:     func() error { return nil },
			close: func() {
				if err := store.Close(); err != nil {
					logger.Warn("close bolt store", zap.Error(err))
				}
			},
		}, nil

	case "memory":
		store := memory.NewStore()
		if cfg.Catalog.SeedFile != "" {
			if err := store.LoadSeedFile(cfg.Catalog.SeedFile); err != nil {
				return nil, err
			}
		}
		return &backend{
			catalog:   store.Catalog(),
			lineItems: store.LineItems(),
			orders:    store.Orders(),
			addresses: store.Addresses(),
			refunds:   store.Refunds(),
			ready:     func() error { return nil },
			close:     func() {},
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
