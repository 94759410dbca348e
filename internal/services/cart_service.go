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
	ErrCartInvalidInput   = errors.New("cart service: invalid input")
	ErrCartNoActiveOrder  = errors.New("cart service: no active order")
	ErrCartItemNotFound   = errors.New("cart service: item not in cart")
	ErrCartUnknownItem    = errors.New("cart service: unknown catalog item")
	ErrCartCouponNotFound = errors.New("cart service: coupon not found")
	ErrCartConflict       = errors.New("cart service: conflicting update")
	ErrCartUnavailable    = errors.New("cart service: storage unavailable")
)

// CartLine is one hydrated row of the cart view.
type CartLine struct {
	LineItemID    string `json:"line_item_id"`
	ItemID        string `json:"item_id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Quantity      int64  `json:"quantity"`
	UnitPrice     int64  `json:"unit_price"`
	DiscountPrice *int64 `json:"discount_price,omitempty"`
	LineTotal     int64  `json:"line_total"`
	Savings       int64  `json:"savings"`
}

// CartView is the order header with hydrated lines and computed totals.
type CartView struct {
	OrderID    string     `json:"order_id"`
	RefCode    string     `json:"ref_code"`
	StartDate  time.Time  `json:"start_date"`
	CouponCode string     `json:"coupon_code,omitempty"`
	Lines      []CartLine `json:"lines"`
	Subtotal   int64      `json:"subtotal"`
	Discount   int64      `json:"discount"`
	Total      int64      `json:"total"`
	Saved      int64      `json:"saved"`
}

// CartService coordinates the open order and its line items. All mutations
// for one user run inside that user's critical section.
type CartService interface {
	// GetOpenOrder returns the current cart.
	GetOpenOrder(ctx context.Context, userID string) (CartView, error)
	// AddToCart adds one unit of the item, creating the open order on first
	// use. The item may be referenced by ID or slug.
	AddToCart(ctx context.Context, userID, itemRef string) (CartView, error)
	// RemoveFromCart drops the whole line for the item.
	RemoveFromCart(ctx context.Context, userID, itemID string) (CartView, error)
	// DecrementInCart removes one unit, dropping the line at zero.
	DecrementInCart(ctx context.Context, userID, itemID string) (CartView, error)
	// ApplyCoupon attaches a flat discount to the open order.
	ApplyCoupon(ctx context.Context, userID, code string) (CartView, error)
}

// CartServiceDeps bundles the cart service dependencies.
type CartServiceDeps struct {
	Catalog    repositories.CatalogRepository
	LineItems  repositories.LineItemRepository
	Orders     repositories.OrderRepository
	Ledger     LedgerService
	UserLocks  *locks.Keyed
	Clock      Clock
	IDGen      IDGenerator
	RefCodeGen IDGenerator
	Logger     *zap.Logger
}

type cartService struct {
	catalog    repositories.CatalogRepository
	lines      repositories.LineItemRepository
	orders     repositories.OrderRepository
	ledger     LedgerService
	userLocks  *locks.Keyed
	clock      Clock
	idGen      IDGenerator
	refCodeGen IDGenerator
	logger     *zap.Logger
}

// NewCartService validates deps and constructs the service.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("cart service: catalog repository is required")
	}
	if deps.LineItems == nil {
		return nil, errors.New("cart service: line item repository is required")
	}
	if deps.Orders == nil {
		return nil, errors.New("cart service: order repository is required")
	}
	if deps.Ledger == nil {
		return nil, errors.New("cart service: ledger service is required")
	}
	if deps.UserLocks == nil {
		deps.UserLocks = locks.NewKeyed()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.IDGen == nil {
		deps.IDGen = NewULIDGenerator()
	}
	if deps.RefCodeGen == nil {
		deps.RefCodeGen = NewRefCodeGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &cartService{
		catalog:    deps.Catalog,
		lines:      deps.LineItems,
		orders:     deps.Orders,
		ledger:     deps.Ledger,
		userLocks:  deps.UserLocks,
		clock:      deps.Clock,
		idGen:      deps.IDGen,
		refCodeGen: deps.RefCodeGen,
		logger:     deps.Logger,
	}, nil
}

func (s *cartService) GetOpenOrder(ctx context.Context, userID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return CartView{}, ErrCartInvalidInput
	}

	order, err := s.orders.GetOpenByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartNoActiveOrder
		}
		return CartView{}, s.translate(err)
	}
	return s.buildView(ctx, order)
}

func (s *cartService) AddToCart(ctx context.Context, userID, itemRef string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	itemRef = strings.TrimSpace(itemRef)
	if userID == "" || itemRef == "" {
		return CartView{}, ErrCartInvalidInput
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	item, err := s.resolveItem(ctx, itemRef)
	if err != nil {
		return CartView{}, err
	}

	line, created, err := s.ledger.AddOrIncrement(ctx, userID, item.ID)
	if err != nil {
		if errors.Is(err, ErrLedgerItemNotFound) {
			return CartView{}, ErrCartUnknownItem
		}
		return CartView{}, err
	}

	order, err := s.openOrCreateOrder(ctx, userID)
	if err != nil {
		return CartView{}, err
	}

	// An existing open line may predate the order, or have been detached by
	// a failed removal. Attaching is idempotent either way.
	if !order.HasLineItem(line.ID) {
		order.AttachLineItem(line.ID)
		if order, err = s.orders.Update(ctx, order); err != nil {
			return CartView{}, s.translate(err)
		}
	}

	if created {
		s.logger.Debug("cart line added",
			zap.String("user_id", userID),
			zap.String("item_id", item.ID),
		)
	}
	return s.buildView(ctx, order)
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, itemID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return CartView{}, ErrCartInvalidInput
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	order, err := s.orders.GetOpenByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartNoActiveOrder
		}
		return CartView{}, s.translate(err)
	}

	line, err := s.lines.GetOpen(ctx, userID, itemID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartItemNotFound
		}
		return CartView{}, s.translate(err)
	}

	order.DetachLineItem(line.ID)
	if order, err = s.orders.Update(ctx, order); err != nil {
		return CartView{}, s.translate(err)
	}
	if err := s.ledger.Remove(ctx, userID, itemID); err != nil {
		return CartView{}, err
	}
	return s.buildView(ctx, order)
}

func (s *cartService) DecrementInCart(ctx context.Context, userID, itemID string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	itemID = strings.TrimSpace(itemID)
	if userID == "" || itemID == "" {
		return CartView{}, ErrCartInvalidInput
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	order, err := s.orders.GetOpenByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartNoActiveOrder
		}
		return CartView{}, s.translate(err)
	}

	line, removed, err := s.ledger.DecrementOrRemove(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, ErrLedgerLineNotFound) {
			return CartView{}, ErrCartItemNotFound
		}
		return CartView{}, err
	}

	if removed {
		order.DetachLineItem(line.ID)
		if order, err = s.orders.Update(ctx, order); err != nil {
			return CartView{}, s.translate(err)
		}
	}
	return s.buildView(ctx, order)
}

func (s *cartService) ApplyCoupon(ctx context.Context, userID, code string) (CartView, error) {
	userID = strings.TrimSpace(userID)
	code = strings.TrimSpace(code)
	if userID == "" || code == "" {
		return CartView{}, ErrCartInvalidInput
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	order, err := s.orders.GetOpenByUser(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartNoActiveOrder
		}
		return CartView{}, s.translate(err)
	}

	coupon, err := s.catalog.GetCoupon(ctx, code)
	if err != nil {
		if repositories.IsNotFound(err) {
			return CartView{}, ErrCartCouponNotFound
		}
		return CartView{}, s.translate(err)
	}

	order.CouponCode = coupon.Code
	order.CouponAmount = coupon.Amount
	if order, err = s.orders.Update(ctx, order); err != nil {
		return CartView{}, s.translate(err)
	}
	return s.buildView(ctx, order)
}

// resolveItem accepts either an item ID or a slug.
func (s *cartService) resolveItem(ctx context.Context, ref string) (domain.Item, error) {
	item, err := s.catalog.GetItem(ctx, ref)
	if err == nil {
		return item, nil
	}
	if !repositories.IsNotFound(err) {
		return domain.Item{}, s.translate(err)
	}

	item, err = s.catalog.GetItemBySlug(ctx, ref)
	if err != nil {
		if repositories.IsNotFound(err) {
			return domain.Item{}, ErrCartUnknownItem
		}
		return domain.Item{}, s.translate(err)
	}
	return item, nil
}

func (s *cartService) openOrCreateOrder(ctx context.Context, userID string) (domain.Order, error) {
	order, err := s.orders.GetOpenByUser(ctx, userID)
	if err == nil {
		return order, nil
	}
	if !repositories.IsNotFound(err) {
		return domain.Order{}, s.translate(err)
	}

	order = domain.Order{
		ID:        s.idGen(),
		UserID:    userID,
		RefCode:   s.refCodeGen(),
		StartDate: s.clock().UTC(),
		Status:    domain.OrderStatusOpen,
	}
	created, err := s.orders.Insert(ctx, order)
	if err != nil {
		// Lost a race against another writer; the open order now exists.
		if repositories.IsConflict(err) {
			return s.orders.GetOpenByUser(ctx, userID)
		}
		return domain.Order{}, s.translate(err)
	}
	s.logger.Info("order opened",
		zap.String("user_id", userID),
		zap.String("order_id", created.ID),
	)
	return created, nil
}

func (s *cartService) buildView(ctx context.Context, order domain.Order) (CartView, error) {
	lines, err := s.lines.ListByIDs(ctx, order.LineItemIDs)
	if err != nil {
		return CartView{}, s.translate(err)
	}

	view := CartView{
		OrderID:    order.ID,
		RefCode:    order.RefCode,
		StartDate:  order.StartDate,
		CouponCode: order.CouponCode,
		Discount:   order.CouponAmount,
		Lines:      make([]CartLine, 0, len(lines)),
	}

	for _, line := range lines {
		cartLine := CartLine{
			LineItemID:    line.ID,
			ItemID:        line.ItemID,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice,
			DiscountPrice: line.DiscountPrice,
			LineTotal:     line.LinePrice(),
			Savings:       line.LineSavings(),
		}
		if item, err := s.catalog.GetItem(ctx, line.ItemID); err == nil {
			cartLine.Title = item.Title
			cartLine.Slug = item.Slug
		} else if !repositories.IsNotFound(err) {
			return CartView{}, s.translate(err)
		}
		view.Lines = append(view.Lines, cartLine)
		view.Subtotal += cartLine.LineTotal
		view.Saved += cartLine.Savings
	}

	view.Total = domain.OrderTotal(lines, order.CouponAmount)
	return view, nil
}

func (s *cartService) translate(err error) error {
	switch {
	case repositories.IsNotFound(err):
		return ErrCartNoActiveOrder
	case repositories.IsConflict(err):
		return ErrCartConflict
	case repositories.IsUnavailable(err):
		return ErrCartUnavailable
	default:
		return err
	}
}
