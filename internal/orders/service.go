package orders

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	"github.com/bookhavenapp/bookhaven-backend/pkg/enums"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
	"github.com/bookhavenapp/bookhaven-backend/pkg/validate"
)

var (
	shippingFee = decimal.NewFromInt(5)
	taxRate     = decimal.RequireFromString("0.07")
)

const deliveryWindow = 5 * 24 * time.Hour

type catalogLookup interface {
	FindByID(id uuid.UUID) (types.Book, bool)
}

type cartAccess interface {
	Items() []types.CartItem
	Clear(ctx context.Context)
}

type sessionAccess interface {
	Current() (types.User, bool)
}

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Catalog  catalogLookup
	Cart     cartAccess
	Session  sessionAccess
	Store    snapshot.Store
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics

	// Delay emulates payment processing on Create. Zero is valid.
	Delay time.Duration
	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Service manages placed orders.
type Service interface {
	Create(ctx context.Context, items []types.CartItem, shipping *types.ShippingDetails) (types.Order, error)
	PurchaseBooks(ctx context.Context) (string, error)
	AdvanceStatus(ctx context.Context, orderID uuid.UUID) (types.Order, error)
	Orders() []types.Order
	FindByID(orderID uuid.UUID) (types.Order, bool)
	Busy() bool
	Restore(ctx context.Context) error
}

type service struct {
	mu     sync.RWMutex
	orders []types.Order
	busy   atomic.Bool

	catalog  catalogLookup
	cart     cartAccess
	session  sessionAccess
	store    snapshot.Store
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	delay    time.Duration
	now      func() time.Time
}

// NewService builds an order service with no history.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog lookup is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart access is required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session access is required")
	}
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		catalog:  params.Catalog,
		cart:     params.Cart,
		session:  params.Session,
		store:    params.Store,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		delay:    params.Delay,
		now:      params.Now,
	}, nil
}

// Create places an order for the given items. It requires an authenticated
// session user and a non-empty item list, and freezes a copy of the items and
// their current catalog prices into the order. The total is the item total
// plus a flat 5.00 shipping fee plus 7% tax on the items.
func (s *service) Create(ctx context.Context, items []types.CartItem, shipping *types.ShippingDetails) (types.Order, error) {
	user, ok := s.session.Current()
	if !ok {
		return types.Order{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeUnauthenticated, "no session user"))
	}
	if len(items) == 0 {
		return types.Order{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeEmptyOrder, "order has no items"))
	}
	if shipping != nil {
		if err := validate.Struct(shipping); err != nil {
			return types.Order{}, s.reject(ctx, err)
		}
	}

	s.busy.Store(true)
	defer s.busy.Store(false)
	if err := s.wait(ctx); err != nil {
		return types.Order{}, err
	}

	itemsTotal := decimal.Zero
	for _, item := range items {
		book, found := s.catalog.FindByID(item.BookID)
		if !found {
			continue
		}
		itemsTotal = itemsTotal.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total := itemsTotal.Add(shippingFee).Add(itemsTotal.Mul(taxRate))

	createdAt := s.now()
	order := types.Order{
		ID:                uuid.New(),
		UserID:            user.ID,
		Items:             types.CloneItems(items),
		Total:             total,
		Status:            enums.OrderStatusPending,
		CreatedAt:         createdAt,
		EstimatedDelivery: createdAt.Add(deliveryWindow),
	}
	if shipping != nil {
		copied := *shipping
		order.ShippingDetails = &copied
	}

	s.mu.Lock()
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	s.metrics.IncOrderPlaced()
	s.persist(ctx)
	s.notifier.Notify(ctx, notify.Success("Order placed", "Your order has been placed successfully."))
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order created")
	return order, nil
}

// PurchaseBooks is the forgiving checkout path: it orders the current cart
// contents and clears the cart on success. A missing user or an empty cart
// yields an empty id and a nil error; the notification already told the user.
func (s *service) PurchaseBooks(ctx context.Context) (string, error) {
	order, err := s.Create(ctx, s.cart.Items(), nil)
	if err != nil {
		switch pkgerrors.CodeOf(err) {
		case pkgerrors.CodeUnauthenticated, pkgerrors.CodeEmptyOrder:
			return "", nil
		}
		return "", err
	}

	s.cart.Clear(ctx)
	return order.ID.String(), nil
}

// AdvanceStatus moves the order one step along the fulfillment pipeline and
// persists the result.
func (s *service) AdvanceStatus(ctx context.Context, orderID uuid.UUID) (types.Order, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return types.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found").
			WithDetails(map[string]string{"order_id": orderID.String()})
	}
	next, ok := s.orders[idx].Status.Next()
	if !ok {
		status := s.orders[idx].Status
		s.mu.Unlock()
		return types.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already "+status.String())
	}
	s.orders[idx].Status = next
	order := s.orders[idx]
	s.mu.Unlock()

	s.persist(ctx)
	return order, nil
}

// Orders returns a copy of the order history, oldest first.
func (s *service) Orders() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneLocked()
}

// FindByID returns the order with the given id.
func (s *service) FindByID(orderID uuid.UUID) (types.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.orders {
		if order.ID == orderID {
			return order, true
		}
	}
	return types.Order{}, false
}

// Busy reports whether a Create is still inside its simulated processing
// window.
func (s *service) Busy() bool {
	return s.busy.Load()
}

// Restore loads the persisted order history, falling back to empty on absence
// or a malformed snapshot.
func (s *service) Restore(ctx context.Context) error {
	data, ok, err := s.store.Load(ctx, snapshot.KindOrders)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders snapshot")
	}
	if !ok {
		return nil
	}

	var stored []types.Order
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logg.Warn(ctx, "orders snapshot is malformed; starting with an empty history")
		return nil
	}

	s.mu.Lock()
	s.orders = stored
	s.mu.Unlock()
	return nil
}

// reject records the failure and hands the caller a coded error.
func (s *service) reject(ctx context.Context, err error) error {
	s.metrics.IncOrderFailure(string(pkgerrors.CodeOf(err)))
	s.notifier.Notify(ctx, notify.FromError("Checkout failed", err))
	return err
}

func (s *service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *service) cloneLocked() []types.Order {
	cloned := make([]types.Order, len(s.orders))
	copy(cloned, s.orders)
	for i := range cloned {
		cloned[i].Items = types.CloneItems(cloned[i].Items)
	}
	return cloned
}

func (s *service) persist(ctx context.Context) {
	s.mu.RLock()
	orders := s.cloneLocked()
	s.mu.RUnlock()

	data, err := json.Marshal(orders)
	if err != nil {
		s.logg.Error(ctx, "marshal orders snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindOrders.String())
		return
	}
	if err := s.store.Save(ctx, snapshot.KindOrders, data); err != nil {
		s.logg.Error(ctx, "save orders snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindOrders.String())
	}
}
