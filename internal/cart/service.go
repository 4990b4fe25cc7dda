package cart

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

// catalogLookup is the slice of the catalog service the cart needs.
type catalogLookup interface {
	FindByID(id uuid.UUID) (types.Book, bool)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Catalog  catalogLookup
	Store    snapshot.Store
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics

	// Delay emulates the network round-trip on Add. Zero is valid; the
	// Busy signal is the contract, not the wait itself.
	Delay time.Duration
}

// Service manages the session cart.
type Service interface {
	Add(ctx context.Context, bookID uuid.UUID, quantity int) error
	Remove(ctx context.Context, bookID uuid.UUID)
	UpdateQuantity(ctx context.Context, bookID uuid.UUID, quantity int)
	Clear(ctx context.Context)
	Items() []types.CartItem
	Total() decimal.Decimal
	Busy() bool
	Restore(ctx context.Context) error
}

type service struct {
	mu    sync.RWMutex
	items []types.CartItem
	busy  atomic.Bool

	catalog  catalogLookup
	store    snapshot.Store
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
	delay    time.Duration
}

// NewService builds an empty cart bound to the catalog and snapshot store.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog lookup is required")
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
	return &service{
		catalog:  params.Catalog,
		store:    params.Store,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		delay:    params.Delay,
	}, nil
}

// Add merges the quantity into an existing line for the book or appends a new
// one. Quantities below one count as one. The call holds the busy flag for
// the configured delay before mutating, emulating a pending network call.
func (s *service) Add(ctx context.Context, bookID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.busy.Store(true)
	defer s.busy.Store(false)

	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].BookID == bookID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, types.CartItem{BookID: bookID, Quantity: quantity})
	}
	s.mu.Unlock()

	s.metrics.IncCartOp("add")
	s.persist(ctx)
	s.notifier.Notify(ctx, notify.Success("Added to cart", "Book has been added to your cart."))
	return nil
}

// Remove drops the line for the book. A missing line is a no-op, not an error.
func (s *service) Remove(ctx context.Context, bookID uuid.UUID) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	s.metrics.IncCartOp("remove")
	s.persist(ctx)
	s.notifier.Notify(ctx, notify.Success("Removed from cart", "Book has been removed from your cart."))
}

// UpdateQuantity replaces the stored quantity for the book's line. Quantities
// of zero or less are equivalent to removal.
func (s *service) UpdateQuantity(ctx context.Context, bookID uuid.UUID, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, bookID)
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].BookID == bookID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	s.metrics.IncCartOp("update")
	s.persist(ctx)
}

// Clear empties the cart and persists the empty state.
func (s *service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.metrics.IncCartOp("clear")
	s.persist(ctx)
}

// Items returns a copy of the current cart lines.
func (s *service) Items() []types.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.CloneItems(s.items)
}

// Total sums catalog price times quantity over the cart. Lines whose book no
// longer resolves contribute zero.
func (s *service) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		book, ok := s.catalog.FindByID(item.BookID)
		if !ok {
			continue
		}
		total = total.Add(book.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Busy reports whether an Add is still inside its simulated round-trip.
func (s *service) Busy() bool {
	return s.busy.Load()
}

// Restore loads the persisted cart, falling back to empty on absence or a
// malformed snapshot.
func (s *service) Restore(ctx context.Context) error {
	data, ok, err := s.store.Load(ctx, snapshot.KindCart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	if !ok {
		return nil
	}

	var stored []types.CartItem
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logg.Warn(ctx, "cart snapshot is malformed; starting with an empty cart")
		return nil
	}

	s.mu.Lock()
	s.items = stored
	s.mu.Unlock()
	return nil
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

func (s *service) persist(ctx context.Context) {
	s.mu.RLock()
	items := types.CloneItems(s.items)
	s.mu.RUnlock()
	if items == nil {
		items = []types.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logg.Error(ctx, "marshal cart snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindCart.String())
		return
	}
	if err := s.store.Save(ctx, snapshot.KindCart, data); err != nil {
		s.logg.Error(ctx, "save cart snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindCart.String())
	}
}
