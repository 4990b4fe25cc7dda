// Package app assembles the bookstore state core: catalog, cart, orders and
// session over a single snapshot store. The aggregate is the explicit owner of
// all application state; nothing below it holds globals.
package app

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/bookhavenapp/bookhaven-backend/internal/cart"
	"github.com/bookhavenapp/bookhaven-backend/internal/catalog"
	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	"github.com/bookhavenapp/bookhaven-backend/internal/orders"
	"github.com/bookhavenapp/bookhaven-backend/internal/session"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
)

// Params groups the shared dependencies of the state core.
type Params struct {
	Store    snapshot.Store
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics

	CartDelay  time.Duration
	OrderDelay time.Duration
}

// State is the assembled application state.
type State struct {
	Catalog catalog.Service
	Cart    cart.Service
	Orders  orders.Service
	Session session.Service

	logg *logger.Logger
}

// New wires the four services over the shared store and notifier.
func New(params Params) (*State, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.Notifier == nil {
		params.Notifier = notify.NewLogNotifier(params.Logger)
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Store:   params.Store,
		Logger:  params.Logger,
		Metrics: params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	sessionSvc, err := session.NewService(session.ServiceParams{
		Store:    params.Store,
		Notifier: params.Notifier,
		Logger:   params.Logger,
		Metrics:  params.Metrics,
	})
	if err != nil {
		return nil, err
	}

	cartSvc, err := cart.NewService(cart.ServiceParams{
		Catalog:  catalogSvc,
		Store:    params.Store,
		Notifier: params.Notifier,
		Logger:   params.Logger,
		Metrics:  params.Metrics,
		Delay:    params.CartDelay,
	})
	if err != nil {
		return nil, err
	}

	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Session:  sessionSvc,
		Store:    params.Store,
		Notifier: params.Notifier,
		Logger:   params.Logger,
		Metrics:  params.Metrics,
		Delay:    params.OrderDelay,
	})
	if err != nil {
		return nil, err
	}

	return &State{
		Catalog: catalogSvc,
		Cart:    cartSvc,
		Orders:  ordersSvc,
		Session: sessionSvc,
		logg:    params.Logger,
	}, nil
}

// Restore loads every snapshot slot. A failing slot is logged and reported
// but never stops the others; each service keeps its default on failure.
func (s *State) Restore(ctx context.Context) error {
	var errs error

	if err := s.Catalog.Restore(ctx); err != nil {
		s.logg.Error(ctx, "restore catalog", err)
		errs = multierr.Append(errs, err)
	}
	if err := s.Session.Restore(ctx); err != nil {
		s.logg.Error(ctx, "restore session", err)
		errs = multierr.Append(errs, err)
	}
	if err := s.Cart.Restore(ctx); err != nil {
		s.logg.Error(ctx, "restore cart", err)
		errs = multierr.Append(errs, err)
	}
	if err := s.Orders.Restore(ctx); err != nil {
		s.logg.Error(ctx, "restore orders", err)
		errs = multierr.Append(errs, err)
	}

	return errs
}
