package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
	"github.com/bookhavenapp/bookhaven-backend/pkg/validate"
)

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Store    snapshot.Store
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.CheckoutMetrics
}

// Service holds the authenticated user, at most one at a time. Credential
// verification happens upstream; Login only records the outcome.
type Service interface {
	Login(ctx context.Context, user types.User) (types.User, error)
	Logout(ctx context.Context)
	Current() (types.User, bool)
	Restore(ctx context.Context) error
}

type service struct {
	mu     sync.RWMutex
	user   types.User
	active bool

	store    snapshot.Store
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.CheckoutMetrics
}

// NewService builds a session holder with no user.
func NewService(params ServiceParams) (Service, error) {
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
		store:    params.Store,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Login records the user as the session identity, replacing any previous one,
// and persists the user snapshot. A missing id is filled in.
func (s *service) Login(ctx context.Context, user types.User) (types.User, error) {
	if err := validate.Struct(&user); err != nil {
		return types.User{}, err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	s.mu.Lock()
	s.user = user
	s.active = true
	s.mu.Unlock()

	s.persist(ctx)
	s.notifier.Notify(ctx, notify.Success("Welcome back", "You are now signed in."))
	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "session started")
	return user, nil
}

// Logout clears the session identity and deletes the user snapshot. Logging
// out without a user is a no-op.
func (s *service) Logout(ctx context.Context) {
	s.mu.Lock()
	wasActive := s.active
	s.user = types.User{}
	s.active = false
	s.mu.Unlock()

	if !wasActive {
		return
	}
	if err := s.store.Delete(ctx, snapshot.KindUser); err != nil {
		s.logg.Error(ctx, "delete user snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindUser.String())
	}
	s.notifier.Notify(ctx, notify.Success("Signed out", "You have been signed out."))
}

// Current returns the session user, if any.
func (s *service) Current() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.active
}

// Restore loads the persisted user, staying signed out on absence or a
// malformed snapshot.
func (s *service) Restore(ctx context.Context) error {
	data, ok, err := s.store.Load(ctx, snapshot.KindUser)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user snapshot")
	}
	if !ok {
		return nil
	}

	var stored types.User
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logg.Warn(ctx, "user snapshot is malformed; starting signed out")
		return nil
	}

	s.mu.Lock()
	s.user = stored
	s.active = true
	s.mu.Unlock()
	return nil
}

func (s *service) persist(ctx context.Context) {
	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()

	data, err := json.Marshal(user)
	if err != nil {
		s.logg.Error(ctx, "marshal user snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindUser.String())
		return
	}
	if err := s.store.Save(ctx, snapshot.KindUser, data); err != nil {
		s.logg.Error(ctx, "save user snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindUser.String())
	}
}
