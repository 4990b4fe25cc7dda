package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bookhavenapp/bookhaven-backend/internal/catalog"
	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	"github.com/bookhavenapp/bookhaven-backend/pkg/enums"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

func newState(t *testing.T, store snapshot.Store) *State {
	t.Helper()
	state, err := New(Params{
		Store:    store,
		Notifier: &notify.Recorder{},
		Logger:   logger.New(logger.Options{ServiceName: "app-test"}),
	})
	require.NoError(t, err)
	return state
}

func TestPurchaseFlowSurvivesRestart(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	state := newState(t, store)
	_, err := state.Session.Login(ctx, types.User{Name: "Nick", Email: "nick@example.com"})
	require.NoError(t, err)

	gatsby := catalog.Seed()[0]
	require.NoError(t, state.Cart.Add(ctx, gatsby.ID, 2))

	orderID, err := state.Orders.PurchaseBooks(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, orderID)
	require.Empty(t, state.Cart.Items())

	// a fresh state over the same store sees the same world
	restarted := newState(t, store)
	require.NoError(t, restarted.Restore(ctx))

	current, ok := restarted.Session.Current()
	require.True(t, ok)
	require.Equal(t, "Nick", current.Name)
	require.Empty(t, restarted.Cart.Items())

	history := restarted.Orders.Orders()
	require.Len(t, history, 1)
	require.Equal(t, orderID, history[0].ID.String())
	require.True(t, history[0].Total.Equal(decimal.RequireFromString("32.7986")))
	require.Equal(t, enums.OrderStatusPending, history[0].Status)
}

func TestRestoreOnEmptyStoreKeepsDefaults(t *testing.T) {
	state := newState(t, snapshot.NewMemoryStore())
	require.NoError(t, state.Restore(context.Background()))

	require.Len(t, state.Catalog.Books(), len(catalog.Seed()))
	require.Empty(t, state.Cart.Items())
	require.Empty(t, state.Orders.Orders())
	_, ok := state.Session.Current()
	require.False(t, ok)
}

// faultyStore fails loads for one kind and delegates the rest.
type faultyStore struct {
	snapshot.Store
	failing snapshot.Kind
}

func (f *faultyStore) Load(ctx context.Context, kind snapshot.Kind) ([]byte, bool, error) {
	if kind == f.failing {
		return nil, false, errors.New("backend unavailable")
	}
	return f.Store.Load(ctx, kind)
}

func TestRestoreKeepsGoingPastFailingSlot(t *testing.T) {
	backing := snapshot.NewMemoryStore()
	ctx := context.Background()

	seeded := newState(t, backing)
	_, err := seeded.Session.Login(ctx, types.User{Name: "Nick", Email: "nick@example.com"})
	require.NoError(t, err)

	state := newState(t, &faultyStore{Store: backing, failing: snapshot.KindCart})
	err = state.Restore(ctx)
	require.Error(t, err)

	// the failing slot kept its default, the rest restored
	require.Empty(t, state.Cart.Items())
	_, ok := state.Session.Current()
	require.True(t, ok)
}
