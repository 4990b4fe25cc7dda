package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bookhavenapp/bookhaven-backend/internal/notify"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

type fakeCatalog struct {
	books map[uuid.UUID]types.Book
}

func (f *fakeCatalog) FindByID(id uuid.UUID) (types.Book, bool) {
	book, ok := f.books[id]
	return book, ok
}

type cartFixture struct {
	service  Service
	store    *snapshot.MemoryStore
	recorder *notify.Recorder
	hobbit   uuid.UUID
	dune     uuid.UUID
}

func newCartFixture(t *testing.T, delay time.Duration) cartFixture {
	t.Helper()

	hobbit := uuid.New()
	dune := uuid.New()
	catalog := &fakeCatalog{books: map[uuid.UUID]types.Book{
		hobbit: {ID: hobbit, Title: "The Hobbit", Price: decimal.RequireFromString("12.99")},
		dune:   {ID: dune, Title: "Dune", Price: decimal.RequireFromString("9.50")},
	}}

	store := snapshot.NewMemoryStore()
	recorder := &notify.Recorder{}
	svc, err := NewService(ServiceParams{
		Catalog:  catalog,
		Store:    store,
		Notifier: recorder,
		Logger:   logger.New(logger.Options{ServiceName: "cart-test"}),
		Delay:    delay,
	})
	require.NoError(t, err)

	return cartFixture{service: svc, store: store, recorder: recorder, hobbit: hobbit, dune: dune}
}

func storedItems(t *testing.T, store *snapshot.MemoryStore) []types.CartItem {
	t.Helper()
	data, ok, err := store.Load(context.Background(), snapshot.KindCart)
	require.NoError(t, err)
	require.True(t, ok)
	var items []types.CartItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestAddMergesDuplicateLines(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 1))
	require.NoError(t, fx.service.Add(ctx, fx.dune, 2))
	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 3))

	items := fx.service.Items()
	require.Len(t, items, 2)
	require.Equal(t, types.CartItem{BookID: fx.hobbit, Quantity: 4}, items[0])
	require.Equal(t, types.CartItem{BookID: fx.dune, Quantity: 2}, items[1])
}

func TestAddTreatsNonPositiveQuantityAsOne(t *testing.T) {
	fx := newCartFixture(t, 0)

	require.NoError(t, fx.service.Add(context.Background(), fx.hobbit, 0))

	items := fx.service.Items()
	require.Len(t, items, 1)
	require.Equal(t, 1, items[0].Quantity)
}

func TestAddPersistsAndNotifies(t *testing.T) {
	fx := newCartFixture(t, 0)

	require.NoError(t, fx.service.Add(context.Background(), fx.dune, 2))

	require.Equal(t, []types.CartItem{{BookID: fx.dune, Quantity: 2}}, storedItems(t, fx.store))

	last, ok := fx.recorder.Last()
	require.True(t, ok)
	require.Equal(t, "Added to cart", last.Title)
}

func TestAddStopsOnCanceledContext(t *testing.T) {
	fx := newCartFixture(t, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fx.service.Add(ctx, fx.hobbit, 1)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fx.service.Items())
	require.False(t, fx.service.Busy())
}

func TestBusyDuringSimulatedDelay(t *testing.T) {
	fx := newCartFixture(t, 30*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		done <- fx.service.Add(context.Background(), fx.hobbit, 1)
	}()

	require.Eventually(t, fx.service.Busy, time.Second, time.Millisecond)
	require.NoError(t, <-done)
	require.False(t, fx.service.Busy())
}

func TestRemove(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 1))
	require.NoError(t, fx.service.Add(ctx, fx.dune, 1))

	fx.service.Remove(ctx, fx.hobbit)
	require.Equal(t, []types.CartItem{{BookID: fx.dune, Quantity: 1}}, fx.service.Items())

	// removing a book that is not in the cart changes nothing
	fx.service.Remove(ctx, fx.hobbit)
	require.Len(t, fx.service.Items(), 1)
	require.Equal(t, []types.CartItem{{BookID: fx.dune, Quantity: 1}}, storedItems(t, fx.store))
}

func TestUpdateQuantity(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 1))

	fx.service.UpdateQuantity(ctx, fx.hobbit, 5)
	require.Equal(t, 5, fx.service.Items()[0].Quantity)

	fx.service.UpdateQuantity(ctx, fx.dune, 3)
	require.Len(t, fx.service.Items(), 1)

	fx.service.UpdateQuantity(ctx, fx.hobbit, 0)
	require.Empty(t, fx.service.Items())
}

func TestClearPersistsEmptyCart(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 2))

	fx.service.Clear(ctx)

	require.Empty(t, fx.service.Items())
	require.Empty(t, storedItems(t, fx.store))
}

func TestTotalSkipsUnresolvedBooks(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, fx.service.Add(ctx, fx.hobbit, 2)) // 25.98
	require.NoError(t, fx.service.Add(ctx, fx.dune, 1))   // 9.50
	require.NoError(t, fx.service.Add(ctx, uuid.New(), 4))

	require.True(t, fx.service.Total().Equal(decimal.RequireFromString("35.48")))
}

func TestRestore(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()

	stored := []types.CartItem{{BookID: fx.dune, Quantity: 7}}
	data, err := json.Marshal(stored)
	require.NoError(t, err)
	require.NoError(t, fx.store.Save(ctx, snapshot.KindCart, data))

	require.NoError(t, fx.service.Restore(ctx))
	require.Equal(t, stored, fx.service.Items())
}

func TestRestoreMalformedSnapshotKeepsEmptyCart(t *testing.T) {
	fx := newCartFixture(t, 0)
	ctx := context.Background()
	require.NoError(t, fx.store.Save(ctx, snapshot.KindCart, []byte("{broken")))

	require.NoError(t, fx.service.Restore(ctx))
	require.Empty(t, fx.service.Items())
}
