package catalog

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
}

func newTestService(t *testing.T, store snapshot.Store) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:  store,
		Logger: testLogger(),
		Now:    func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return svc
}

func TestFindByID(t *testing.T) {
	svc := newTestService(t, snapshot.NewMemoryStore())

	book, ok := svc.FindByID(SeedGreatGatsby)
	require.True(t, ok)
	assert.Equal(t, "The Great Gatsby", book.Title)
	assert.True(t, book.Price.Equal(decimal.RequireFromString("12.99")))

	_, ok = svc.FindByID(uuid.New())
	assert.False(t, ok)
}

func TestSearchMatchesTitleAuthorCategory(t *testing.T) {
	svc := newTestService(t, snapshot.NewMemoryStore())

	assert.Len(t, svc.Search("gatsby"), 1, "title match")
	assert.Len(t, svc.Search("ORWELL"), 1, "author match, case-insensitive")
	assert.Len(t, svc.Search("fiction"), 4, "category substring also matches Science Fiction")
	assert.Len(t, svc.Search(""), 6, "empty query matches everything")
	assert.Empty(t, svc.Search("cookbooks"))
}

func TestAddBookSynthesizesFields(t *testing.T) {
	store := snapshot.NewMemoryStore()
	svc := newTestService(t, store)

	book, err := svc.AddBook(context.Background(), AddBookInput{
		Title:    "Dune",
		Author:   "Frank Herbert",
		Price:    decimal.RequireFromString("18.50"),
		Category: "Science Fiction",
		Stock:    7,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, book.ID)
	assert.Zero(t, book.Rating)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), book.PublishDate)

	found, ok := svc.FindByID(book.ID)
	require.True(t, ok)
	assert.Equal(t, "Dune", found.Title)

	data, ok, err := store.Load(context.Background(), snapshot.KindBooks)
	require.NoError(t, err)
	require.True(t, ok, "addition must persist the catalog")
	var persisted []types.Book
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Len(t, persisted, 7)
}

func TestAddBookValidation(t *testing.T) {
	svc := newTestService(t, snapshot.NewMemoryStore())

	_, err := svc.AddBook(context.Background(), AddBookInput{Author: "nobody"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.AddBook(context.Background(), AddBookInput{
		Title:    "Bad Price",
		Author:   "x",
		Category: "Fiction",
		Price:    decimal.RequireFromString("-1"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRestoreMergesOverSeed(t *testing.T) {
	store := snapshot.NewMemoryStore()

	custom := types.Book{
		ID:       uuid.New(),
		Title:    "Self-Published Debut",
		Author:   "A. Nonymous",
		Price:    decimal.RequireFromString("4.99"),
		Category: "Poetry",
	}
	repriced := Seed()[0]
	repriced.Price = decimal.RequireFromString("1.99")
	data, err := json.Marshal([]types.Book{custom, repriced})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), snapshot.KindBooks, data))

	svc := newTestService(t, store)
	require.NoError(t, svc.Restore(context.Background()))

	assert.Len(t, svc.Books(), 7, "stored addition merges over the six seed books")

	book, ok := svc.FindByID(SeedGreatGatsby)
	require.True(t, ok)
	assert.True(t, book.Price.Equal(decimal.RequireFromString("1.99")), "stored entry replaces the seed entry")

	_, ok = svc.FindByID(custom.ID)
	assert.True(t, ok)
}

func TestRestoreIgnoresMalformedSnapshot(t *testing.T) {
	store := snapshot.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), snapshot.KindBooks, []byte("{not json")))

	svc := newTestService(t, store)
	require.NoError(t, svc.Restore(context.Background()))
	assert.Len(t, svc.Books(), 6, "malformed snapshot falls back to seed")
}

func TestRestoreWithoutSnapshotKeepsSeed(t *testing.T) {
	svc := newTestService(t, snapshot.NewMemoryStore())
	require.NoError(t, svc.Restore(context.Background()))
	assert.Len(t, svc.Books(), 6)
}
