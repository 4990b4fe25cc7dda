package catalog

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/bookhavenapp/bookhaven-backend/pkg/errors"
	"github.com/bookhavenapp/bookhaven-backend/pkg/logger"
	"github.com/bookhavenapp/bookhaven-backend/pkg/metrics"
	"github.com/bookhavenapp/bookhaven-backend/pkg/snapshot"
	"github.com/bookhavenapp/bookhaven-backend/pkg/types"
	"github.com/bookhavenapp/bookhaven-backend/pkg/validate"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Store   snapshot.Store
	Logger  *logger.Logger
	Metrics *metrics.CheckoutMetrics
	Seed    []types.Book
	Now     func() time.Time
}

// Service exposes catalog lookup, search and administrative addition.
type Service interface {
	Books() []types.Book
	FindByID(id uuid.UUID) (types.Book, bool)
	Search(query string) []types.Book
	AddBook(ctx context.Context, input AddBookInput) (types.Book, error)
	Restore(ctx context.Context) error
}

type service struct {
	mu      sync.RWMutex
	books   []types.Book
	store   snapshot.Store
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	now     func() time.Time
}

// NewService builds a catalog service preloaded with the seed catalog.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	seed := params.Seed
	if seed == nil {
		seed = Seed()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		books:   seed,
		store:   params.Store,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
	}, nil
}

// Books returns a copy of the full catalog.
func (s *service) Books() []types.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Book, len(s.books))
	copy(out, s.books)
	return out
}

// FindByID returns the book, or false when the id does not resolve.
func (s *service) FindByID(id uuid.UUID) (types.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, book := range s.books {
		if book.ID == id {
			return book, true
		}
	}
	return types.Book{}, false
}

// Search matches the query case-insensitively against title, author and
// category. An empty query matches everything.
func (s *service) Search(query string) []types.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	matches := make([]types.Book, 0, len(s.books))
	for _, book := range s.books {
		if needle == "" ||
			strings.Contains(strings.ToLower(book.Title), needle) ||
			strings.Contains(strings.ToLower(book.Author), needle) ||
			strings.Contains(strings.ToLower(book.Category), needle) {
			matches = append(matches, book)
		}
	}
	return matches
}

// AddBook validates the payload, synthesizes id/rating/publish date, appends
// the book and persists the full catalog.
func (s *service) AddBook(ctx context.Context, input AddBookInput) (types.Book, error) {
	if err := validate.Struct(input); err != nil {
		return types.Book{}, err
	}
	if input.Price.IsNegative() {
		return types.Book{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	book := types.Book{
		ID:          uuid.New(),
		Title:       input.Title,
		Author:      input.Author,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		Stock:       input.Stock,
		CoverImage:  input.CoverImage,
		Rating:      0,
		PublishDate: s.now().UTC().Truncate(24 * time.Hour),
	}

	s.mu.Lock()
	s.books = append(s.books, book)
	s.mu.Unlock()

	s.persist(ctx)

	ctx = s.logg.WithBookID(ctx, book.ID.String())
	s.logg.Info(ctx, "book added to catalog")
	return book, nil
}

// Restore loads the persisted catalog and merges it over the seed. Books with
// a seed id replace the seed entry; the rest are appended in stored order.
func (s *service) Restore(ctx context.Context) error {
	data, ok, err := s.store.Load(ctx, snapshot.KindBooks)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog snapshot")
	}
	if !ok {
		return nil
	}

	var stored []types.Book
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logg.Warn(ctx, "catalog snapshot is malformed; keeping seed catalog")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]types.Book, len(s.books))
	copy(merged, s.books)
	index := make(map[uuid.UUID]int, len(merged))
	for i, book := range merged {
		index[book.ID] = i
	}
	for _, book := range stored {
		if i, exists := index[book.ID]; exists {
			merged[i] = book
			continue
		}
		index[book.ID] = len(merged)
		merged = append(merged, book)
	}
	s.books = merged
	return nil
}

func (s *service) persist(ctx context.Context) {
	s.mu.RLock()
	books := make([]types.Book, len(s.books))
	copy(books, s.books)
	s.mu.RUnlock()

	data, err := json.Marshal(books)
	if err != nil {
		s.logg.Error(ctx, "marshal catalog snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindBooks.String())
		return
	}
	if err := s.store.Save(ctx, snapshot.KindBooks, data); err != nil {
		s.logg.Error(ctx, "save catalog snapshot", err)
		s.metrics.IncPersistenceFailure(snapshot.KindBooks.String())
	}
}
