package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentRepository owns the content collection, keeps it synchronized with
// a ContentStore and answers queries over it.
//
// The collection is ordered most-recent-created first. Every mutation
// re-persists the whole collection before it returns; if the save fails the
// in-memory collection is left as it was.
type ContentRepository interface {
	// GetAll returns the collection in stored order.
	GetAll() []model.ContentItem

	// GetByID returns the item with the given id, or false when absent.
	GetByID(id string) (model.ContentItem, bool)

	// Create stores a new item built from fields and returns it. The id is
	// generated; createdAt is taken from fields when present, else now;
	// modifiedAt is always now.
	Create(ctx context.Context, fields model.ContentFields) (model.ContentItem, error)

	// Update shallow-merges fields onto the item and stamps modifiedAt.
	// It returns false, and persists nothing, when the id is unknown.
	Update(ctx context.Context, id string, fields model.ContentFields) (model.ContentItem, bool, error)

	// Delete removes the item. It returns false, and persists nothing, when
	// the id is unknown.
	Delete(ctx context.Context, id string) (bool, error)

	// Search matches query case-insensitively against title, content and tags.
	// An empty query returns the whole collection.
	Search(query string) []model.ContentItem

	// FilterByCategory returns items whose category equals category exactly.
	// An empty category returns the whole collection.
	FilterByCategory(category string) []model.ContentItem

	// Sort returns a re-ordered copy of the collection. Unknown keys return
	// stored order.
	Sort(key model.SortKey) []model.ContentItem

	// Query combines category filter, search and ordering the way the
	// dashboard does.
	Query(q Query) []model.ContentItem
}

// Option configures a ContentRepository.
type Option func(*contentRepository)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *contentRepository) { r.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *contentRepository) { r.newID = gen }
}

// WithLogger sets the logger used for load-time warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *contentRepository) { r.logger = logger }
}

// WithResetOnMalformed makes construction start from an empty collection
// instead of failing when the stored record cannot be decoded.
func WithResetOnMalformed(reset bool) Option {
	return func(r *contentRepository) { r.resetOnMalformed = reset }
}

type contentRepository struct {
	store repository.ContentStore

	mu    sync.RWMutex
	items []model.ContentItem

	now              func() time.Time
	newID            func() string
	logger           *slog.Logger
	resetOnMalformed bool
}

// NewContentRepository loads the collection from store and returns the
// repository holding it.
func NewContentRepository(ctx context.Context, store repository.ContentStore, opts ...Option) (ContentRepository, error) {
	r := &contentRepository{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	items, err := store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrMalformed) && r.resetOnMalformed:
		r.logger.Warn("stored content is malformed, starting empty",
			slog.String("error", err.Error()),
		)
		items = nil
	default:
		return nil, fmt.Errorf("load content: %w", err)
	}

	r.items = items
	if r.items == nil {
		r.items = []model.ContentItem{}
	}
	r.logger.Info("content loaded", slog.Int("items", len(r.items)))
	return r, nil
}

func (r *contentRepository) GetAll() []model.ContentItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.items)
}

func (r *contentRepository) GetByID(id string) (model.ContentItem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.ContentItem{}, false
	}
	return r.items[i].Clone(), true
}

func (r *contentRepository) Create(ctx context.Context, fields model.ContentFields) (model.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	item := fields.Apply(model.ContentItem{ID: r.newID()})
	if fields.CreatedAt == nil || fields.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.ModifiedAt = now

	next := make([]model.ContentItem, 0, len(r.items)+1)
	next = append(next, item)
	next = append(next, r.items...)
	if err := r.save(ctx, next); err != nil {
		return model.ContentItem{}, err
	}
	return item.Clone(), nil
}

func (r *contentRepository) Update(ctx context.Context, id string, fields model.ContentFields) (model.ContentItem, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.ContentItem{}, false, nil
	}

	item := fields.Apply(r.items[i])
	item.ModifiedAt = r.now()

	next := slices.Clone(r.items)
	next[i] = item
	if err := r.save(ctx, next); err != nil {
		return model.ContentItem{}, true, err
	}
	return item.Clone(), true, nil
}

func (r *contentRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := slices.Delete(slices.Clone(r.items), i, i+1)
	if err := r.save(ctx, next); err != nil {
		return true, err
	}
	return true, nil
}

// save persists next and makes it the current collection. Callers hold mu.
func (r *contentRepository) save(ctx context.Context, next []model.ContentItem) error {
	if err := r.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	r.items = next
	return nil
}

// indexOf returns the position of the first item with id, or -1. Callers hold mu.
func (r *contentRepository) indexOf(id string) int {
	return slices.IndexFunc(r.items, func(item model.ContentItem) bool {
		return item.ID == id
	})
}

func cloneAll(items []model.ContentItem) []model.ContentItem {
	out := make([]model.ContentItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
