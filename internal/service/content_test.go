package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"contentapi/internal/model"
	"contentapi/internal/repository"
	"contentapi/internal/repository/memory"
	repoMocks "contentapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// tickingClock returns t0, t0+1m, t0+2m, ... on successive calls.
func tickingClock() func() time.Time {
	next := t0
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T, store repository.ContentStore, opts ...Option) ContentRepository {
	t.Helper()
	opts = append([]Option{
		WithClock(tickingClock()),
		WithIDGenerator(sequentialIDs()),
		WithLogger(quietLogger()),
	}, opts...)
	repo, err := NewContentRepository(context.Background(), store, opts...)
	require.NoError(t, err)
	return repo
}

func ptr[T any](v T) *T { return &v }

func titles(items []model.ContentItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestNewContentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("absent record starts empty", func(t *testing.T) {
		repo := newTestRepo(t, memory.NewContentStore())
		assert.Empty(t, repo.GetAll())
		assert.NotNil(t, repo.GetAll())
	})

	t.Run("loads stored order", func(t *testing.T) {
		store := memory.NewContentStoreWithRecord([]byte(`[
			{"id":"b","title":"Second","content":"","createdAt":"2024-01-02T00:00:00Z"},
			{"id":"a","title":"First","content":"","createdAt":"2024-01-01T00:00:00Z"}
		]`))
		repo := newTestRepo(t, store)
		assert.Equal(t, []string{"Second", "First"}, titles(repo.GetAll()))
	})

	t.Run("malformed record fails", func(t *testing.T) {
		store := memory.NewContentStoreWithRecord([]byte(`{not json`))
		_, err := NewContentRepository(ctx, store, WithLogger(quietLogger()))
		require.Error(t, err)
		assert.ErrorIs(t, err, repository.ErrMalformed)
	})

	t.Run("malformed record resets when allowed", func(t *testing.T) {
		store := memory.NewContentStoreWithRecord([]byte(`{not json`))
		repo := newTestRepo(t, store, WithResetOnMalformed(true))
		assert.Empty(t, repo.GetAll())
		assert.Equal(t, 0, store.Saves())
	})

	t.Run("store error is not reset", func(t *testing.T) {
		mStore := new(repoMocks.MockContentStore)
		mStore.On("Load", ctx).Return(nil, errors.New("connection refused"))

		_, err := NewContentRepository(ctx, mStore, WithResetOnMalformed(true), WithLogger(quietLogger()))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load content")
		mStore.AssertExpectations(t)
	})
}

func TestContentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamps then persists", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)

		item, err := repo.Create(ctx, model.ContentFields{
			Title:   ptr("Hello"),
			Content: ptr("<p>World</p>"),
			Tags:    ptr(model.Tags{"a", "b"}),
		})
		require.NoError(t, err)

		assert.Equal(t, "id-1", item.ID)
		assert.Equal(t, t0, item.CreatedAt)
		assert.Equal(t, t0, item.ModifiedAt)
		assert.Equal(t, 1, store.Saves())

		got, ok := repo.GetByID(item.ID)
		require.True(t, ok)
		assert.Equal(t, item, got)
	})

	t.Run("keeps supplied createdAt", func(t *testing.T) {
		repo := newTestRepo(t, memory.NewContentStore())
		created := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

		item, err := repo.Create(ctx, model.ContentFields{Title: ptr("Old"), CreatedAt: &created})
		require.NoError(t, err)
		assert.Equal(t, created, item.CreatedAt)
		assert.Equal(t, t0, item.ModifiedAt)
	})

	t.Run("prepends", func(t *testing.T) {
		repo := newTestRepo(t, memory.NewContentStore())
		for _, title := range []string{"one", "two", "three"} {
			_, err := repo.Create(ctx, model.ContentFields{Title: ptr(title)})
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"three", "two", "one"}, titles(repo.GetAll()))
	})

	t.Run("ids are unique with the default generator", func(t *testing.T) {
		repo, err := NewContentRepository(ctx, memory.NewContentStore(), WithLogger(quietLogger()))
		require.NoError(t, err)

		seen := map[string]bool{}
		for i := 0; i < 200; i++ {
			item, err := repo.Create(ctx, model.ContentFields{Title: ptr("x")})
			require.NoError(t, err)
			require.False(t, seen[item.ID], "duplicate id %s", item.ID)
			seen[item.ID] = true
		}
	})

	t.Run("save failure leaves collection unchanged", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)
		_, err := repo.Create(ctx, model.ContentFields{Title: ptr("kept")})
		require.NoError(t, err)

		storeErr := errors.New("quota exceeded")
		store.FailSaves(storeErr)

		_, err = repo.Create(ctx, model.ContentFields{Title: ptr("lost")})
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, []string{"kept"}, titles(repo.GetAll()))
	})

	t.Run("returned item is not shared", func(t *testing.T) {
		repo := newTestRepo(t, memory.NewContentStore())
		item, err := repo.Create(ctx, model.ContentFields{Title: ptr("t"), Tags: ptr(model.Tags{"keep"})})
		require.NoError(t, err)

		item.Tags[0] = "changed"
		got, _ := repo.GetByID(item.ID)
		assert.Equal(t, model.Tags{"keep"}, got.Tags)
	})
}

func TestContentRepository_GetByID(t *testing.T) {
	repo := newTestRepo(t, memory.NewContentStore())

	_, ok := repo.GetByID("missing")
	assert.False(t, ok)
}

func TestContentRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only given fields and modifiedAt", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)
		orig, err := repo.Create(ctx, model.ContentFields{
			Title:    ptr("Title"),
			Content:  ptr("body"),
			Category: ptr("note"),
			Tags:     ptr(model.Tags{"x"}),
		})
		require.NoError(t, err)

		updated, ok, err := repo.Update(ctx, orig.ID, model.ContentFields{Status: ptr("published")})
		require.NoError(t, err)
		require.True(t, ok)

		want := orig
		want.Status = "published"
		want.ModifiedAt = t0.Add(time.Minute)
		assert.Equal(t, want, updated)
		assert.Equal(t, 2, store.Saves())

		got, _ := repo.GetByID(orig.ID)
		assert.Equal(t, want, got)
	})

	t.Run("keeps position", func(t *testing.T) {
		repo := newTestRepo(t, memory.NewContentStore())
		first, _ := repo.Create(ctx, model.ContentFields{Title: ptr("first")})
		_, _ = repo.Create(ctx, model.ContentFields{Title: ptr("second")})

		_, ok, err := repo.Update(ctx, first.ID, model.ContentFields{Title: ptr("first, edited")})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []string{"second", "first, edited"}, titles(repo.GetAll()))
	})

	t.Run("unknown id does not persist", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)
		_, _ = repo.Create(ctx, model.ContentFields{Title: ptr("a")})
		before := repo.GetAll()

		_, ok, err := repo.Update(ctx, "nope", model.ContentFields{Title: ptr("b")})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, repo.GetAll())
		assert.Equal(t, 1, store.Saves())
	})

	t.Run("save failure leaves item unchanged", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)
		orig, _ := repo.Create(ctx, model.ContentFields{Title: ptr("a")})
		store.FailSaves(errors.New("disk full"))

		_, ok, err := repo.Update(ctx, orig.ID, model.ContentFields{Title: ptr("b")})
		require.Error(t, err)
		assert.True(t, ok)

		got, _ := repo.GetByID(orig.ID)
		assert.Equal(t, orig, got)
	})
}

func TestContentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes and persists", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)
		a, _ := repo.Create(ctx, model.ContentFields{Title: ptr("a")})
		_, _ = repo.Create(ctx, model.ContentFields{Title: ptr("b")})

		ok, err := repo.Delete(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"b"}, titles(repo.GetAll()))
		assert.Equal(t, 3, store.Saves())

		_, found := repo.GetByID(a.ID)
		assert.False(t, found)
	})

	t.Run("unknown id does not persist", func(t *testing.T) {
		store := memory.NewContentStore()
		repo := newTestRepo(t, store)

		ok, err := repo.Delete(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, store.Saves())
	})

	t.Run("save failure keeps item", func(t *testing.T) {
		mStore := new(repoMocks.MockContentStore)
		mStore.On("Load", ctx).Return([]model.ContentItem{{ID: "a", Title: "a", CreatedAt: t0}}, nil)
		mStore.On("Save", ctx, mock.Anything).Return(errors.New("timeout"))

		repo := newTestRepo(t, mStore)
		ok, err := repo.Delete(ctx, "a")
		require.Error(t, err)
		assert.True(t, ok)
		assert.Contains(t, err.Error(), "save content")

		_, found := repo.GetByID("a")
		assert.True(t, found)
		mStore.AssertExpectations(t)
	})
}

func TestContentRepository_PersistReload(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContentStore()
	repo := newTestRepo(t, store)

	_, err := repo.Create(ctx, model.ContentFields{
		Title:        ptr("Note"),
		Content:      ptr("<h1>Heading</h1>"),
		Category:     ptr("note"),
		Tags:         ptr(model.Tags{"go", "api"}),
		Status:       ptr("draft"),
		Priority:     ptr("high"),
		ImageURL:     ptr("https://example.com/a.png"),
		ExternalLink: ptr("https://example.com"),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, model.ContentFields{Title: ptr("Bare")})
	require.NoError(t, err)

	reloaded := newTestRepo(t, store)
	assert.Equal(t, repo.GetAll(), reloaded.GetAll())
}

func TestContentRepository_DraftScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewContentStore()
	repo := newTestRepo(t, store)

	created, err := repo.Create(ctx, model.ContentFields{
		Title:    ptr("Draft One"),
		Content:  ptr("<p>hello</p>"),
		Category: ptr("document"),
		Tags:     ptr(model.SplitTags("a, b")),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Tags{"a", "b"}, created.Tags)

	updated, ok, err := repo.Update(ctx, created.ID, model.ContentFields{Title: ptr("Report")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Report", updated.Title)
	assert.Equal(t, "<p>hello</p>", updated.Content)
	assert.True(t, updated.ModifiedAt.After(created.ModifiedAt))

	assert.Len(t, repo.Search("report"), 1)
	assert.Empty(t, repo.Search("draft"))

	ok, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, repo.GetAll())

	reloaded := newTestRepo(t, store)
	assert.Empty(t, reloaded.GetAll())
}
