package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// fakeClient keeps values in a map and answers like a real server would.
type fakeClient struct {
	values  map[string][]byte
	setErr  error
	pingErr error
	sets    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{values: map[string][]byte{}}
}

func (f *fakeClient) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = append([]byte(nil), value.([]byte)...)
	f.sets++
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.pingErr)
}

func TestContentStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	store := NewContentStore(client, "editor")

	items, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	want := []model.ContentItem{
		{ID: "b", Title: "Report", CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "a", Title: "Draft One", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, store.Save(ctx, want))
	assert.Equal(t, 1, client.sets)
	assert.Contains(t, client.values, "editor")

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestContentStore_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed value", func(t *testing.T) {
		client := newFakeClient()
		client.values["editor"] = []byte("[{")
		_, err := NewContentStore(client, "editor").Load(ctx)
		assert.ErrorIs(t, err, repository.ErrMalformed)
	})

	t.Run("set fails", func(t *testing.T) {
		client := newFakeClient()
		client.setErr = errors.New("OOM command not allowed")
		err := NewContentStore(client, "editor").Save(ctx, nil)
		assert.EqualError(t, err, "OOM command not allowed")
	})

	t.Run("ping", func(t *testing.T) {
		client := newFakeClient()
		store := NewContentStore(client, "editor")
		assert.NoError(t, store.Ping(ctx))

		client.pingErr = errors.New("connection refused")
		assert.Error(t, store.Ping(ctx))
	})
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "http://not-redis")
	assert.ErrorContains(t, err, "redis options")
}
