package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

func TestContentStore(t *testing.T) {
	ctx := context.Background()
	s := NewContentStore()

	items, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	want := []model.ContentItem{{ID: "1", Title: "one"}, {ID: "2", Title: "two"}}
	require.NoError(t, s.Save(ctx, want))
	assert.Equal(t, 1, s.Saves())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestContentStore_FailSaves(t *testing.T) {
	ctx := context.Background()
	s := NewContentStore()
	boom := errors.New("disk full")

	s.FailSaves(boom)
	assert.ErrorIs(t, s.Save(ctx, []model.ContentItem{{ID: "1"}}), boom)
	assert.Equal(t, 0, s.Saves())

	s.FailSaves(nil)
	assert.NoError(t, s.Save(ctx, nil))
	assert.Equal(t, "[]", string(s.Record()))
}

func TestContentStore_MalformedRecord(t *testing.T) {
	s := NewContentStoreWithRecord([]byte("{broken"))
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrMalformed)
}
