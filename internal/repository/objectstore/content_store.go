package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"contentapi/internal/model"
	"contentapi/internal/repository"
	"contentapi/internal/storage"
)

const contentType = "application/json"

// ContentStore keeps the encoded collection as one object, <key>.json, in an
// S3-compatible bucket.
type ContentStore struct {
	store     storage.Storage
	objectKey string
}

var _ repository.ContentStore = (*ContentStore)(nil)

// NewContentStore creates a new ContentStore for the given record key.
func NewContentStore(store storage.Storage, key string) *ContentStore {
	return &ContentStore{store: store, objectKey: key + ".json"}
}

func (s *ContentStore) Load(ctx context.Context) ([]model.ContentItem, error) {
	rc, _, err := s.store.Get(ctx, s.objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []model.ContentItem{}, nil
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	return repository.Decode(data)
}

func (s *ContentStore) Save(ctx context.Context, items []model.ContentItem) error {
	data, err := repository.Encode(items)
	if err != nil {
		return err
	}
	_, err = s.store.Put(ctx, s.objectKey, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: contentType,
		Metadata: map[string]string{
			"items": fmt.Sprint(len(items)),
		},
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (s *ContentStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
