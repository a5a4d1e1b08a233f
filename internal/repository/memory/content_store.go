package memory

import (
	"context"
	"sync"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentStore keeps the encoded record in memory. Records go through the
// same codec as the durable backends, so it also exercises serialization.
type ContentStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

var _ repository.ContentStore = (*ContentStore)(nil)

// NewContentStore returns an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{}
}

// NewContentStoreWithRecord returns a store holding a raw record, which may be malformed.
func NewContentStoreWithRecord(data []byte) *ContentStore {
	return &ContentStore{data: append([]byte(nil), data...)}
}

func (s *ContentStore) Load(ctx context.Context) ([]model.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.Decode(s.data)
}

func (s *ContentStore) Save(ctx context.Context, items []model.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	data, err := repository.Encode(items)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

// Saves returns how many times Save succeeded.
func (s *ContentStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Record returns a copy of the stored record.
func (s *ContentStore) Record() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// FailSaves makes every following Save return err. A nil err clears it.
func (s *ContentStore) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
