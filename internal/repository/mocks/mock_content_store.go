package mocks

import (
	"context"

	"contentapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Load(ctx context.Context) ([]model.ContentItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ContentItem), args.Error(1)
}

func (m *MockContentStore) Save(ctx context.Context, items []model.ContentItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}
