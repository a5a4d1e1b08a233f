package mocks

import (
	"context"

	"contentapi/internal/model"
	"contentapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockContentRepository struct {
	mock.Mock
}

var _ service.ContentRepository = (*MockContentRepository)(nil)

func (m *MockContentRepository) GetAll() []model.ContentItem {
	args := m.Called()
	return items(args.Get(0))
}

func (m *MockContentRepository) GetByID(id string) (model.ContentItem, bool) {
	args := m.Called(id)
	return args.Get(0).(model.ContentItem), args.Bool(1)
}

func (m *MockContentRepository) Create(ctx context.Context, fields model.ContentFields) (model.ContentItem, error) {
	args := m.Called(ctx, fields)
	return args.Get(0).(model.ContentItem), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, id string, fields model.ContentFields) (model.ContentItem, bool, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(model.ContentItem), args.Bool(1), args.Error(2)
}

func (m *MockContentRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) Search(query string) []model.ContentItem {
	args := m.Called(query)
	return items(args.Get(0))
}

func (m *MockContentRepository) FilterByCategory(category string) []model.ContentItem {
	args := m.Called(category)
	return items(args.Get(0))
}

func (m *MockContentRepository) Sort(key model.SortKey) []model.ContentItem {
	args := m.Called(key)
	return items(args.Get(0))
}

func (m *MockContentRepository) Query(q service.Query) []model.ContentItem {
	args := m.Called(q)
	return items(args.Get(0))
}

func items(v any) []model.ContentItem {
	if v == nil {
		return nil
	}
	return v.([]model.ContentItem)
}
