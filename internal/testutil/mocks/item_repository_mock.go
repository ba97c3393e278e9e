package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/medpass/internal/models"
)

// MockItemRepository is a mock implementation of repository.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Get(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) ListAll(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) ListByKind(ctx context.Context, kind string) ([]models.Item, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) Put(ctx context.Context, item models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
