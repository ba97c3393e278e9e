package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/medpass/internal/models"
)

// MockSettingsRepository is a mock implementation of repository.SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Put(ctx context.Context, settings models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
