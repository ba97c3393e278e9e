package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/medpass/internal/models"
)

// MockLectureRepository is a mock implementation of repository.LectureRepository
type MockLectureRepository struct {
	mock.Mock
}

func (m *MockLectureRepository) Get(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error) {
	args := m.Called(ctx, blockID, lectureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LectureRecord), args.Error(1)
}

func (m *MockLectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.LectureRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LectureRecord), args.Error(1)
}

func (m *MockLectureRepository) ListByBlock(ctx context.Context, blockID string) ([]models.LectureRecord, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LectureRecord), args.Error(1)
}

func (m *MockLectureRepository) Put(ctx context.Context, record models.LectureRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLectureRepository) PutMany(ctx context.Context, records []models.LectureRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockLectureRepository) Delete(ctx context.Context, blockID, lectureID string) error {
	args := m.Called(ctx, blockID, lectureID)
	return args.Error(0)
}

func (m *MockLectureRepository) DeleteByBlock(ctx context.Context, blockID string) (int, error) {
	args := m.Called(ctx, blockID)
	return args.Int(0), args.Error(1)
}
