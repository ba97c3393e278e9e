package repository

import (
	"context"

	"github.com/vytor/medpass/internal/models"
)

// LectureRepository handles lecture schedule persistence
type LectureRepository interface {
	Get(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error)
	List(ctx context.Context, filter models.LectureFilter) ([]models.LectureRecord, error)
	ListByBlock(ctx context.Context, blockID string) ([]models.LectureRecord, error)
	Put(ctx context.Context, record models.LectureRecord) error
	PutMany(ctx context.Context, records []models.LectureRecord) error
	Delete(ctx context.Context, blockID, lectureID string) error
	DeleteByBlock(ctx context.Context, blockID string) (int, error)
}

// ItemRepository handles study item persistence
type ItemRepository interface {
	Get(ctx context.Context, id string) (*models.Item, error)
	ListAll(ctx context.Context) ([]models.Item, error)
	ListByKind(ctx context.Context, kind string) ([]models.Item, error)
	Put(ctx context.Context, item models.Item) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository handles the single settings document
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Put(ctx context.Context, settings models.Settings) error
}
