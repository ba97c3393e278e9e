package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/review"
)

// ReviewService handles study items and their per-section review scheduling
type ReviewService interface {
	SaveItem(ctx context.Context, input models.ItemInput) (*models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, kind string) ([]models.Item, error)
	DeleteItem(ctx context.Context, id string) error
	Rate(ctx context.Context, itemID, sectionKey string, rating models.Rating) (*models.SectionState, error)
	SectionSnapshot(ctx context.Context, itemID, sectionKey string) (*models.SectionState, error)
	DueSections(ctx context.Context) ([]models.ReviewEntry, error)
	UpcomingSections(ctx context.Context, limit int) ([]models.ReviewEntry, error)
}

type reviewService struct {
	itemRepo      repository.ItemRepository
	settingsRepo  repository.SettingsRepository
	keys          *keyLock
	upcomingLimit int
	now           func() int64
}

// NewReviewService creates a new ReviewService. upcomingLimit caps the
// upcoming queue when a request does not supply its own limit.
func NewReviewService(itemRepo repository.ItemRepository, settingsRepo repository.SettingsRepository, upcomingLimit int) ReviewService {
	if upcomingLimit <= 0 {
		upcomingLimit = review.DefaultUpcomingLimit
	}
	return &reviewService{
		itemRepo:      itemRepo,
		settingsRepo:  settingsRepo,
		keys:          newKeyLock(),
		upcomingLimit: upcomingLimit,
		now:           func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *reviewService) SaveItem(ctx context.Context, input models.ItemInput) (*models.Item, error) {
	log := logger.FromContext(ctx)

	kind := strings.TrimSpace(input.Kind)
	id := strings.TrimSpace(input.ID)
	if id == "" {
		if kind == "" {
			return nil, errors.NewValidationError("item", "missing kind")
		}
		id = uuid.NewString()
	}
	log.Debug("saving item: id=%s, kind=%s", id, kind)

	unlock := s.keys.Lock(id)
	defer unlock()

	existing, err := s.itemRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	item := models.Item{ID: id, CreatedAt: now}
	if existing != nil {
		item = *existing
	}
	if kind != "" {
		item.Kind = kind
	}
	if review.SectionDefsForKind(item.Kind) == nil {
		return nil, errors.NewValidationError("kind", "unknown item kind")
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Sections != nil {
		sections := make(map[string]string, len(input.Sections))
		for key, value := range input.Sections {
			sections[key] = value
		}
		item.Sections = sections
	}
	if input.Lectures != nil {
		item.Lectures = append([]models.LectureRef(nil), input.Lectures...)
	}
	review.EnsureSR(&item)
	item.UpdatedAt = now

	if err := s.itemRepo.Put(ctx, item); err != nil {
		log.Error("failed to store item: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("item saved: id=%s, kind=%s", item.ID, item.Kind)
	return &item, nil
}

func (s *reviewService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.itemRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("item", id)
	}
	return item, nil
}

func (s *reviewService) ListItems(ctx context.Context, kind string) ([]models.Item, error) {
	var items []models.Item
	var err error
	if kind == "" {
		items, err = s.itemRepo.ListAll(ctx)
	} else {
		items, err = s.itemRepo.ListByKind(ctx, kind)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return items, nil
}

func (s *reviewService) DeleteItem(ctx context.Context, id string) error {
	unlock := s.keys.Lock(id)
	defer unlock()

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("item", id)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *reviewService) Rate(ctx context.Context, itemID, sectionKey string, rating models.Rating) (*models.SectionState, error) {
	log := logger.FromContext(ctx)
	log.Debug("rating section: item=%s, section=%s, rating=%s", itemID, sectionKey, rating)

	if sectionKey == "" {
		return nil, errors.NewValidationError("section", "missing section key")
	}

	unlock := s.keys.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("item", itemID)
	}
	if !validSectionKey(item.Kind, sectionKey) {
		return nil, errors.NewValidationError("section", "unknown section key for kind "+item.Kind)
	}

	steps, err := s.reviewSteps(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	state := review.RateSection(item, sectionKey, rating, steps, now)
	item.UpdatedAt = now

	if err := s.itemRepo.Put(ctx, *item); err != nil {
		log.Error("failed to store item after rating: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("section rated: item=%s, section=%s, rating=%s, streak=%d", itemID, sectionKey, state.LastRating, state.Streak)
	return state, nil
}

func (s *reviewService) SectionSnapshot(ctx context.Context, itemID, sectionKey string) (*models.SectionState, error) {
	unlock := s.keys.Lock(itemID)
	defer unlock()

	item, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if item == nil {
		return nil, errors.NewNotFoundError("item", itemID)
	}

	now := s.now()
	snapshot := review.SnapshotSectionState(item, sectionKey, now)
	if snapshot == nil {
		return nil, errors.NewNotFoundError("section", sectionKey)
	}
	// The snapshot may have stamped a new digest or reset the schedule.
	item.UpdatedAt = now
	if err := s.itemRepo.Put(ctx, *item); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return snapshot, nil
}

func (s *reviewService) DueSections(ctx context.Context) ([]models.ReviewEntry, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return review.CollectDueSections(items, s.now()), nil
}

func (s *reviewService) UpcomingSections(ctx context.Context, limit int) ([]models.ReviewEntry, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if limit <= 0 {
		limit = s.upcomingLimit
	}
	return review.CollectUpcomingSections(items, s.now(), limit), nil
}

// reviewSteps loads the configured base intervals, falling back to defaults
// when no settings document exists.
func (s *reviewService) reviewSteps(ctx context.Context) (models.ReviewSteps, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return models.ReviewSteps{}, errors.NewInternalError(err)
	}
	if settings == nil {
		return review.DefaultReviewSteps, nil
	}
	return settings.ReviewSteps, nil
}

func validSectionKey(kind, key string) bool {
	for _, def := range review.SectionDefsForKind(kind) {
		if def.Key == key {
			return true
		}
	}
	return false
}
