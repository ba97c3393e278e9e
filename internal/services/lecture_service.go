package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/scheduler"
)

// LectureService handles lecture scheduling business logic
type LectureService interface {
	SaveLecture(ctx context.Context, input models.LectureInput) (*models.LectureRecord, error)
	GetLecture(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error)
	ListLectures(ctx context.Context, filter models.LectureFilter) ([]models.LectureRecord, error)
	DeleteLecture(ctx context.Context, blockID, lectureID string) error
	DeleteBlock(ctx context.Context, blockID string) (int, error)
	CompletePass(ctx context.Context, blockID, lectureID string, passIndex int, completedAt *int64) (*models.LectureRecord, error)
	ShiftScope(ctx context.Context, blockID, lectureID string, targetOrder int, deltaMinutes float64, scope models.ShiftScope) (*models.LectureRecord, error)
	ShiftAll(ctx context.Context, blockID, lectureID string, deltaMinutes float64, includeCompleted bool) (*models.LectureRecord, error)
	Recalc(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error)
	Queues(ctx context.Context) (models.LectureQueues, error)
	BulkUpdateStatus(ctx context.Context, blockID string) (int, error)
}

type lectureService struct {
	lectureRepo  repository.LectureRepository
	settingsRepo repository.SettingsRepository
	keys         *keyLock
	now          func() int64
}

// NewLectureService creates a new LectureService
func NewLectureService(lectureRepo repository.LectureRepository, settingsRepo repository.SettingsRepository) LectureService {
	return &lectureService{
		lectureRepo:  lectureRepo,
		settingsRepo: settingsRepo,
		keys:         newKeyLock(),
		now:          func() int64 { return time.Now().UnixMilli() },
	}
}

func (s *lectureService) SaveLecture(ctx context.Context, input models.LectureInput) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx)

	blockID := strings.TrimSpace(input.BlockID)
	lectureID := strings.TrimSpace(input.ID)
	if blockID == "" || lectureID == "" {
		return nil, errors.NewValidationError("lecture", "missing lecture identity")
	}
	key := models.LectureKey(blockID, lectureID)
	log.Debug("saving lecture: key=%s", key)

	unlock := s.keys.Lock(key)
	defer unlock()

	existing, err := s.lectureRepo.Get(ctx, blockID, lectureID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	record := models.LectureRecord{CreatedAt: now}
	if existing != nil {
		record = *existing
	}
	record.Key = key
	record.BlockID = blockID
	record.ID = lectureID

	// Merge semantics: absent fields keep the stored value.
	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Week.Value != nil {
		record.Week = input.Week.Value
	}
	if input.Tags != nil {
		record.Tags = append([]string(nil), input.Tags...)
	}
	if input.Passes != nil {
		record.Passes = input.Passes
	}
	if input.PassPlan != nil {
		record.PassPlan = scheduler.NormalizePassPlan(*input.PassPlan)
	}
	if input.PlannerDefaults != nil {
		planner := scheduler.NormalizePlannerDefaults(*input.PlannerDefaults)
		record.PlannerDefaults = &planner
	}
	if input.StartAt != nil {
		record.StartAt = input.StartAt
	}

	defaults, err := s.plannerDefaults(ctx, record)
	if err != nil {
		return nil, err
	}
	normalized := scheduler.RecalcLectureSchedule(record, defaults, nil, now)
	normalized.UpdatedAt = now

	if err := s.lectureRepo.Put(ctx, normalized); err != nil {
		log.Error("failed to store lecture: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("lecture saved: key=%s, state=%s", key, normalized.Status.State)
	return &normalized, nil
}

func (s *lectureService) GetLecture(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error) {
	record, err := s.lectureRepo.Get(ctx, blockID, lectureID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if record == nil {
		return nil, errors.NewNotFoundError("lecture", models.LectureKey(blockID, lectureID))
	}
	return record, nil
}

func (s *lectureService) ListLectures(ctx context.Context, filter models.LectureFilter) ([]models.LectureRecord, error) {
	lectures, err := s.lectureRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return lectures, nil
}

func (s *lectureService) DeleteLecture(ctx context.Context, blockID, lectureID string) error {
	log := logger.FromContext(ctx)
	key := models.LectureKey(blockID, lectureID)
	log.Debug("deleting lecture: key=%s", key)

	unlock := s.keys.Lock(key)
	defer unlock()

	if err := s.lectureRepo.Delete(ctx, blockID, lectureID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NewNotFoundError("lecture", key)
		}
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *lectureService) DeleteBlock(ctx context.Context, blockID string) (int, error) {
	log := logger.FromContext(ctx)
	if strings.TrimSpace(blockID) == "" {
		return 0, errors.NewValidationError("block", "missing block id")
	}
	deleted, err := s.lectureRepo.DeleteByBlock(ctx, blockID)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	log.Info("deleted %d lectures for block %s", deleted, blockID)
	return deleted, nil
}

func (s *lectureService) CompletePass(ctx context.Context, blockID, lectureID string, passIndex int, completedAt *int64) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing pass: key=%s, index=%d", models.LectureKey(blockID, lectureID), passIndex)

	return s.mutate(ctx, blockID, lectureID, func(record models.LectureRecord, now int64) models.LectureRecord {
		stamp := now
		if completedAt != nil {
			stamp = *completedAt
		}
		return scheduler.MarkPassCompleted(record, passIndex, stamp)
	})
}

func (s *lectureService) ShiftScope(ctx context.Context, blockID, lectureID string, targetOrder int, deltaMinutes float64, scope models.ShiftScope) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("shifting passes: key=%s, order=%d, delta=%.1f, scope=%s", models.LectureKey(blockID, lectureID), targetOrder, deltaMinutes, scope)

	switch scope {
	case models.ScopeSingle, models.ScopeChainAfter, models.ScopeChainBefore:
	default:
		return nil, errors.NewValidationError("scope", "must be single, chain-after or chain-before")
	}

	return s.mutate(ctx, blockID, lectureID, func(record models.LectureRecord, now int64) models.LectureRecord {
		return scheduler.ShiftPassesForScope(record, targetOrder, deltaMinutes, scope)
	})
}

func (s *lectureService) ShiftAll(ctx context.Context, blockID, lectureID string, deltaMinutes float64, includeCompleted bool) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("shifting lecture: key=%s, delta=%.1f", models.LectureKey(blockID, lectureID), deltaMinutes)

	return s.mutate(ctx, blockID, lectureID, func(record models.LectureRecord, now int64) models.LectureRecord {
		return scheduler.ShiftLecturePasses(record, deltaMinutes, includeCompleted)
	})
}

func (s *lectureService) Recalc(ctx context.Context, blockID, lectureID string) (*models.LectureRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("recalculating lecture: key=%s", models.LectureKey(blockID, lectureID))

	var outerErr error
	record, err := s.mutate(ctx, blockID, lectureID, func(record models.LectureRecord, now int64) models.LectureRecord {
		defaults, err := s.plannerDefaults(ctx, record)
		if err != nil {
			outerErr = err
			return record
		}
		return scheduler.RecalcLectureSchedule(record, defaults, nil, now)
	})
	if outerErr != nil {
		return nil, outerErr
	}
	return record, err
}

func (s *lectureService) Queues(ctx context.Context) (models.LectureQueues, error) {
	lectures, err := s.lectureRepo.List(ctx, models.LectureFilter{})
	if err != nil {
		return models.LectureQueues{}, errors.NewInternalError(err)
	}
	return scheduler.GroupLectureQueues(lectures, s.now()), nil
}

func (s *lectureService) BulkUpdateStatus(ctx context.Context, blockID string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("bulk status update: block=%s", blockID)

	lectures, err := s.lectureRepo.List(ctx, models.LectureFilter{BlockID: blockID})
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if len(lectures) == 0 {
		return 0, nil
	}

	now := s.now()
	updated := make([]models.LectureRecord, 0, len(lectures))
	for _, lecture := range lectures {
		lecture.Status = scheduler.DeriveLectureStatus(lecture.Passes)
		lecture.NextDueAt = scheduler.CalculateNextDue(lecture.Passes)
		lecture.UpdatedAt = now
		updated = append(updated, lecture)
	}
	if err := s.lectureRepo.PutMany(ctx, updated); err != nil {
		return 0, errors.NewInternalError(err)
	}
	log.Info("updated status of %d lectures", len(updated))
	return len(updated), nil
}

// mutate runs a read-modify-write cycle for one lecture under its key lock.
func (s *lectureService) mutate(ctx context.Context, blockID, lectureID string, fn func(record models.LectureRecord, now int64) models.LectureRecord) (*models.LectureRecord, error) {
	key := models.LectureKey(blockID, lectureID)
	unlock := s.keys.Lock(key)
	defer unlock()

	record, err := s.lectureRepo.Get(ctx, blockID, lectureID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if record == nil {
		return nil, errors.NewNotFoundError("lecture", key)
	}

	now := s.now()
	updated := fn(*record, now)
	updated.UpdatedAt = now

	if err := s.lectureRepo.Put(ctx, updated); err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &updated, nil
}

// plannerDefaults resolves which planner defaults apply to a lecture: its own
// embedded defaults win, otherwise the stored global settings.
func (s *lectureService) plannerDefaults(ctx context.Context, record models.LectureRecord) (*models.PlannerDefaultsInput, error) {
	if record.PlannerDefaults != nil {
		return nil, nil
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if settings == nil {
		return nil, nil
	}
	in := settings.PlannerDefaults.Input()
	return &in, nil
}
