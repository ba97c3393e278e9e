package services

import (
	"context"
	"encoding/json"

	"github.com/vytor/medpass/internal/errors"
	"github.com/vytor/medpass/internal/jobs"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/review"
	"github.com/vytor/medpass/internal/scheduler"
)

// SettingsService handles the application settings document
type SettingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, input models.SettingsInput) (models.Settings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	jobQueue     jobs.JobQueue
	keys         *keyLock
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repository.SettingsRepository, jobQueue jobs.JobQueue) SettingsService {
	return &settingsService{
		settingsRepo: settingsRepo,
		jobQueue:     jobQueue,
		keys:         newKeyLock(),
	}
}

func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	stored, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return models.Settings{}, errors.NewInternalError(err)
	}
	if stored == nil {
		return defaultSettings(), nil
	}
	return *stored, nil
}

func (s *settingsService) Save(ctx context.Context, input models.SettingsInput) (models.Settings, error) {
	log := logger.FromContext(ctx)
	log.Debug("saving settings")

	unlock := s.keys.Lock("settings")
	defer unlock()

	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return models.Settings{}, errors.NewInternalError(err)
	}
	merged := defaultSettings()
	if current != nil {
		merged = *current
	}

	if input.ReviewSteps != nil {
		merged.ReviewSteps = review.NormalizeReviewSteps(input.ReviewSteps)
	}
	plannerChanged := false
	if input.PlannerDefaults != nil {
		normalized := scheduler.NormalizePlannerDefaults(*input.PlannerDefaults)
		plannerChanged = !plannerDefaultsEqual(merged.PlannerDefaults, normalized)
		merged.PlannerDefaults = normalized
	}

	if err := s.settingsRepo.Put(ctx, merged); err != nil {
		log.Error("failed to store settings: %v", err)
		return models.Settings{}, errors.NewInternalError(err)
	}

	if plannerChanged {
		log.Info("planner defaults changed, enqueueing schedule recalculation")
		if err := s.jobQueue.EnqueueRecalc(); err != nil {
			log.Warn("failed to enqueue recalculation: %v", err)
			// Settings are stored; schedules catch up on the next recalc.
		}
	}
	return merged, nil
}

func defaultSettings() models.Settings {
	return models.Settings{
		ReviewSteps:     review.DefaultReviewSteps,
		PlannerDefaults: scheduler.DefaultPlannerDefaults(),
	}
}

// plannerDefaultsEqual compares two normalized planner defaults documents by
// their canonical JSON form.
func plannerDefaultsEqual(a, b models.PlannerDefaults) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}
