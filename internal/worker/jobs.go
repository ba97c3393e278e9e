package worker

import (
	"context"
	"time"

	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/scheduler"
)

// RecalcSchedulesJob re-derives every lecture's pass schedule against the
// current planner defaults. It is enqueued after a planner defaults change so
// stored schedules pick up new offsets without blocking the settings request.
type RecalcSchedulesJob struct {
	LectureRepo  repository.LectureRepository
	SettingsRepo repository.SettingsRepository
}

func (j *RecalcSchedulesJob) Name() string { return "recalc_schedules" }

func (j *RecalcSchedulesJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	settings, err := j.SettingsRepo.Get(ctx)
	if err != nil {
		log.Error("failed to load settings: %v", err)
		return err
	}

	var defaults *models.PlannerDefaultsInput
	if settings != nil {
		in := settings.PlannerDefaults.Input()
		defaults = &in
	}

	lectures, err := j.LectureRepo.List(ctx, models.LectureFilter{})
	if err != nil {
		log.Error("failed to list lectures: %v", err)
		return err
	}
	if len(lectures) == 0 {
		log.Debug("no lectures to recalculate")
		return nil
	}

	now := time.Now().UnixMilli()
	updated := make([]models.LectureRecord, 0, len(lectures))
	for _, lecture := range lectures {
		rec := scheduler.RecalcLectureSchedule(lecture, defaults, nil, now)
		rec.UpdatedAt = now
		updated = append(updated, rec)
	}

	if err := j.LectureRepo.PutMany(ctx, updated); err != nil {
		log.Error("failed to store recalculated lectures: %v", err)
		return err
	}
	log.Info("recalculated %d lecture schedules", len(updated))
	return nil
}
