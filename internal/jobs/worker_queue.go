package jobs

import (
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	recalcPool   *worker.Pool
	lectureRepo  repository.LectureRepository
	settingsRepo repository.SettingsRepository
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(recalcPool *worker.Pool, lectureRepo repository.LectureRepository, settingsRepo repository.SettingsRepository) JobQueue {
	return &WorkerQueue{
		recalcPool:   recalcPool,
		lectureRepo:  lectureRepo,
		settingsRepo: settingsRepo,
	}
}

func (q *WorkerQueue) EnqueueRecalc() error {
	return q.recalcPool.Submit(&worker.RecalcSchedulesJob{
		LectureRepo:  q.lectureRepo,
		SettingsRepo: q.settingsRepo,
	})
}
