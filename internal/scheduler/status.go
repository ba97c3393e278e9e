package scheduler

import (
	"math"

	"github.com/vytor/medpass/internal/models"
)

// CalculateNextDue returns the earliest due among incomplete passes, or nil
// when nothing is pending.
func CalculateNextDue(passes []models.LecturePass) *int64 {
	var next *int64
	for _, pass := range passes {
		if pass.Completed() || pass.Due == nil {
			continue
		}
		if next == nil || *pass.Due < *next {
			next = cloneInt64(pass.Due)
		}
	}
	return next
}

// DeriveLectureStatus reduces a pass list to its aggregate status. The state
// is a pure function of the passes.
func DeriveLectureStatus(passes []models.LecturePass) models.LectureStatus {
	total := len(passes)
	completed := 0
	var lastCompletedAt *int64
	for _, pass := range passes {
		if !pass.Completed() {
			continue
		}
		completed++
		if lastCompletedAt == nil || *pass.CompletedAt > *lastCompletedAt {
			lastCompletedAt = cloneInt64(pass.CompletedAt)
		}
	}

	state := models.StatePending
	switch {
	case total == 0:
		state = models.StateUnscheduled
	case completed == 0:
		state = models.StatePending
	case completed < total:
		state = models.StateInProgress
	default:
		state = models.StateComplete
	}
	return models.LectureStatus{
		State:           state,
		CompletedPasses: completed,
		LastCompletedAt: lastCompletedAt,
	}
}

func rederive(lecture models.LectureRecord, passes []models.LecturePass) models.LectureRecord {
	out := lecture
	out.Passes = passes
	out.Status = DeriveLectureStatus(passes)
	out.NextDueAt = CalculateNextDue(passes)
	return out
}

// MarkPassCompleted stamps a completion time on one pass and re-derives
// status and next due, returning a new record. An out-of-range index returns
// an unmodified but re-derived clone.
func MarkPassCompleted(lecture models.LectureRecord, passIndex int, completedAt int64) models.LectureRecord {
	passes := clonePasses(lecture.Passes)
	if passIndex >= 0 && passIndex < len(passes) {
		passes[passIndex].CompletedAt = &completedAt
	}
	return rederive(lecture, passes)
}

// ShiftLecturePasses moves every scheduled due date by shiftMinutes.
// Completed passes keep their dates unless includeCompleted is set.
func ShiftLecturePasses(lecture models.LectureRecord, shiftMinutes float64, includeCompleted bool) models.LectureRecord {
	if math.IsNaN(shiftMinutes) || math.IsInf(shiftMinutes, 0) {
		shiftMinutes = 0
	}
	shiftMs := int64(math.Round(shiftMinutes * minuteMs))
	passes := clonePasses(lecture.Passes)
	for i := range passes {
		if passes[i].Due == nil {
			continue
		}
		if !includeCompleted && passes[i].Completed() {
			continue
		}
		moved := *passes[i].Due + shiftMs
		passes[i].Due = &moved
	}
	return rederive(lecture, passes)
}
