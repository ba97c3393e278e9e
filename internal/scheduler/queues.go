package scheduler

import (
	"sort"

	"github.com/vytor/medpass/internal/models"
)

// GroupLectureQueues buckets each lecture's next actionable pass into
// time-relative queues for the dashboard. The next pass is the first
// incomplete one in array order, not the earliest by due date.
func GroupLectureQueues(lectures []models.LectureRecord, now int64) models.LectureQueues {
	result := models.LectureQueues{
		Overdue:  []models.QueueEntry{},
		Today:    []models.QueueEntry{},
		Tomorrow: []models.QueueEntry{},
		Upcoming: []models.QueueEntry{},
	}
	startToday := StartOfDay(now)
	startTomorrow := startToday + dayMinutes*minuteMs
	startDayAfter := startTomorrow + dayMinutes*minuteMs

	for _, lecture := range lectures {
		var nextPass *models.LecturePass
		for i := range lecture.Passes {
			if !lecture.Passes[i].Completed() {
				pass := clonePass(lecture.Passes[i])
				nextPass = &pass
				break
			}
		}
		var due *int64
		if nextPass != nil {
			due = cloneInt64(nextPass.Due)
		}
		entry := models.QueueEntry{Lecture: lecture, Pass: nextPass, Due: due}
		switch {
		case due == nil:
			result.Upcoming = append(result.Upcoming, entry)
		case *due <= now:
			result.Overdue = append(result.Overdue, entry)
		case *due < startTomorrow:
			result.Today = append(result.Today, entry)
		case *due < startDayAfter:
			result.Tomorrow = append(result.Tomorrow, entry)
		default:
			result.Upcoming = append(result.Upcoming, entry)
		}
	}

	for _, bucket := range [][]models.QueueEntry{result.Overdue, result.Today, result.Tomorrow, result.Upcoming} {
		sortQueue(bucket)
	}
	return result
}

// sortQueue orders entries ascending by due, nil dues last, stable.
func sortQueue(entries []models.QueueEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].Due == nil {
			return false
		}
		if entries[b].Due == nil {
			return true
		}
		return *entries[a].Due < *entries[b].Due
	})
}
