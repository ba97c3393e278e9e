package scheduler_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/scheduler"
)

func TestNormalizeLecturePasses_MaterializesDefaultPlan(t *testing.T) {
	start := localMillis(2024, time.March, 12, 9, 0)

	passes := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{
		StartAt: int64Ptr(start),
		Now:     start,
	})

	require.Len(t, passes, 3)
	require.NotNil(t, passes[0].Due)
	assert.Equal(t, start, *passes[0].Due, "pass 1 is due at the start time")
	assert.Nil(t, passes[0].CompletedAt)
	assert.NotNil(t, passes[0].Attachments)
	assert.Empty(t, passes[0].Attachments)
}

func TestNormalizeLecturePasses_PreservesExistingDue(t *testing.T) {
	start := localMillis(2024, time.March, 12, 9, 0)
	committed := localMillis(2024, time.March, 20, 15, 0)
	existing := []models.LecturePass{
		{Order: 1, Due: int64Ptr(committed)},
	}

	passes := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{
		Passes:  existing,
		StartAt: int64Ptr(start),
		Now:     start,
	})

	require.Len(t, passes, 3)
	require.NotNil(t, passes[0].Due)
	assert.Equal(t, committed, *passes[0].Due, "committed dates are never recomputed")

	again := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{
		Passes:  passes,
		StartAt: int64Ptr(start),
		Now:     start,
	})
	assert.Equal(t, passes, again, "renormalizing is a no-op")
}

func TestNormalizeLecturePasses_PreservesCompletionAndMetadata(t *testing.T) {
	start := localMillis(2024, time.March, 12, 9, 0)
	done := localMillis(2024, time.March, 12, 11, 0)
	existing := []models.LecturePass{
		{Order: 1, Label: "First read", Action: "Skim", CompletedAt: int64Ptr(done), Attachments: []json.RawMessage{
			json.RawMessage(`{"note":"slides"}`),
			json.RawMessage(`null`),
		}},
	}

	passes := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{
		Passes:  existing,
		StartAt: int64Ptr(start),
		Now:     start,
	})

	require.Len(t, passes, 3)
	first := passes[0]
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, done, *first.CompletedAt)
	assert.Equal(t, "First read", first.Label)
	assert.Equal(t, "Skim", first.Action)
	require.Len(t, first.Attachments, 1, "null attachments are skipped")
	assert.JSONEq(t, `{"note":"slides"}`, string(first.Attachments[0]))
}

func TestNormalizeLecturePasses_MatchesByOrderBeforeIndex(t *testing.T) {
	start := localMillis(2024, time.March, 12, 9, 0)
	committed := localMillis(2024, time.March, 18, 8, 0)
	// Existing list stores pass 2 first; the match must go by order.
	existing := []models.LecturePass{
		{Order: 2, Due: int64Ptr(committed)},
	}

	passes := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{
		Passes:  existing,
		StartAt: int64Ptr(start),
		Now:     start,
	})

	require.Len(t, passes, 3)
	require.NotNil(t, passes[1].Due)
	assert.Equal(t, committed, *passes[1].Due)
}

func TestNormalizeLecturePasses_FallsBackToNowWithoutStart(t *testing.T) {
	now := localMillis(2024, time.March, 12, 9, 0)

	passes := scheduler.NormalizeLecturePasses(scheduler.NormalizeInput{Now: now})

	require.Len(t, passes, 3)
	require.NotNil(t, passes[0].Due)
	assert.Equal(t, now, *passes[0].Due)
}

func TestRecalcLectureSchedule(t *testing.T) {
	start := localMillis(2024, time.March, 12, 9, 0)
	done := localMillis(2024, time.March, 12, 10, 0)
	lecture := models.LectureRecord{
		Key:     "block-1|lec-1",
		BlockID: "block-1",
		ID:      "lec-1",
		StartAt: int64Ptr(start),
		Passes: []models.LecturePass{
			{Order: 1, CompletedAt: int64Ptr(done), Due: int64Ptr(start)},
		},
	}

	out := scheduler.RecalcLectureSchedule(lecture, nil, nil, start)

	require.Len(t, out.Passes, 3)
	assert.Equal(t, models.StateInProgress, out.Status.State)
	require.NotNil(t, out.NextDueAt)
	assert.NotNil(t, out.PlannerDefaults)
	assert.Len(t, lecture.Passes, 1, "input record is not mutated")
}
