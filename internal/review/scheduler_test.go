package review_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/review"
)

func diseaseItem() *models.Item {
	return &models.Item{
		ID:   "item-1",
		Kind: "disease",
		Name: "Sarcoidosis",
		Sections: map[string]string{
			"etiology":  "<p>Unknown, immune mediated</p>",
			"treatment": "Steroids",
		},
		Lectures: []models.LectureRef{{BlockID: "pulm", ID: "lec-3"}},
	}
}

func TestSectionDigest(t *testing.T) {
	item := diseaseItem()

	digest := review.SectionDigest(item, "etiology")
	assert.NotEmpty(t, digest)
	assert.Equal(t, digest, review.SectionDigest(item, "etiology"), "digest is deterministic")

	item.Sections["etiology"] = "edited"
	assert.NotEqual(t, digest, review.SectionDigest(item, "etiology"))

	assert.Empty(t, review.SectionDigest(item, "missing"), "absent content has no digest")
}

func TestLectureScope(t *testing.T) {
	item := diseaseItem()
	item.Lectures = []models.LectureRef{
		{BlockID: "pulm", ID: "lec-3"},
		{BlockID: "cards", ID: "lec-1"},
		{BlockID: "pulm", ID: "lec-3"},
	}

	scope := review.LectureScope(item)
	assert.Equal(t, []string{"cards|lec-1", "pulm|lec-3"}, scope, "sorted and de-duplicated")

	item.Lectures = nil
	assert.Equal(t, []string{review.UnassignedLectureToken}, review.LectureScope(item))
}

func TestRateSection_StreakGrowth(t *testing.T) {
	now := int64(1_700_000_000_000)
	steps := models.ReviewSteps{Again: 10, Hard: 60, Good: 720, Easy: 2160}
	item := diseaseItem()

	state := review.RateSection(item, "etiology", models.RatingGood, steps, now)
	require.NotNil(t, state)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, now+720*60*1000, state.Due, "first good review uses multiplier 1")

	state = review.RateSection(item, "etiology", models.RatingGood, steps, now)
	assert.Equal(t, 2, state.Streak)
	assert.Equal(t, now+2*720*60*1000, state.Due)

	state = review.RateSection(item, "etiology", models.RatingEasy, steps, now)
	assert.Equal(t, 4, state.Streak)
	assert.Equal(t, now+4*2160*60*1000, state.Due)

	state = review.RateSection(item, "etiology", models.RatingAgain, steps, now)
	assert.Equal(t, 0, state.Streak)
	assert.Equal(t, now+10*60*1000, state.Due, "again always uses multiplier 1")

	state = review.RateSection(item, "etiology", models.RatingHard, steps, now)
	assert.Equal(t, 1, state.Streak, "hard clamps the streak up to 1")
	assert.Equal(t, now+60*60*1000, state.Due)
}

func TestRateSection_UnknownRatingBehavesAsGood(t *testing.T) {
	now := int64(1_700_000_000_000)
	item := diseaseItem()

	state := review.RateSection(item, "etiology", models.Rating("perfect"), review.DefaultReviewSteps, now)

	require.NotNil(t, state)
	assert.Equal(t, models.RatingGood, state.LastRating)
	assert.Equal(t, 1, state.Streak)
}

func TestRateSection_Retire(t *testing.T) {
	now := int64(1_700_000_000_000)
	item := diseaseItem()
	review.RateSection(item, "etiology", models.RatingGood, review.DefaultReviewSteps, now)

	state := review.RateSection(item, "etiology", models.RatingRetire, review.DefaultReviewSteps, now)

	require.NotNil(t, state)
	assert.True(t, state.Retired)
	assert.Equal(t, models.RetiredDue, state.Due)
	assert.Equal(t, 0, state.Streak)
	assert.Equal(t, models.RatingRetire, state.LastRating)
	assert.NotEmpty(t, state.ContentDigest, "digest stamped on retire")
}

func TestRateSection_NonPositiveStepsFallBackToDefaults(t *testing.T) {
	now := int64(1_700_000_000_000)
	item := diseaseItem()

	state := review.RateSection(item, "etiology", models.RatingGood, models.ReviewSteps{}, now)

	require.NotNil(t, state)
	assert.Equal(t, now+720*60*1000, state.Due)
}

func TestSnapshotSectionState_NeverRatedReturnsNil(t *testing.T) {
	item := diseaseItem()
	assert.Nil(t, review.SnapshotSectionState(item, "etiology", 1000))
}

func TestSnapshotSectionState_ContentChangeResets(t *testing.T) {
	now := int64(1_700_000_000_000)
	later := now + 1000
	item := diseaseItem()
	review.RateSection(item, "etiology", models.RatingEasy, review.DefaultReviewSteps, now)

	item.Sections["etiology"] = "completely rewritten"
	snapshot := review.SnapshotSectionState(item, "etiology", later)

	require.NotNil(t, snapshot)
	assert.Equal(t, 0, snapshot.Streak)
	assert.Equal(t, models.Rating(""), snapshot.LastRating)
	assert.Equal(t, later, snapshot.Due, "edited content is due immediately")
	assert.False(t, snapshot.Retired)
	assert.Equal(t, review.SectionDigest(item, "etiology"), snapshot.ContentDigest, "new digest stamped")

	// A second read with unchanged content must not invalidate again.
	second := review.SnapshotSectionState(item, "etiology", later+5000)
	assert.Equal(t, later, second.Due)
}

func TestSnapshotSectionState_RemovedLectureResets(t *testing.T) {
	now := int64(1_700_000_000_000)
	later := now + 1000
	item := diseaseItem()
	review.RateSection(item, "etiology", models.RatingGood, review.DefaultReviewSteps, now)

	item.Lectures = []models.LectureRef{{BlockID: "cards", ID: "other"}}
	snapshot := review.SnapshotSectionState(item, "etiology", later)

	require.NotNil(t, snapshot)
	assert.Equal(t, 0, snapshot.Streak)
	assert.Equal(t, later, snapshot.Due)
	assert.Equal(t, []string{"cards|other"}, snapshot.LectureScope)
}

func TestSnapshotSectionState_ContentChangeUnretires(t *testing.T) {
	now := int64(1_700_000_000_000)
	later := now + 1000
	item := diseaseItem()
	review.RateSection(item, "etiology", models.RatingRetire, review.DefaultReviewSteps, now)

	item.Sections["etiology"] = "new material"
	snapshot := review.SnapshotSectionState(item, "etiology", later)

	require.NotNil(t, snapshot)
	assert.False(t, snapshot.Retired, "content edits reactivate retired sections")
	assert.Equal(t, later, snapshot.Due)
}

func TestSnapshotSectionState_RetireIsStickyWithoutChanges(t *testing.T) {
	now := int64(1_700_000_000_000)
	item := diseaseItem()
	review.RateSection(item, "etiology", models.RatingRetire, review.DefaultReviewSteps, now)

	snapshot := review.SnapshotSectionState(item, "etiology", now+1000)

	require.NotNil(t, snapshot)
	assert.True(t, snapshot.Retired)
	assert.Equal(t, models.RetiredDue, snapshot.Due)
}

func TestNormalizeSectionState(t *testing.T) {
	state := review.NormalizeSectionState(models.SectionState{
		Streak:       -4,
		LastRating:   models.Rating("bogus"),
		Last:         -100,
		Due:          -5,
		LectureScope: []string{" b|l ", "b|l", "", "a|x"},
	})

	assert.Equal(t, 0, state.Streak)
	assert.Equal(t, models.Rating(""), state.LastRating)
	assert.Equal(t, int64(0), state.Last)
	assert.Equal(t, int64(0), state.Due)
	assert.Equal(t, []string{"a|x", "b|l"}, state.LectureScope)
}

func TestNormalizeReviewSteps(t *testing.T) {
	steps := review.NormalizeReviewSteps(map[string]float64{
		"again": 5,
		"good":  -1,
		"easy":  0,
	})

	assert.Equal(t, float64(5), steps.Again)
	assert.Equal(t, float64(60), steps.Hard, "missing keys keep defaults")
	assert.Equal(t, float64(720), steps.Good, "non-positive overrides are ignored")
	assert.Equal(t, float64(2160), steps.Easy)
}
