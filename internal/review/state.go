package review

import (
	"math"

	"github.com/vytor/medpass/internal/models"
)

// DefaultReviewSteps are the base intervals in minutes used when settings do
// not override them.
var DefaultReviewSteps = models.ReviewSteps{
	Again: 10,
	Hard:  60,
	Good:  720,
	Easy:  2160,
}

// NormalizeReviewSteps fills a rating-to-minutes table from a raw settings
// map, keeping only positive finite overrides.
func NormalizeReviewSteps(raw map[string]float64) models.ReviewSteps {
	steps := DefaultReviewSteps
	apply := func(target *float64, value float64) {
		if value > 0 && !math.IsNaN(value) && !math.IsInf(value, 0) {
			*target = value
		}
	}
	if raw != nil {
		if v, ok := raw["again"]; ok {
			apply(&steps.Again, v)
		}
		if v, ok := raw["hard"]; ok {
			apply(&steps.Hard, v)
		}
		if v, ok := raw["good"]; ok {
			apply(&steps.Good, v)
		}
		if v, ok := raw["easy"]; ok {
			apply(&steps.Easy, v)
		}
	}
	return steps
}

func normalizeSteps(steps models.ReviewSteps) models.ReviewSteps {
	out := DefaultReviewSteps
	apply := func(target *float64, value float64) {
		if value > 0 && !math.IsNaN(value) && !math.IsInf(value, 0) {
			*target = value
		}
	}
	apply(&out.Again, steps.Again)
	apply(&out.Hard, steps.Hard)
	apply(&out.Good, steps.Good)
	apply(&out.Easy, steps.Easy)
	return out
}

// DefaultSectionState returns a fresh, never-reviewed section state.
func DefaultSectionState() models.SectionState {
	return models.SectionState{LectureScope: []string{}}
}

func validRating(rating models.Rating) bool {
	switch rating {
	case models.RatingAgain, models.RatingHard, models.RatingGood, models.RatingEasy, models.RatingRetire:
		return true
	}
	return false
}

// NormalizeSectionState defensively rebuilds a stored section record:
// negative counters and timestamps drop to zero and unknown ratings are
// discarded.
func NormalizeSectionState(record models.SectionState) models.SectionState {
	out := DefaultSectionState()
	if record.Streak > 0 {
		out.Streak = record.Streak
	}
	if validRating(record.LastRating) {
		out.LastRating = record.LastRating
	}
	if record.Last > 0 {
		out.Last = record.Last
	}
	if record.Due > 0 {
		out.Due = record.Due
	}
	out.Retired = record.Retired
	out.ContentDigest = record.ContentDigest
	if len(record.LectureScope) > 0 {
		out.LectureScope = normalizeScope(record.LectureScope)
	}
	return out
}

// NormalizeSRRecord rebuilds an item's whole review record at the current
// version, dropping sections with empty keys.
func NormalizeSRRecord(sr models.SRRecord) models.SRRecord {
	out := models.SRRecord{
		Version:  models.SRVersion,
		Sections: make(map[string]*models.SectionState),
	}
	for key, state := range sr.Sections {
		if key == "" || state == nil {
			continue
		}
		normalized := NormalizeSectionState(*state)
		out.Sections[key] = &normalized
	}
	return out
}
