package review

import (
	"math"

	"github.com/vytor/medpass/internal/models"
)

// EnsureSR makes sure an item carries a well-formed review record and
// returns it.
func EnsureSR(item *models.Item) *models.SRRecord {
	if item.SR.Version != models.SRVersion || item.SR.Sections == nil {
		item.SR = NormalizeSRRecord(item.SR)
	}
	return &item.SR
}

func ensureSectionState(item *models.Item, key string) *models.SectionState {
	sr := EnsureSR(item)
	if existing, ok := sr.Sections[key]; ok && existing != nil {
		normalized := NormalizeSectionState(*existing)
		sr.Sections[key] = &normalized
	} else {
		fresh := DefaultSectionState()
		sr.Sections[key] = &fresh
	}
	return sr.Sections[key]
}

// SnapshotSectionState reads the live review state of one section: the
// stored record normalized, then checked against the section's current
// content digest and lecture scope. Content edits or removed lecture links
// reset the schedule in place, making the section immediately due again. The
// current digest and scope are always stamped so the next read does not
// spuriously invalidate. Returns nil when the section was never scheduled.
func SnapshotSectionState(item *models.Item, key string, now int64) *models.SectionState {
	if item == nil || key == "" || item.SR.Sections == nil {
		return nil
	}
	entry, ok := item.SR.Sections[key]
	if !ok || entry == nil {
		return nil
	}
	normalized := NormalizeSectionState(*entry)

	digest := SectionDigest(item, key)
	scope := LectureScope(item)
	storedScope := normalizeScope(normalized.LectureScope)
	removedLectures := false
	for _, token := range storedScope {
		if !containsToken(scope, token) {
			removedLectures = true
			break
		}
	}
	contentChanged := normalized.ContentDigest != "" && digest != "" && normalized.ContentDigest != digest
	if contentChanged || removedLectures {
		normalized.Streak = 0
		normalized.LastRating = ""
		normalized.Last = now
		normalized.Due = now
		normalized.Retired = false
	}
	normalized.ContentDigest = digest
	normalized.LectureScope = scope

	item.SR.Sections[key] = &normalized
	return &normalized
}

func containsToken(scope []string, token string) bool {
	for _, entry := range scope {
		if entry == token {
			return true
		}
	}
	return false
}

// RateSection applies a review rating to one section and returns the new
// state. "retire" parks the section with the never-due sentinel; any other
// rating grows or resets the streak and schedules the next due as
// base-interval times the streak multiplier. Unknown ratings count as
// "good". The current digest and scope are stamped either way.
func RateSection(item *models.Item, key string, rating models.Rating, steps models.ReviewSteps, now int64) *models.SectionState {
	if item == nil || key == "" {
		return nil
	}
	normalizedSteps := normalizeSteps(steps)

	if rating == models.RatingRetire {
		section := ensureSectionState(item, key)
		section.Streak = 0
		section.LastRating = models.RatingRetire
		section.Last = now
		section.Due = models.RetiredDue
		section.Retired = true
		section.ContentDigest = SectionDigest(item, key)
		section.LectureScope = LectureScope(item)
		return section
	}

	normalizedRating := rating
	switch normalizedRating {
	case models.RatingAgain, models.RatingHard, models.RatingGood, models.RatingEasy:
	default:
		normalizedRating = models.RatingGood
	}

	section := ensureSectionState(item, key)
	section.ContentDigest = SectionDigest(item, key)
	section.LectureScope = LectureScope(item)

	streak := section.Streak
	switch normalizedRating {
	case models.RatingAgain:
		streak = 0
	case models.RatingHard:
		if streak < 1 {
			streak = 1
		}
	case models.RatingEasy:
		streak += 2
	default:
		streak++
	}

	multiplier := 1
	if normalizedRating != models.RatingAgain && streak > 1 {
		multiplier = streak
	}
	intervalMinutes := normalizedSteps.Base(normalizedRating) * float64(multiplier)

	section.Streak = streak
	section.LastRating = normalizedRating
	section.Last = now
	section.Retired = false
	section.Due = now + int64(math.Round(intervalMinutes*60*1000))
	return section
}
