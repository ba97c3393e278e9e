package review

import (
	"sort"

	"github.com/vytor/medpass/internal/models"
)

func collectEntries(items []models.Item, now int64, keep func(snapshot *models.SectionState, now int64) bool) []models.ReviewEntry {
	entries := []models.ReviewEntry{}
	for i := range items {
		item := &items[i]
		for _, def := range SectionDefsForKind(item.Kind) {
			if !HasContent(item, def.Key) {
				continue
			}
			snapshot := SnapshotSectionState(item, def.Key, now)
			if snapshot == nil || snapshot.Retired {
				continue
			}
			if !keep(snapshot, now) {
				continue
			}
			entries = append(entries, models.ReviewEntry{
				ItemID:       item.ID,
				ItemName:     item.Name,
				Kind:         item.Kind,
				SectionKey:   def.Key,
				SectionLabel: def.Label,
				Due:          snapshot.Due,
			})
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Due < entries[b].Due
	})
	return entries
}

// CollectDueSections scans items for sections that have been rated at least
// once and are due now or earlier, sorted ascending by due.
func CollectDueSections(items []models.Item, now int64) []models.ReviewEntry {
	return collectEntries(items, now, func(snapshot *models.SectionState, currentNow int64) bool {
		return snapshot.Last != 0 && snapshot.Due <= currentNow
	})
}

// DefaultUpcomingLimit caps the upcoming review queue when callers do not
// supply their own limit.
const DefaultUpcomingLimit = 50

// CollectUpcomingSections scans items for rated sections due after now,
// excluding retired ones, capped to limit entries (non-positive limits mean
// unlimited).
func CollectUpcomingSections(items []models.Item, now int64, limit int) []models.ReviewEntry {
	entries := collectEntries(items, now, func(snapshot *models.SectionState, currentNow int64) bool {
		if snapshot.Last == 0 {
			return false
		}
		if snapshot.Due == models.RetiredDue {
			return false
		}
		return snapshot.Due > currentNow
	})
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
