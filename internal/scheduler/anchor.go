package scheduler

import (
	"math"
	"strings"
	"time"

	"github.com/vytor/medpass/internal/models"
)

// StartOfDay returns local midnight of the day containing the timestamp,
// in epoch milliseconds.
func StartOfDay(ts int64) int64 {
	t := time.UnixMilli(ts)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.UnixMilli()
}

// ComputeAnchoredDue converts a step's relative offset plus symbolic anchor
// into an absolute due timestamp. The raw due is startAt plus the offset;
// when planner defaults carry an offset for the step's anchor, the due is
// snapped to that time of day on the raw due's date.
//
// An anchor must never pull a non-negative offset earlier than its raw
// offset would place it; in that case the raw due wins.
func ComputeAnchoredDue(startAt int64, step models.PassStep, defaults *models.PlannerDefaults) int64 {
	offset := step.OffsetMinutes
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		offset = 0
	}
	base := startAt + int64(math.Round(offset*minuteMs))
	if defaults == nil {
		return base
	}
	anchorName := strings.TrimSpace(step.Anchor)
	if anchorName == "" {
		anchorName = inferAnchor(offset)
	}
	anchorMinutes, ok := defaults.AnchorOffsets[anchorName]
	if !ok || math.IsNaN(anchorMinutes) || math.IsInf(anchorMinutes, 0) {
		return base
	}
	anchorBase := StartOfDay(base) + int64(math.Round(anchorMinutes*minuteMs))
	if offset >= 0 && anchorBase < base {
		return base
	}
	return anchorBase
}
