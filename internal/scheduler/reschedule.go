package scheduler

import (
	"math"
	"sort"

	"github.com/vytor/medpass/internal/models"
)

// ShiftPassesForScope applies a push/pull shift to a scoped subset of a
// lecture's schedule: the targeted pass alone, or the chain of passes at or
// after/before it. Both the plan's offsets and the incomplete passes' due
// dates move; completed history never does. Because a shift can reorder
// steps relative to each other, steps are re-sorted by resulting offset
// (ties keep the original order), orders are reassigned 1..n and each pass
// follows its originating step through the reorder.
func ShiftPassesForScope(lecture models.LectureRecord, targetOrder int, deltaMinutes float64, scope models.ShiftScope) models.LectureRecord {
	passes := clonePasses(lecture.Passes)
	if deltaMinutes == 0 || math.IsNaN(deltaMinutes) || math.IsInf(deltaMinutes, 0) || len(passes) == 0 {
		return rederive(lecture, passes)
	}

	if scope != models.ScopeChainAfter && scope != models.ScopeChainBefore {
		scope = models.ScopeSingle
	}
	inScope := func(order int) bool {
		switch scope {
		case models.ScopeChainAfter:
			return order >= targetOrder
		case models.ScopeChainBefore:
			return order <= targetOrder
		default:
			return order == targetOrder
		}
	}

	schedule := append([]models.PassStep(nil), lecture.PassPlan.Schedule...)
	for i := range schedule {
		if !inScope(schedule[i].Order) {
			continue
		}
		schedule[i].OffsetMinutes = math.Max(0, schedule[i].OffsetMinutes+deltaMinutes)
	}

	shiftMs := int64(math.Round(deltaMinutes * minuteMs))
	for i := range passes {
		if !inScope(passes[i].Order) || passes[i].Completed() || passes[i].Due == nil {
			continue
		}
		moved := *passes[i].Due + shiftMs
		if moved < 0 {
			moved = 0
		}
		passes[i].Due = &moved
	}

	// The schedule arrives sorted by order, so a stable sort by offset
	// breaks ties by original order.
	sort.SliceStable(schedule, func(a, b int) bool {
		return schedule[a].OffsetMinutes < schedule[b].OffsetMinutes
	})
	orderMap := make(map[int]int, len(schedule))
	for i := range schedule {
		oldOrder := schedule[i].Order
		if _, seen := orderMap[oldOrder]; !seen {
			orderMap[oldOrder] = i + 1
		}
		schedule[i].Order = i + 1
	}
	for i := range passes {
		if newOrder, ok := orderMap[passes[i].Order]; ok {
			passes[i].Order = newOrder
		}
		if idx := passes[i].Order - 1; idx >= 0 && idx < len(schedule) {
			passes[i].OffsetMinutes = schedule[idx].OffsetMinutes
		}
	}
	sort.SliceStable(passes, func(a, b int) bool {
		return passes[a].Order < passes[b].Order
	})

	out := rederive(lecture, passes)
	out.PassPlan = models.PassPlan{ID: lecture.PassPlan.ID, Schedule: schedule}
	return out
}
