// Package scheduler implements the lecture pass scheduling core: pass plan
// normalization, anchor-based due dates, pass materialization, status
// derivation, queue grouping and scope-limited rescheduling.
//
// Every function here is a pure computation over plain data. Malformed input
// is coerced to a safe default rather than rejected; nothing in this package
// reads the clock implicitly or touches storage.
package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vytor/medpass/internal/models"
)

const (
	dayMinutes = 24 * 60
	minuteMs   = 60 * 1000
)

// DefaultPassColors is the built-in pass color palette, cycled for any
// missing palette entries.
var DefaultPassColors = []string{
	"#38bdf8",
	"#22d3ee",
	"#34d399",
	"#4ade80",
	"#fbbf24",
	"#fb923c",
	"#f472b6",
	"#a855f7",
	"#6366f1",
	"#14b8a6",
}

// DefaultPassPlan returns the built-in three-pass plan.
func DefaultPassPlan() models.PassPlan {
	return models.PassPlan{
		ID: "default",
		Schedule: []models.PassStep{
			{Order: 1, Label: "Pass 1", OffsetMinutes: 0, Anchor: "today", Action: "Notes"},
			{Order: 2, Label: "Pass 2", OffsetMinutes: 24 * 60, Anchor: "tomorrow", Action: "Review"},
			{Order: 3, Label: "Pass 3", OffsetMinutes: 72 * 60, Anchor: "upcoming", Action: "Quiz"},
		},
	}
}

// DefaultPlannerDefaults returns the built-in planner defaults: anchor
// offsets in minutes from midnight, the default plan's steps and the full
// color palette.
func DefaultPlannerDefaults() models.PlannerDefaults {
	plan := DefaultPassPlan()
	return models.PlannerDefaults{
		AnchorOffsets: map[string]float64{
			"today":    0,
			"tomorrow": 8 * 60,
			"upcoming": 8 * 60,
		},
		Passes:     plan.Schedule,
		PassColors: append([]string(nil), DefaultPassColors...),
	}
}

func finiteOr(value *float64, fallback float64) float64 {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return fallback
	}
	return *value
}

func sanitizeLabel(label string, order int) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("Pass %d", order)
}

func sanitizeAction(action string) string {
	return strings.TrimSpace(action)
}

// inferAnchor picks a symbolic anchor for an offset: same-day offsets stay
// "today", second-day offsets are "tomorrow", the rest "upcoming".
func inferAnchor(offsetMinutes float64) string {
	if math.IsNaN(offsetMinutes) || math.IsInf(offsetMinutes, 0) {
		return "today"
	}
	if offsetMinutes < dayMinutes {
		return "today"
	}
	if offsetMinutes < dayMinutes*2 {
		return "tomorrow"
	}
	return "upcoming"
}

// NormalizePassPlan validates and completes a possibly partial pass plan.
// Missing orders default to the 1-based position, missing offsets to the
// default plan's offset at the same position (0 beyond it), blank anchors are
// inferred from the offset and the result is sorted by order. The function is
// idempotent: renormalizing a normalized plan is a no-op.
func NormalizePassPlan(in models.PassPlanInput) models.PassPlan {
	defaults := DefaultPassPlan()
	source := in.Schedule
	if source == nil {
		source = defaults.Input().Schedule
	}

	schedule := make([]models.PassStep, 0, len(source))
	for i, step := range source {
		order := i + 1
		if step.Order != nil {
			order = *step.Order
		}
		var fallbackOffset float64
		var fallbackAction string
		if i < len(defaults.Schedule) {
			fallbackOffset = defaults.Schedule[i].OffsetMinutes
			fallbackAction = defaults.Schedule[i].Action
		}
		offset := finiteOr(step.OffsetMinutes, fallbackOffset)
		anchor := strings.TrimSpace(step.Anchor)
		if anchor == "" {
			anchor = inferAnchor(offset)
		}
		action := fallbackAction
		if step.Action != nil {
			action = *step.Action
		}
		schedule = append(schedule, models.PassStep{
			Order:         order,
			Label:         sanitizeLabel(step.Label, order),
			OffsetMinutes: offset,
			Anchor:        anchor,
			Action:        sanitizeAction(action),
		})
	}
	sort.SliceStable(schedule, func(a, b int) bool {
		return schedule[a].Order < schedule[b].Order
	})

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = defaults.ID
	}
	return models.PassPlan{ID: id, Schedule: schedule}
}

// NormalizePlannerDefaults validates and completes a planner defaults
// document. Anchor offsets are the union of the built-in table and any
// supplied keys, passes run through NormalizePassPlan, and the color palette
// cycles the built-in one for missing entries.
func NormalizePlannerDefaults(in models.PlannerDefaultsInput) models.PlannerDefaults {
	builtin := DefaultPlannerDefaults()

	offsets := make(map[string]float64, len(builtin.AnchorOffsets)+len(in.AnchorOffsets))
	for key, fallback := range builtin.AnchorOffsets {
		offsets[key] = fallback
	}
	for key, value := range in.AnchorOffsets {
		fallback := builtin.AnchorOffsets[key]
		if math.IsNaN(value) || math.IsInf(value, 0) {
			offsets[key] = fallback
		} else {
			offsets[key] = value
		}
	}

	passesSource := in.Passes
	if passesSource == nil {
		passesSource = models.PassPlan{Schedule: builtin.Passes}.Input().Schedule
	}
	plan := NormalizePassPlan(models.PassPlanInput{Schedule: passesSource})

	paletteSource := in.PassColors
	if len(paletteSource) == 0 {
		paletteSource = DefaultPassColors
	}
	colors := make([]string, len(paletteSource))
	for i, color := range paletteSource {
		if trimmed := strings.TrimSpace(color); trimmed != "" {
			colors[i] = trimmed
		} else {
			colors[i] = DefaultPassColors[i%len(DefaultPassColors)]
		}
	}

	return models.PlannerDefaults{
		AnchorOffsets: offsets,
		Passes:        plan.Schedule,
		PassColors:    colors,
	}
}

// PlannerDefaultsToPassPlan builds a concrete pass plan out of a planner
// defaults template, for lectures created without an explicit plan.
func PlannerDefaultsToPassPlan(in models.PlannerDefaultsInput) models.PassPlan {
	normalized := NormalizePlannerDefaults(in)
	plan := NormalizePassPlan(models.PassPlan{Schedule: normalized.Passes}.Input())
	plan.ID = "planner-defaults"
	return plan
}
