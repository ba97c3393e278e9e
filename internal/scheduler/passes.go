package scheduler

import (
	"encoding/json"
	"strings"

	"github.com/vytor/medpass/internal/models"
)

// NormalizeInput carries everything needed to materialize a lecture's pass
// list. Now must be supplied by the caller; StartAt falls back to Now when
// unset.
type NormalizeInput struct {
	Plan     *models.PassPlanInput
	Passes   []models.LecturePass
	Defaults *models.PlannerDefaultsInput
	StartAt  *int64
	Now      int64
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// sanitizeAttachments deep-copies attachment payloads, skipping null or
// invalid entries rather than aborting the normalization.
func sanitizeAttachments(raw []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(raw))
	for _, att := range raw {
		trimmed := strings.TrimSpace(string(att))
		if trimmed == "" || trimmed == "null" || !json.Valid(att) {
			continue
		}
		out = append(out, append(json.RawMessage(nil), att...))
	}
	return out
}

func clonePass(p models.LecturePass) models.LecturePass {
	out := p
	out.Due = cloneInt64(p.Due)
	out.CompletedAt = cloneInt64(p.CompletedAt)
	out.Attachments = sanitizeAttachments(p.Attachments)
	return out
}

func clonePasses(passes []models.LecturePass) []models.LecturePass {
	out := make([]models.LecturePass, len(passes))
	for i, p := range passes {
		out[i] = clonePass(p)
	}
	return out
}

// NormalizeLecturePasses merges a plan, planner defaults and a lecture's
// existing pass history into a canonical pass list. This is the single place
// a plan template becomes concrete, stateful passes, and it is safe to call
// repeatedly: an already-set due date is never recomputed and completion
// history is never lost.
func NormalizeLecturePasses(in NormalizeInput) []models.LecturePass {
	planInput := models.PassPlanInput{}
	if in.Plan != nil {
		planInput = *in.Plan
	}
	plan := NormalizePassPlan(planInput)

	existing := in.Passes
	byOrder := make(map[int]*models.LecturePass, len(existing))
	for i := range existing {
		order := existing[i].Order
		if order == 0 {
			order = i + 1
		}
		if _, seen := byOrder[order]; !seen {
			byOrder[order] = &existing[i]
		}
	}

	defaultsInput := models.PlannerDefaultsInput{}
	if in.Defaults != nil {
		defaultsInput = *in.Defaults
	}
	planner := NormalizePlannerDefaults(defaultsInput)

	start := in.Now
	if in.StartAt != nil {
		start = *in.StartAt
	}

	passes := make([]models.LecturePass, 0, len(plan.Schedule))
	for i, step := range plan.Schedule {
		var prior *models.LecturePass
		if match, ok := byOrder[step.Order]; ok {
			prior = match
		} else if i < len(existing) {
			prior = &existing[i]
		}

		var due *int64
		var completedAt *int64
		label := step.Label
		anchor := step.Anchor
		action := step.Action
		var attachments []json.RawMessage
		if prior != nil {
			due = cloneInt64(prior.Due)
			completedAt = cloneInt64(prior.CompletedAt)
			if strings.TrimSpace(prior.Label) != "" {
				label = prior.Label
			}
			if prior.Anchor != "" {
				anchor = prior.Anchor
			}
			if prior.Action != "" {
				action = prior.Action
			}
			attachments = prior.Attachments
		}
		if due == nil {
			computed := ComputeAnchoredDue(start, step, &planner)
			due = &computed
		}
		if anchor == "" {
			anchor = inferAnchor(step.OffsetMinutes)
		}

		passes = append(passes, models.LecturePass{
			Order:         step.Order,
			Label:         sanitizeLabel(label, step.Order),
			OffsetMinutes: step.OffsetMinutes,
			Anchor:        anchor,
			Due:           due,
			CompletedAt:   completedAt,
			Attachments:   sanitizeAttachments(attachments),
			Action:        sanitizeAction(action),
		})
	}
	return passes
}

// RecalcLectureSchedule renormalizes a lecture's plan, planner defaults and
// passes, then re-derives status and next due. It returns a new record;
// committed due dates on existing passes stay untouched.
func RecalcLectureSchedule(lecture models.LectureRecord, defaults *models.PlannerDefaultsInput, startAt *int64, now int64) models.LectureRecord {
	planInput := lecture.PassPlan.Input()
	plan := NormalizePassPlan(planInput)

	defaultsInput := models.PlannerDefaultsInput{}
	if defaults != nil {
		defaultsInput = *defaults
	} else if lecture.PlannerDefaults != nil {
		defaultsInput = lecture.PlannerDefaults.Input()
	}
	planner := NormalizePlannerDefaults(defaultsInput)

	if startAt == nil {
		startAt = lecture.StartAt
	}
	passes := NormalizeLecturePasses(NormalizeInput{
		Plan:     ptr(plan.Input()),
		Passes:   lecture.Passes,
		Defaults: ptr(planner.Input()),
		StartAt:  startAt,
		Now:      now,
	})

	out := lecture
	out.PassPlan = plan
	out.PlannerDefaults = &planner
	out.Passes = passes
	out.Status = DeriveLectureStatus(passes)
	out.NextDueAt = CalculateNextDue(passes)
	return out
}

func ptr[T any](v T) *T {
	return &v
}
