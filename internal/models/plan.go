package models

// PassStep is one planned touch-point of a pass plan, relative to a
// lecture's start time.
type PassStep struct {
	Order         int     `json:"order"`
	Label         string  `json:"label"`
	OffsetMinutes float64 `json:"offsetMinutes"`
	Anchor        string  `json:"anchor"`
	Action        string  `json:"action"`
}

// PassPlan is an ordered template of passes, independent of any specific
// lecture's start date. Schedule is kept sorted ascending by Order.
type PassPlan struct {
	ID       string     `json:"id"`
	Schedule []PassStep `json:"schedule"`
}

// PlannerDefaults is the application-wide default plan, anchor time-of-day
// table and pass color palette.
type PlannerDefaults struct {
	AnchorOffsets map[string]float64 `json:"anchorOffsets"`
	Passes        []PassStep         `json:"passes"`
	PassColors    []string           `json:"passColors"`
}

// PassStepInput is the partially-specified wire form of a PassStep.
// Nil pointers mark missing numeric fields; blank strings are treated as
// missing text. Action distinguishes absent (nil) from explicitly empty.
type PassStepInput struct {
	Order         *int     `json:"order"`
	Label         string   `json:"label"`
	OffsetMinutes *float64 `json:"offsetMinutes"`
	Anchor        string   `json:"anchor"`
	Action        *string  `json:"action"`
}

// PassPlanInput is the partially-specified wire form of a PassPlan.
// A nil Schedule means "use the default plan"; an empty one is an empty plan.
type PassPlanInput struct {
	ID       string          `json:"id"`
	Schedule []PassStepInput `json:"schedule"`
}

// PlannerDefaultsInput is the partially-specified wire form of
// PlannerDefaults.
type PlannerDefaultsInput struct {
	AnchorOffsets map[string]float64 `json:"anchorOffsets"`
	Passes        []PassStepInput    `json:"passes"`
	PassColors    []string           `json:"passColors"`
}

// Input converts a normalized step back to its wire form so it can be fed
// through the normalizer again.
func (s PassStep) Input() PassStepInput {
	order := s.Order
	offset := s.OffsetMinutes
	action := s.Action
	return PassStepInput{
		Order:         &order,
		Label:         s.Label,
		OffsetMinutes: &offset,
		Anchor:        s.Anchor,
		Action:        &action,
	}
}

// Input converts a normalized plan back to its wire form. A nil schedule
// stays nil so renormalizing still falls back to the default plan.
func (p PassPlan) Input() PassPlanInput {
	if p.Schedule == nil {
		return PassPlanInput{ID: p.ID}
	}
	steps := make([]PassStepInput, len(p.Schedule))
	for i, step := range p.Schedule {
		steps[i] = step.Input()
	}
	return PassPlanInput{ID: p.ID, Schedule: steps}
}

// Input converts normalized planner defaults back to their wire form.
func (d PlannerDefaults) Input() PlannerDefaultsInput {
	var steps []PassStepInput
	if d.Passes != nil {
		steps = make([]PassStepInput, len(d.Passes))
		for i, step := range d.Passes {
			steps[i] = step.Input()
		}
	}
	offsets := make(map[string]float64, len(d.AnchorOffsets))
	for k, v := range d.AnchorOffsets {
		offsets[k] = v
	}
	return PlannerDefaultsInput{
		AnchorOffsets: offsets,
		Passes:        steps,
		PassColors:    append([]string(nil), d.PassColors...),
	}
}
