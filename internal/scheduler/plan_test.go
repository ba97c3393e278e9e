package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/scheduler"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizePassPlan_EmptyInputYieldsDefaultPlan(t *testing.T) {
	plan := scheduler.NormalizePassPlan(models.PassPlanInput{})

	require.Len(t, plan.Schedule, 3)
	assert.Equal(t, "default", plan.ID)
	assert.Equal(t, []float64{0, 1440, 4320}, []float64{
		plan.Schedule[0].OffsetMinutes,
		plan.Schedule[1].OffsetMinutes,
		plan.Schedule[2].OffsetMinutes,
	})
	assert.Equal(t, "Notes", plan.Schedule[0].Action)
	assert.Equal(t, "Review", plan.Schedule[1].Action)
	assert.Equal(t, "Quiz", plan.Schedule[2].Action)
}

func TestNormalizePassPlan_FillsMissingFields(t *testing.T) {
	plan := scheduler.NormalizePassPlan(models.PassPlanInput{
		ID: "  custom  ",
		Schedule: []models.PassStepInput{
			{},
			{Order: intPtr(5), OffsetMinutes: floatPtr(3000), Label: "  "},
		},
	})

	require.Len(t, plan.Schedule, 2)
	first := plan.Schedule[0]
	assert.Equal(t, 1, first.Order, "missing order defaults to 1-based position")
	assert.Equal(t, float64(0), first.OffsetMinutes, "missing offset defaults to default plan offset at index")
	assert.Equal(t, "today", first.Anchor)
	assert.Equal(t, "Pass 1", first.Label)

	second := plan.Schedule[1]
	assert.Equal(t, 5, second.Order)
	assert.Equal(t, "upcoming", second.Anchor, "anchor inferred from offset >= 2880")
	assert.Equal(t, "Pass 5", second.Label, "blank label defaults to Pass {order}")
	assert.Equal(t, "custom", plan.ID)
}

func TestNormalizePassPlan_AnchorInferenceBoundaries(t *testing.T) {
	tests := []struct {
		offset float64
		anchor string
	}{
		{0, "today"},
		{1439, "today"},
		{1440, "tomorrow"},
		{2879, "tomorrow"},
		{2880, "upcoming"},
	}
	for _, tt := range tests {
		plan := scheduler.NormalizePassPlan(models.PassPlanInput{
			Schedule: []models.PassStepInput{{OffsetMinutes: floatPtr(tt.offset)}},
		})
		require.Len(t, plan.Schedule, 1)
		assert.Equal(t, tt.anchor, plan.Schedule[0].Anchor, "offset %v", tt.offset)
	}
}

func TestNormalizePassPlan_SortsByOrder(t *testing.T) {
	plan := scheduler.NormalizePassPlan(models.PassPlanInput{
		Schedule: []models.PassStepInput{
			{Order: intPtr(3), OffsetMinutes: floatPtr(4320)},
			{Order: intPtr(1), OffsetMinutes: floatPtr(0)},
			{Order: intPtr(2), OffsetMinutes: floatPtr(1440)},
		},
	})

	require.Len(t, plan.Schedule, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{plan.Schedule[0].Order, plan.Schedule[1].Order, plan.Schedule[2].Order})
}

func TestNormalizePassPlan_Idempotent(t *testing.T) {
	inputs := []models.PassPlanInput{
		{},
		{Schedule: []models.PassStepInput{}},
		{ID: "x", Schedule: []models.PassStepInput{
			{Order: intPtr(2), Label: "Quiz day", OffsetMinutes: floatPtr(2000), Action: strPtr("Quiz")},
			{},
		}},
	}
	for _, in := range inputs {
		once := scheduler.NormalizePassPlan(in)
		twice := scheduler.NormalizePassPlan(once.Input())
		assert.Equal(t, once, twice)
	}
}

func TestNormalizePlannerDefaults_Empty(t *testing.T) {
	defaults := scheduler.NormalizePlannerDefaults(models.PlannerDefaultsInput{})

	assert.Equal(t, float64(0), defaults.AnchorOffsets["today"])
	assert.Equal(t, float64(480), defaults.AnchorOffsets["tomorrow"])
	assert.Equal(t, float64(480), defaults.AnchorOffsets["upcoming"])
	require.Len(t, defaults.Passes, 3)
	assert.Len(t, defaults.PassColors, 10)
}

func TestNormalizePlannerDefaults_MergesAnchorKeys(t *testing.T) {
	defaults := scheduler.NormalizePlannerDefaults(models.PlannerDefaultsInput{
		AnchorOffsets: map[string]float64{
			"tomorrow": 540,
			"evening":  20 * 60,
		},
	})

	assert.Equal(t, float64(540), defaults.AnchorOffsets["tomorrow"], "supplied key overrides builtin")
	assert.Equal(t, float64(0), defaults.AnchorOffsets["today"], "builtin keys survive")
	assert.Equal(t, float64(1200), defaults.AnchorOffsets["evening"], "custom keys are kept")
}

func TestNormalizePlannerDefaults_PaletteCycling(t *testing.T) {
	defaults := scheduler.NormalizePlannerDefaults(models.PlannerDefaultsInput{
		PassColors: []string{"#111111", " ", "#333333", ""},
	})

	require.Len(t, defaults.PassColors, 4)
	assert.Equal(t, "#111111", defaults.PassColors[0])
	assert.Equal(t, scheduler.DefaultPassColors[1], defaults.PassColors[1], "blank entries cycle the builtin palette")
	assert.Equal(t, "#333333", defaults.PassColors[2])
	assert.Equal(t, scheduler.DefaultPassColors[3], defaults.PassColors[3])
}

func TestNormalizePlannerDefaults_Idempotent(t *testing.T) {
	in := models.PlannerDefaultsInput{
		AnchorOffsets: map[string]float64{"tomorrow": 600},
		Passes: []models.PassStepInput{
			{Order: intPtr(1), OffsetMinutes: floatPtr(30)},
		},
		PassColors: []string{"#abcdef"},
	}
	once := scheduler.NormalizePlannerDefaults(in)
	twice := scheduler.NormalizePlannerDefaults(once.Input())
	assert.Equal(t, once, twice)
}

func TestPlannerDefaultsToPassPlan(t *testing.T) {
	plan := scheduler.PlannerDefaultsToPassPlan(models.PlannerDefaultsInput{
		Passes: []models.PassStepInput{
			{OffsetMinutes: floatPtr(60), Label: "Skim"},
			{OffsetMinutes: floatPtr(1500)},
		},
	})

	assert.Equal(t, "planner-defaults", plan.ID)
	require.Len(t, plan.Schedule, 2)
	assert.Equal(t, "Skim", plan.Schedule[0].Label)
	assert.Equal(t, "tomorrow", plan.Schedule[1].Anchor)
}
