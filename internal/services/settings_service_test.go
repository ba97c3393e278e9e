package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/review"
	"github.com/vytor/medpass/internal/testutil/mocks"
)

func TestSettingsGet_DefaultsWhenUnset(t *testing.T) {
	settingsRepo := new(mocks.MockSettingsRepository)
	jobQueue := new(mocks.MockJobQueue)
	svc := NewSettingsService(settingsRepo, jobQueue)

	settingsRepo.On("Get", mock.Anything).Return(nil, nil)

	settings, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, review.DefaultReviewSteps, settings.ReviewSteps)
	assert.Equal(t, float64(0), settings.PlannerDefaults.AnchorOffsets["today"])
	assert.Len(t, settings.PlannerDefaults.Passes, 3)
}

func TestSettingsSave_NormalizesReviewSteps(t *testing.T) {
	settingsRepo := new(mocks.MockSettingsRepository)
	jobQueue := new(mocks.MockJobQueue)
	svc := NewSettingsService(settingsRepo, jobQueue)

	settingsRepo.On("Get", mock.Anything).Return(nil, nil)

	var stored models.Settings
	settingsRepo.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.Settings)
	}).Return(nil)

	settings, err := svc.Save(context.Background(), models.SettingsInput{
		ReviewSteps: map[string]float64{
			"again": -5, // invalid, keeps default
			"hard":  30,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, review.DefaultReviewSteps.Again, settings.ReviewSteps.Again)
	assert.Equal(t, float64(30), settings.ReviewSteps.Hard)
	assert.Equal(t, settings.ReviewSteps, stored.ReviewSteps)
	jobQueue.AssertNotCalled(t, "EnqueueRecalc")
}

func TestSettingsSave_PlannerChangeEnqueuesRecalc(t *testing.T) {
	settingsRepo := new(mocks.MockSettingsRepository)
	jobQueue := new(mocks.MockJobQueue)
	svc := NewSettingsService(settingsRepo, jobQueue)

	settingsRepo.On("Get", mock.Anything).Return(nil, nil)
	settingsRepo.On("Put", mock.Anything, mock.Anything).Return(nil)
	jobQueue.On("EnqueueRecalc").Return(nil)

	settings, err := svc.Save(context.Background(), models.SettingsInput{
		PlannerDefaults: &models.PlannerDefaultsInput{
			AnchorOffsets: map[string]float64{"today": 9 * 60},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(9*60), settings.PlannerDefaults.AnchorOffsets["today"])
	jobQueue.AssertCalled(t, "EnqueueRecalc")
}

func TestSettingsSave_UnchangedPlannerSkipsRecalc(t *testing.T) {
	settingsRepo := new(mocks.MockSettingsRepository)
	jobQueue := new(mocks.MockJobQueue)
	svc := NewSettingsService(settingsRepo, jobQueue)

	settingsRepo.On("Get", mock.Anything).Return(nil, nil)
	settingsRepo.On("Put", mock.Anything, mock.Anything).Return(nil)

	// An empty planner input normalizes to the builtin defaults, which is
	// what an unset store already means.
	_, err := svc.Save(context.Background(), models.SettingsInput{
		PlannerDefaults: &models.PlannerDefaultsInput{},
	})
	require.NoError(t, err)

	jobQueue.AssertNotCalled(t, "EnqueueRecalc")
}
