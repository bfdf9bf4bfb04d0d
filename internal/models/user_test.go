package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupStepRank(t *testing.T) {
	steps := []SetupStep{StepVerifyEmail, StepProfileCompletion, StepSubscriptionSelection, StepCompleted}
	for i, s := range steps {
		assert.True(t, s.Valid(), s)
		assert.Equal(t, i, s.Rank(), s)
	}

	assert.False(t, SetupStep("onboarding").Valid())
	assert.Equal(t, -1, SetupStep("onboarding").Rank())
	assert.Equal(t, -1, SetupStep("").Rank())
}

func TestParseSetupStep(t *testing.T) {
	s, err := ParseSetupStep("profile_completion")
	require.NoError(t, err)
	assert.Equal(t, StepProfileCompletion, s)

	_, err = ParseSetupStep("Profile_Completion")
	assert.ErrorIs(t, err, ErrValidation)
}
