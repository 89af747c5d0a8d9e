package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/domain"
)

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan(DefaultSteps()...)
	require.NoError(t, err)
	assert.Equal(t, 5, plan.Len())

	eval, err := plan.Evaluate(profileOnly)
	require.NoError(t, err)
	assert.Equal(t, domain.StepCustomers, eval.CurrentStepID)
}

func TestNewPlan_RejectsInvalidGraph(t *testing.T) {
	always := func(domain.Snapshot) bool { return true }

	_, err := NewPlan(
		domain.StepDefinition{ID: "a", Guard: always, DependsOn: []domain.StepID{"b"}},
		domain.StepDefinition{ID: "b", Guard: always, DependsOn: []domain.StepID{"a"}},
	)
	assert.ErrorIs(t, err, domain.ErrDependencyCycle)

	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestNewPlan_Empty(t *testing.T) {
	plan, err := NewPlan()
	require.NoError(t, err)

	eval, err := plan.Evaluate(domain.Snapshot{})
	require.NoError(t, err)
	assert.True(t, eval.AllComplete)
}

func TestPlan_StepsAreCopies(t *testing.T) {
	plan := DefaultPlan()

	steps := plan.Steps()
	steps[0].Title = "changed"
	steps[1].DependsOn[0] = "ghost"

	fresh := plan.Steps()
	assert.Equal(t, "Complete your profile", fresh[0].Title)
	assert.Equal(t, domain.StepProfile, fresh[1].DependsOn[0])
}

func TestDefaultSteps(t *testing.T) {
	steps := DefaultSteps()
	ids := make([]domain.StepID, len(steps))
	for i, s := range steps {
		ids[i] = s.ID
		assert.NotNil(t, s.Guard, s.ID)
		assert.NotEmpty(t, s.Route, s.ID)
	}
	assert.Equal(t, []domain.StepID{
		domain.StepProfile, domain.StepCustomers, domain.StepContent, domain.StepBank, domain.StepSubscription,
	}, ids)
	assert.Len(t, steps[4].DependsOn, 4)
}
