package onboarding

import (
	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
)

// Plan is a validated, immutable step list.
type Plan struct {
	steps []domain.StepDefinition
}

// NewPlan validates steps once and returns a plan for repeated evaluation.
// It returns a *domain.ConfigError describing every problem in the step graph.
func NewPlan(steps ...domain.StepDefinition) (*Plan, error) {
	if err := validator.ValidateSteps(steps); err != nil {
		return nil, err
	}
	return &Plan{steps: cloneSteps(steps)}, nil
}

// Evaluate runs the plan against snapshot.
func (p *Plan) Evaluate(snapshot domain.Snapshot) (*domain.Evaluation, error) {
	return Evaluate(snapshot, p.steps)
}

// Steps returns a copy of the plan's step definitions.
func (p *Plan) Steps() []domain.StepDefinition {
	return cloneSteps(p.steps)
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.steps)
}

func cloneSteps(steps []domain.StepDefinition) []domain.StepDefinition {
	out := make([]domain.StepDefinition, len(steps))
	for i, s := range steps {
		s.DependsOn = append([]domain.StepID(nil), s.DependsOn...)
		out[i] = s
	}
	return out
}
