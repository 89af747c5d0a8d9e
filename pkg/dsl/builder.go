package dsl

import (
	"fmt"

	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/registry"
)

// Builder manages the checklist construction.
// Steps keep the order in which they were first added.
type Builder struct {
	order    []domain.StepID
	steps    map[domain.StepID]*StepBuilder
	registry *registry.Registry
}

// New creates a new checklist builder resolving named guards from registry.Default().
func New() *Builder {
	return &Builder{
		steps:    make(map[domain.StepID]*StepBuilder),
		registry: registry.Default(),
	}
}

// WithRegistry sets the registry used by GuardNamed.
func (b *Builder) WithRegistry(r *registry.Registry) *Builder {
	b.registry = r
	return b
}

// Step creates a new step at the end of the checklist.
// If the step already exists, it returns the existing builder.
func (b *Builder) Step(id domain.StepID) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.StepDefinition{
			ID:    id,
			Title: string(id),
		},
		builder: b,
	}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build resolves named guards and validates the step graph.
func (b *Builder) Build() ([]domain.StepDefinition, error) {
	steps := make([]domain.StepDefinition, 0, len(b.order))
	for _, id := range b.order {
		steps = append(steps, b.steps[id].step)
	}
	if b.registry != nil {
		steps = b.registry.Resolve(steps)
	}

	if err := validator.ValidateSteps(steps); err != nil {
		return nil, fmt.Errorf("invalid checklist: %w", err)
	}
	return steps, nil
}

// MustBuild is like Build but panics on error. Intended for static checklists.
func (b *Builder) MustBuild() []domain.StepDefinition {
	steps, err := b.Build()
	if err != nil {
		panic(err)
	}
	return steps
}
