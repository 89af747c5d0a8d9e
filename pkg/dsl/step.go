package dsl

import "github.com/aretw0/waymark/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    domain.StepDefinition
	builder *Builder
}

// Title sets the display title.
func (s *StepBuilder) Title(title string) *StepBuilder {
	s.step.Title = title
	return s
}

// Route sets the navigation target the host opens for the step.
func (s *StepBuilder) Route(route string) *StepBuilder {
	s.step.Route = route
	return s
}

// Focus sets the UI focus hint.
func (s *StepBuilder) Focus(key string) *StepBuilder {
	s.step.FocusKey = key
	return s
}

// Describe sets the long description.
func (s *StepBuilder) Describe(text string) *StepBuilder {
	s.step.Description = text
	return s
}

// Guard sets the completion predicate.
func (s *StepBuilder) Guard(fn domain.Guard) *StepBuilder {
	s.step.Guard = fn
	s.step.GuardName = ""
	return s
}

// GuardNamed refers to a registered guard. It is resolved on Build.
func (s *StepBuilder) GuardNamed(name string) *StepBuilder {
	s.step.Guard = nil
	s.step.GuardName = name
	return s
}

// After declares the steps that must be complete before this one unlocks.
func (s *StepBuilder) After(ids ...domain.StepID) *StepBuilder {
	s.step.DependsOn = append(s.step.DependsOn, ids...)
	return s
}

// Step starts the next step on the same builder.
func (s *StepBuilder) Step(id domain.StepID) *StepBuilder {
	return s.builder.Step(id)
}

// Definition returns the underlying domain.StepDefinition.
// Named guards are not resolved here.
func (s *StepBuilder) Definition() domain.StepDefinition {
	return s.step
}

// Done returns the parent builder.
func (s *StepBuilder) Done() *Builder {
	return s.builder
}
