package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/registry"
)

// Loader implements ports.StepLoader over a fixed step list.
type Loader struct {
	steps []domain.StepDefinition
}

// NewLoader creates a new Loader with the provided steps.
// Steps carrying only a GuardName are resolved against registry.Default().
func NewLoader(steps ...domain.StepDefinition) *Loader {
	return &Loader{
		steps: registry.Default().Resolve(steps),
	}
}

// NewFromNames creates a Loader from (id, guard name) pairs in order, for tests and quick setups.
// Each step depends on the one before it.
func NewFromNames(pairs ...string) (*Loader, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("expected id/guard pairs, got %d values", len(pairs))
	}
	steps := make([]domain.StepDefinition, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		s := domain.StepDefinition{
			ID:        domain.StepID(pairs[i]),
			Title:     pairs[i],
			GuardName: pairs[i+1],
		}
		if i > 0 {
			s.DependsOn = []domain.StepID{domain.StepID(pairs[i-2])}
		}
		steps = append(steps, s)
	}
	return NewLoader(steps...), nil
}

// LoadSteps returns a copy of the configured steps.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StepDefinition, error) {
	out := make([]domain.StepDefinition, len(l.steps))
	for i, s := range l.steps {
		s.DependsOn = append([]domain.StepID(nil), s.DependsOn...)
		out[i] = s
	}
	return out, nil
}
