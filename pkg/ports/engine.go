package ports

import (
	"context"

	"github.com/aretw0/waymark/pkg/domain"
)

// Engine defines the operations transport adapters expose.
// Implementations keep no per-request state; every call carries its full input.
type Engine interface {
	// Evaluate derives the onboarding checklist for a snapshot.
	Evaluate(ctx context.Context, snapshot domain.Snapshot) (*domain.Evaluation, error)

	// Layout validates intervals and assigns calendar columns.
	Layout(ctx context.Context, intervals []domain.Interval) ([]domain.PositionedInterval, error)

	// Steps returns the active step definitions for introspection.
	Steps() []domain.StepDefinition
}
