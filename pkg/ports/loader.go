package ports

import (
	"context"

	"github.com/aretw0/waymark/pkg/domain"
)

// StepLoader defines how the engine retrieves step definitions.
// This allows the configuration source (Loam, file, memory) to be decoupled.
type StepLoader interface {
	// LoadSteps returns the ordered step list with guards resolved.
	// Validation of the step graph is left to the caller.
	LoadSteps(ctx context.Context) ([]domain.StepDefinition, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that receives the name of each changed source.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
