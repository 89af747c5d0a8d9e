package loam

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/registry"
)

// Loader adapts the Loam library to the Waymark StepLoader interface.
// Each Markdown document is one step: frontmatter holds the step fields, the body its description.
type Loader struct {
	Repo     *loam.TypedRepository[StepMetadata]
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRegistry sets the registry used to resolve guard names.
func WithRegistry(r *registry.Registry) Option {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithLogger sets the logger used for skipped documents.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[StepMetadata], opts ...Option) *Loader {
	l := &Loader{
		Repo:     repo,
		registry: registry.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
// Strict mode keeps numeric frontmatter consistent across Markdown, JSON and YAML documents.
func Open(path string, opts ...Option) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[StepMetadata](repo), opts...), nil
}

type orderedStep struct {
	step  domain.StepDefinition
	order int
}

// LoadSteps lists every document, converts it to a step and validates the result.
// Documents with neither an id nor a guard in their frontmatter are not steps and are skipped.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StepDefinition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[domain.StepID]string)
	collected := make([]orderedStep, 0, len(docs))

	for _, doc := range docs {
		meta := doc.Data
		if meta.ID == "" && meta.Guard == "" {
			l.logger.Debug("skipping non-step document", "doc", doc.ID)
			continue
		}

		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := domain.StepID(trimExtension(rawID))

		// doc.ID is the repository-relative path.
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: step '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		step := domain.StepDefinition{
			ID:          id,
			Title:       meta.Title,
			Route:       meta.Route,
			FocusKey:    meta.FocusKey,
			Description: strings.TrimSpace(doc.Content),
			GuardName:   meta.Guard,
		}
		if step.Title == "" {
			step.Title = string(id)
		}
		for _, dep := range meta.DependsOn {
			step.DependsOn = append(step.DependsOn, domain.StepID(trimExtension(dep)))
		}
		collected = append(collected, orderedStep{step: step, order: meta.Order})
	}

	slices.SortStableFunc(collected, func(a, b orderedStep) int {
		return cmp.Compare(a.order, b.order)
	})

	steps := make([]domain.StepDefinition, len(collected))
	for i, c := range collected {
		steps[i] = c.step
	}
	steps = l.registry.Resolve(steps)

	if err := validator.ValidateSteps(steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	// Loam debounces internally; the doublestar pattern avoids manual filtering.
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
