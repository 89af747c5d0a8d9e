package waymark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/waymark/pkg/calendar"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/onboarding"
	"github.com/aretw0/waymark/pkg/ports"
)

// ErrNotWatchable is returned by Watch when the configured loader cannot signal changes.
var ErrNotWatchable = errors.New("current loader does not support watching")

// Engine is the high-level entry point. It owns a validated step plan and
// exposes the onboarding evaluation and calendar layout as one service.
type Engine struct {
	Name string

	mu     sync.RWMutex
	plan   *onboarding.Plan
	steps  []domain.StepDefinition
	loader ports.StepLoader
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

var _ ports.Engine = (*Engine)(nil)

// Option configures the Engine.
type Option func(*Engine)

// WithSteps uses a fixed step list instead of the built-in checklist.
func WithSteps(steps ...domain.StepDefinition) Option {
	return func(e *Engine) {
		e.steps = steps
	}
}

// WithLoader injects a step source. It takes precedence over WithSteps and
// enables Reload and Watch.
func WithLoader(l ports.StepLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLifecycleHooks registers observability hooks.
// Hooks registered by successive calls are chained.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets the structured logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine in logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New creates an Engine. Without WithSteps or WithLoader it serves the
// built-in five step checklist.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{Name: "waymark"}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	eng.logger = eng.logger.With("engine", eng.Name)

	switch {
	case eng.loader != nil:
		steps, err := eng.loader.LoadSteps(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load steps: %w", err)
		}
		plan, err := onboarding.NewPlan(steps...)
		if err != nil {
			return nil, err
		}
		eng.plan = plan
	case eng.steps != nil:
		plan, err := onboarding.NewPlan(eng.steps...)
		if err != nil {
			return nil, err
		}
		eng.plan = plan
	default:
		eng.plan = onboarding.DefaultPlan()
	}
	eng.steps = nil

	eng.logger.Debug("engine ready", "steps", eng.plan.Len())
	return eng, nil
}

// Evaluate derives the checklist state for a tenant snapshot.
// The result is freshly allocated; callers may keep or mutate it.
func (e *Engine) Evaluate(ctx context.Context, snapshot domain.Snapshot) (*domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := e.currentPlan()
	start := time.Now()
	eval, err := plan.Evaluate(snapshot)
	if err != nil {
		e.logger.Error("evaluation failed", "err", err)
		return nil, err
	}

	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &domain.EvaluateEvent{
			EventBase:  newEventBase(domain.EventEvaluate),
			Evaluation: eval,
			Duration:   time.Since(start),
		})
	}

	e.logger.Debug("evaluated",
		"current", eval.CurrentStepID,
		"progress", eval.ProgressPercent,
		"all_complete", eval.AllComplete)
	return eval, nil
}

// Layout assigns calendar columns to intervals. Intervals that end before
// they start are rejected with domain.ErrInvalidInterval.
func (e *Engine) Layout(ctx context.Context, intervals []domain.Interval) ([]domain.PositionedInterval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := calendar.Validate(intervals); err != nil {
		return nil, err
	}

	start := time.Now()
	out := calendar.Layout(intervals)
	summary := calendar.Summarize(out)

	if e.hooks.OnLayout != nil {
		e.hooks.OnLayout(ctx, &domain.LayoutEvent{
			EventBase:  newEventBase(domain.EventLayout),
			Items:      summary.Items,
			Clusters:   summary.Clusters,
			MaxColumns: summary.MaxColumns,
			Duration:   time.Since(start),
		})
	}

	e.logger.Debug("laid out", "items", summary.Items, "clusters", summary.Clusters, "max_columns", summary.MaxColumns)
	return out, nil
}

// Steps returns a copy of the active step definitions.
func (e *Engine) Steps() []domain.StepDefinition {
	return e.currentPlan().Steps()
}

// Loader returns the step loader, or nil for a static engine.
func (e *Engine) Loader() ports.StepLoader {
	return e.loader
}

// Reload re-reads steps from the loader and swaps the plan atomically.
// On failure the previous plan stays active. A static engine reloads nothing.
func (e *Engine) Reload(ctx context.Context) error {
	if e.loader == nil {
		return nil
	}

	steps, err := e.loader.LoadSteps(ctx)
	var plan *onboarding.Plan
	if err == nil {
		plan, err = onboarding.NewPlan(steps...)
	}

	event := &domain.ReloadEvent{EventBase: newEventBase(domain.EventReload), Err: err}
	if err != nil {
		e.logger.Warn("reload failed, keeping previous steps", "err", err)
	} else {
		e.mu.Lock()
		e.plan = plan
		e.mu.Unlock()
		event.Steps = plan.Len()
		e.logger.Info("steps reloaded", "steps", plan.Len())
	}

	if e.hooks.OnReload != nil {
		e.hooks.OnReload(ctx, event)
	}
	return err
}

// Watch returns a channel that signals when the underlying step source changes.
// Returns ErrNotWatchable if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// AutoReload watches the loader and reloads on every change until ctx is done.
// Reload failures are logged and do not stop the loop.
func (e *Engine) AutoReload(ctx context.Context) error {
	changes, err := e.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-changes:
			if !ok {
				return nil
			}
			e.logger.Debug("step source changed", "source", name)
			_ = e.Reload(ctx)
		}
	}
}

func (e *Engine) currentPlan() *onboarding.Plan {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.plan
}

func newEventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      t,
	}
}
