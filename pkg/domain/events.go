package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEvaluate EventType = "evaluate"
	EventLayout   EventType = "layout"
	EventReload   EventType = "reload"
)

// EventBase contains common fields for all events.
type EventBase struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// EvaluateEvent summarizes one checklist evaluation.
type EvaluateEvent struct {
	EventBase
	Evaluation *Evaluation  `json:"evaluation"`
	Duration   time.Duration `json:"duration"`
}

// LayoutEvent summarizes one calendar layout.
type LayoutEvent struct {
	EventBase
	Items      int           `json:"items"`
	Clusters   int           `json:"clusters"`
	MaxColumns int           `json:"max_columns"`
	Duration   time.Duration `json:"duration"`
}

// ReloadEvent reports a step configuration reload.
type ReloadEvent struct {
	EventBase
	Steps int   `json:"steps"`
	Err   error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks receive read-only views; they must not mutate the payloads.
type LifecycleHooks struct {
	OnEvaluate func(context.Context, *EvaluateEvent)
	OnLayout   func(context.Context, *LayoutEvent)
	OnReload   func(context.Context, *ReloadEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnEvaluate: chain(h.OnEvaluate, other.OnEvaluate),
		OnLayout:   chain(h.OnLayout, other.OnLayout),
		OnReload:   chain(h.OnReload, other.OnReload),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
