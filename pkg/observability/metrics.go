package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/waymark/pkg/domain"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Evaluations   *prometheus.CounterVec
	StepStatus    *prometheus.GaugeVec
	Progress      prometheus.Histogram
	LayoutItems   prometheus.Counter
	LayoutColumns prometheus.Histogram
	Reloads       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waymark_evaluations_total",
				Help: "Total number of onboarding evaluations",
			},
			[]string{"all_complete"},
		),
		StepStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "waymark_step_status",
				Help: "Number of steps per status in the latest evaluation",
			},
			[]string{"step_id", "status"},
		),
		Progress: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waymark_progress_percent",
				Help:    "Distribution of onboarding progress",
				Buckets: prometheus.LinearBuckets(0, 20, 6),
			},
		),
		LayoutItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "waymark_layout_items_total",
				Help: "Total number of calendar items laid out",
			},
		),
		LayoutColumns: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waymark_layout_columns",
				Help:    "Widest overlap cluster per layout call",
				Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
			},
		),
		Reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waymark_reloads_total",
				Help: "Step configuration reloads",
			},
			[]string{"result"},
		),
		gatherer: reg,
	}

	reg.MustRegister(m.Evaluations, m.StepStatus, m.Progress, m.LayoutItems, m.LayoutColumns, m.Reloads)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(_ context.Context, e *domain.EvaluateEvent) {
			if e.Evaluation == nil {
				return
			}
			label := "false"
			if e.Evaluation.AllComplete {
				label = "true"
			}
			m.Evaluations.WithLabelValues(label).Inc()
			m.Progress.Observe(float64(e.Evaluation.ProgressPercent))

			for _, s := range e.Evaluation.Steps {
				for _, status := range []domain.StepStatus{
					domain.StatusComplete, domain.StatusActive, domain.StatusPending, domain.StatusLocked,
				} {
					v := 0.0
					if s.Status == status {
						v = 1
					}
					m.StepStatus.WithLabelValues(string(s.ID), string(status)).Set(v)
				}
			}
		},
		OnLayout: func(_ context.Context, e *domain.LayoutEvent) {
			m.LayoutItems.Add(float64(e.Items))
			if e.Items > 0 {
				m.LayoutColumns.Observe(float64(e.MaxColumns))
			}
		},
		OnReload: func(_ context.Context, e *domain.ReloadEvent) {
			result := "ok"
			if e.Err != nil {
				result = "error"
			}
			m.Reloads.WithLabelValues(result).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
