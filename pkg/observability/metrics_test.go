package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark/pkg/domain"
)

func TestMetricsHooks(t *testing.T) {
	m := NewMetrics(nil)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnEvaluate(ctx, &domain.EvaluateEvent{Evaluation: &domain.Evaluation{
		ProgressPercent: 20,
		Steps: []domain.StepState{
			{ID: "profile", Status: domain.StatusComplete},
			{ID: "customers", Status: domain.StatusActive},
		},
	}})
	hooks.OnEvaluate(ctx, &domain.EvaluateEvent{Evaluation: &domain.Evaluation{ProgressPercent: 100, AllComplete: true}})
	hooks.OnEvaluate(ctx, &domain.EvaluateEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepStatus.WithLabelValues("customers", "active")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.StepStatus.WithLabelValues("customers", "locked")))

	hooks.OnLayout(ctx, &domain.LayoutEvent{Items: 3, MaxColumns: 2})
	assert.Equal(t, 3.0, testutil.ToFloat64(m.LayoutItems))

	hooks.OnReload(ctx, &domain.ReloadEvent{Steps: 5})
	hooks.OnReload(ctx, &domain.ReloadEvent{Err: errors.New("bad file")})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reloads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reloads.WithLabelValues("error")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(nil)
	m.Hooks().OnLayout(context.Background(), &domain.LayoutEvent{Items: 1, MaxColumns: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "waymark_layout_items_total 1")
}
