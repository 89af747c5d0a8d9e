package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waymark"
	httpAdapter "github.com/aretw0/waymark/pkg/adapters/http"
	"github.com/aretw0/waymark/pkg/adapters/memory"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/session"
)

func newTestServer(t *testing.T, opts ...httpAdapter.Option) (http.Handler, *memory.Store) {
	t.Helper()
	eng, err := waymark.New()
	require.NoError(t, err)

	store := memory.NewStore()
	opts = append([]httpAdapter.Option{
		httpAdapter.WithStore(store),
		httpAdapter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return httpAdapter.NewHandler(eng, opts...), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSpec(t *testing.T) {
	doc, err := httpAdapter.Spec()
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/evaluate"))
}

func TestHealthAndInfo(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "waymark-http", info["app"])
	assert.Equal(t, waymark.Version, info["version"])
	assert.Equal(t, "1.0.0", info["api_version"])
	assert.EqualValues(t, 5, info["steps"])
}

func TestEvaluate(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantInBody string
	}{
		{
			name:       "Profile Only",
			body:       `{"has_full_name":true,"has_phone":true,"has_business_name":true}`,
			wantStatus: http.StatusOK,
			wantInBody: `"current_step_id":"customers"`,
		},
		{
			name:       "Empty Snapshot",
			body:       `{}`,
			wantStatus: http.StatusOK,
			wantInBody: `"current_step_id":"profile"`,
		},
		{
			name:       "Unknown Field",
			body:       `{"has_pets":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Negative Count",
			body:       `{"customer_count":-1}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Wrong Type",
			body:       `{"bank_linked":"yes"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Not JSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/evaluate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantInBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantInBody)
			}
		})
	}
}

func TestLayout(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/layout", `{"intervals":[
		{"id":"A","start":"2024-03-04T09:00:00Z","end":"2024-03-04T10:00:00Z","payload":{"customer":"acme"}},
		{"id":"B","start":"2024-03-04T09:30:00Z","end":"2024-03-04T10:30:00Z"},
		{"id":"C","start":"2024-03-04T10:15:00Z","end":"2024-03-04T11:00:00Z"}
	]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Items []struct {
			ID           string         `json:"id"`
			Column       int            `json:"column"`
			TotalColumns int            `json:"total_columns"`
			Left         float64        `json:"left"`
			Width        float64        `json:"width"`
			Payload      map[string]any `json:"payload"`
		} `json:"items"`
		Clusters   int `json:"clusters"`
		MaxColumns int `json:"max_columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)

	assert.Equal(t, 1, resp.Clusters)
	assert.Equal(t, 2, resp.MaxColumns)
	assert.Equal(t, "B", resp.Items[1].ID)
	assert.Equal(t, 1, resp.Items[1].Column)
	assert.InDelta(t, 0.5, resp.Items[1].Left, 1e-9)
	assert.InDelta(t, 0.5, resp.Items[1].Width, 1e-9)
	assert.Equal(t, "acme", resp.Items[0].Payload["customer"])
}

func TestLayout_Rejects(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/layout", `{"intervals":[{"id":"bad","start":"2024-03-04T10:00:00Z","end":"2024-03-04T09:00:00Z"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad")

	w = do(t, h, "POST", "/layout", `{"intervals":[{"id":"x"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "start and end are required")

	w = do(t, h, "POST", "/layout", `{"intervals":[]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestSteps(t *testing.T) {
	h, store := newTestServer(t)

	w := do(t, h, "GET", "/steps", "")
	require.Equal(t, http.StatusOK, w.Code)
	var steps []domain.StepDefinition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &steps))
	require.Len(t, steps, 5)
	assert.Equal(t, domain.StepProfile, steps[0].ID)
	assert.Equal(t, "profile_complete", steps[0].GuardName)

	w = do(t, h, "GET", "/steps/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.NotContains(t, w.Body.String(), "classDef")

	require.NoError(t, store.Save(context.Background(), "acme", domain.Snapshot{BankLinked: true}))
	w = do(t, h, "GET", "/steps/graph?tenant=acme", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "class bank complete;")

	w = do(t, h, "GET", "/steps/graph?tenant=ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantLifecycle(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/tenants/acme/onboarding", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "PUT", "/tenants/acme/snapshot", `{"has_full_name":true,"has_phone":true,"has_business_name":true,"customer_count":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"current_step_id":"content"`)

	w = do(t, h, "GET", "/tenants/acme/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customer_count":2`)

	w = do(t, h, "GET", "/tenants/acme/onboarding", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress_percent":40`)

	w = do(t, h, "GET", "/tenants", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["acme"]`, w.Body.String())

	w = do(t, h, "DELETE", "/tenants/acme/snapshot", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/tenants/acme/snapshot", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "PUT", "/tenants/bad%20id/snapshot", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "tenant id must match the path pattern")
}

func TestPutSnapshot_ConcurrentWrites(t *testing.T) {
	store := memory.NewStore()
	h, _ := newTestServer(t, httpAdapter.WithStore(session.NewManager(store)))

	bodies := []string{
		`{"has_full_name":true,"has_phone":true,"has_business_name":true}`,
		`{"customer_count":2}`,
		`{"job_count":1,"bank_linked":true}`,
	}
	done := make(chan int, len(bodies)*3)
	for i := 0; i < cap(done); i++ {
		go func(body string) {
			done <- do(t, h, "PUT", "/tenants/acme/snapshot", body).Code
		}(bodies[i%len(bodies)])
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, http.StatusOK, <-done)
	}

	snap, err := store.Load(context.Background(), "acme")
	require.NoError(t, err)
	var written []domain.Snapshot
	for _, b := range bodies {
		var want domain.Snapshot
		require.NoError(t, json.Unmarshal([]byte(b), &want))
		written = append(written, want)
	}
	assert.Contains(t, written, snap, "store holds one of the complete writes")
}

func TestTenants_WithoutStore(t *testing.T) {
	eng, err := waymark.New()
	require.NoError(t, err)
	h := httpAdapter.NewHandler(eng, httpAdapter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	w := do(t, h, "GET", "/tenants", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestMetricsAndDocs(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "waymark_up 1\n")
	})
	h, _ := newTestServer(t, httpAdapter.WithMetrics(metrics))

	w := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "waymark_up")

	w = do(t, h, "GET", "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = do(t, h, "OPTIONS", "/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeTenant(t *testing.T) {
	eng, err := waymark.New()
	require.NoError(t, err)
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), "acme", domain.Snapshot{}))

	h := httpAdapter.NewHandler(eng, httpAdapter.WithStore(store), httpAdapter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/tenants/acme/events?watch=current", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		buf := make([]byte, 4096)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				lines <- string(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()

	var received strings.Builder
	waitFor := func(substr string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for !strings.Contains(received.String(), substr) {
			select {
			case chunk, ok := <-lines:
				if !ok {
					t.Fatalf("stream closed before %q; got %s", substr, received.String())
				}
				received.WriteString(chunk)
			case <-deadline:
				t.Fatalf("timed out waiting for %q; got %s", substr, received.String())
			}
		}
	}

	waitFor("event: ping")
	waitFor(`"current_step_id":"profile"`)

	// Filtered out: only the bank status changes, the current step stays on profile.
	w := do(t, h, "PUT", "/tenants/acme/snapshot", `{"bank_linked":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "PUT", "/tenants/acme/snapshot", `{"has_full_name":true,"has_phone":true,"has_business_name":true,"bank_linked":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	waitFor(`"current_step_id":"customers"`)
	assert.NotContains(t, received.String(), `"bank":"complete"`)
}

func TestSubscribeReloads_StaticEngine(t *testing.T) {
	h, _ := newTestServer(t)
	w := do(t, h, "GET", "/events", "")
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

func TestStreamManager(t *testing.T) {
	sm := httpAdapter.NewStreamManager(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ch, cancel := sm.Subscribe("acme")
	assert.Equal(t, 1, sm.Count("acme"))

	sm.Broadcast("acme", "hello")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "hello", <-ch)

	// Full buffers drop rather than block.
	for i := 0; i < 20; i++ {
		sm.Broadcast("acme", "spam")
	}

	cancel()
	cancel()
	assert.Zero(t, sm.Count("acme"))
}
