package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/presentation/graph"
	"github.com/aretw0/waymark/pkg/calendar"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
	"github.com/aretw0/waymark/pkg/schema"
	"github.com/aretw0/waymark/pkg/session"
)

// Engine is the core the HTTP adapter serves.
type Engine interface {
	ports.Engine
	Watch(ctx context.Context) (<-chan string, error)
}

// Server holds the handler dependencies.
type Server struct {
	Engine  Engine
	Store   *session.Manager
	Streams *StreamManager

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStore enables the /tenants endpoints. Stores that are not already a
// *session.Manager are wrapped in one so tenant writes are serialized.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Server) {
		if m, ok := store.(*session.Manager); ok {
			s.Store = m
			return
		}
		s.Store = session.NewManager(store)
	}
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the engine.
// It panics if the embedded OpenAPI document is invalid.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{Engine: engine}
	for _, opt := range opts {
		opt(server)
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	server.Streams = NewStreamManager(server.logger)

	_, router, err := loadSpec()
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(validateRequests(router))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/steps", server.ListSteps)
	r.Get("/steps/graph", server.GetStepGraph)
	r.Post("/evaluate", server.Evaluate)
	r.Post("/layout", server.Layout)
	r.Get("/events", server.SubscribeReloads)

	r.Route("/tenants", func(r chi.Router) {
		r.Get("/", server.ListTenants)
		r.Route("/{tenantID}", func(r chi.Router) {
			r.Get("/snapshot", server.GetSnapshot)
			r.Put("/snapshot", server.PutSnapshot)
			r.Delete("/snapshot", server.DeleteSnapshot)
			r.Get("/onboarding", server.GetOnboarding)
			r.Get("/events", server.SubscribeTenant)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if doc, err := Spec(); err == nil && doc.Info != nil {
		apiVersion = doc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "waymark-http",
		"version":     waymark.Version,
		"api_version": apiVersion,
		"steps":       len(s.Engine.Steps()),
	})
}

// ListSteps handles the GET /steps request.
func (s *Server) ListSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Steps())
}

// GetStepGraph handles the GET /steps/graph request. With ?tenant= the
// graph is styled by that tenant's current statuses.
func (s *Server) GetStepGraph(w http.ResponseWriter, r *http.Request) {
	var eval *domain.Evaluation
	if tenant := r.URL.Query().Get("tenant"); tenant != "" {
		var err error
		eval, err = s.evaluateTenant(r.Context(), tenant)
		if err != nil {
			s.fail(w, "GetStepGraph", err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Steps(), eval))
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	snap, err := decodeSnapshot(r)
	if err != nil {
		s.fail(w, "Evaluate", err)
		return
	}

	eval, err := s.Engine.Evaluate(r.Context(), snap)
	if err != nil {
		s.fail(w, "Evaluate", err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

type layoutRequest struct {
	Intervals []domain.Interval `json:"intervals"`
}

type layoutItem struct {
	domain.PositionedInterval
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type layoutResponse struct {
	Items      []layoutItem `json:"items"`
	Clusters   int          `json:"clusters"`
	MaxColumns int          `json:"max_columns"`
}

// Layout handles the POST /layout request.
func (s *Server) Layout(w http.ResponseWriter, r *http.Request) {
	var body layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	out, err := s.Engine.Layout(r.Context(), body.Intervals)
	if err != nil {
		s.fail(w, "Layout", err)
		return
	}

	summary := calendar.Summarize(out)
	resp := layoutResponse{
		Items:      make([]layoutItem, len(out)),
		Clusters:   summary.Clusters,
		MaxColumns: summary.MaxColumns,
	}
	for i, p := range out {
		left, width := calendar.Geometry(p)
		resp.Items[i] = layoutItem{PositionedInterval: p, Left: left, Width: width}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListTenants handles the GET /tenants request.
func (s *Server) ListTenants(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.fail(w, "ListTenants", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetSnapshot handles the GET /tenants/{tenantID}/snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	snap, err := s.Store.Load(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.fail(w, "GetSnapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// PutSnapshot handles the PUT /tenants/{tenantID}/snapshot request.
// It stores the snapshot, answers with its evaluation and pushes the
// evaluation diff to the tenant's event subscribers.
func (s *Server) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ctx := r.Context()
	tenantID := chi.URLParam(r, "tenantID")

	snap, err := decodeSnapshot(r)
	if err != nil {
		s.fail(w, "PutSnapshot", err)
		return
	}

	eval, err := s.Engine.Evaluate(ctx, snap)
	if err != nil {
		s.fail(w, "PutSnapshot", err)
		return
	}

	// Diffs are broadcast under the tenant lock so subscribers receive them in write order.
	err = s.Store.SwapFunc(ctx, tenantID, snap, func(ctx context.Context, replaced *domain.Snapshot) {
		s.broadcastDiff(ctx, tenantID, replaced, eval)
	})
	if err != nil {
		s.fail(w, "PutSnapshot", err)
		return
	}

	writeJSON(w, http.StatusOK, eval)
}

// DeleteSnapshot handles the DELETE /tenants/{tenantID}/snapshot request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "tenantID")); err != nil {
		s.fail(w, "DeleteSnapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOnboarding handles the GET /tenants/{tenantID}/onboarding request.
func (s *Server) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	eval, err := s.evaluateTenant(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		s.fail(w, "GetOnboarding", err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}

// SubscribeTenant handles the GET /tenants/{tenantID}/events request (SSE).
// The first data frame carries the full current state when a snapshot is stored.
func (s *Server) SubscribeTenant(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}
	tenantID := chi.URLParam(r, "tenantID")

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		watch = strings.Split(raw, ",")
	}

	ch, cancel := s.Streams.Subscribe(tenantID)
	defer cancel()
	s.logger.Info("SSE: subscribed", "tenant", tenantID)

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")

	if s.Store != nil {
		if eval, err := s.evaluateTenant(r.Context(), tenantID); err == nil {
			if bytes, err := json.Marshal(domain.Diff(nil, eval)); err == nil {
				fmt.Fprintf(w, "data: %s\n\n", bytes)
			}
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "tenant", tenantID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !matchesWatch(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SubscribeReloads handles the GET /events request (SSE of step source changes).
func (s *Server) SubscribeReloads(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		writeError(w, http.StatusNotImplemented, err)
		return
	}

	setStreamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// broadcastDiff pushes the change from replaced to eval to the tenant's subscribers.
func (s *Server) broadcastDiff(ctx context.Context, tenantID string, replaced *domain.Snapshot, eval *domain.Evaluation) {
	var previous *domain.Evaluation
	if replaced != nil {
		var err error
		// A failed evaluation falls back to a full diff.
		if previous, err = s.Engine.Evaluate(ctx, *replaced); err != nil {
			s.logger.Warn("PutSnapshot: previous snapshot not evaluable", "tenant", tenantID, "err", err)
			previous = nil
		}
	}

	diff := domain.Diff(previous, eval)
	if diff == nil {
		s.logger.Debug("PutSnapshot: no diff", "tenant", tenantID)
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("PutSnapshot: diff encode failed", "tenant", tenantID, "err", err)
		return
	}
	s.Streams.Broadcast(tenantID, string(bytes))
}

func (s *Server) evaluateTenant(ctx context.Context, tenantID string) (*domain.Evaluation, error) {
	if s.Store == nil {
		return nil, errNoStore
	}
	snap, err := s.Store.Load(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.Engine.Evaluate(ctx, snap)
}

var errNoStore = errors.New("snapshot store not configured")

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeError(w, http.StatusNotImplemented, errNoStore)
		return false
	}
	return true
}

// fail maps domain errors to status codes and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoStore):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInterval), schema.IsValidation(err), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadBody = errors.New("invalid request body")

func decodeSnapshot(r *http.Request) (domain.Snapshot, error) {
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return schema.DecodeSnapshot(raw)
}

// matchesWatch reports whether a diff message touches any watched field.
func matchesWatch(msg string, watch []string) bool {
	var diff domain.EvaluationDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "statuses":
			if len(diff.Statuses) > 0 {
				return true
			}
		case "current":
			if diff.CurrentStepID != nil {
				return true
			}
		case "progress":
			if diff.ProgressPercent != nil {
				return true
			}
		case "complete":
			if diff.AllComplete != nil {
				return true
			}
		}
	}
	return false
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
