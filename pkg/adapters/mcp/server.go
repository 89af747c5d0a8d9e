package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/presentation/graph"
	"github.com/aretw0/waymark/pkg/calendar"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
	"github.com/aretw0/waymark/pkg/schema"
)

const (
	stepsURI  = "waymark://steps"
	schemaURI = "waymark://schema/snapshot"
)

// LayoutResponse is the structured output of the layout_calendar tool.
type LayoutResponse struct {
	Items      []LayoutItem `json:"items" jsonschema_description:"Positioned intervals in layout order"`
	Clusters   int          `json:"clusters" jsonschema_description:"Number of overlap clusters"`
	MaxColumns int          `json:"max_columns" jsonschema_description:"Widest cluster column count"`
}

// LayoutItem is one positioned interval with its fractional geometry.
type LayoutItem struct {
	domain.PositionedInterval
	Left  float64 `json:"left" jsonschema_description:"Left offset as a fraction of the day column"`
	Width float64 `json:"width" jsonschema_description:"Width as a fraction of the day column"`
}

// EvaluateArgs are the arguments of evaluate_onboarding.
type EvaluateArgs struct {
	Snapshot string `json:"snapshot"`
	TenantID string `json:"tenant_id"`
}

// LayoutArgs are the arguments of layout_calendar.
type LayoutArgs struct {
	Intervals string `json:"intervals"`
}

// Server exposes the engine as an MCP server.
type Server struct {
	engine    ports.Engine
	store     ports.SnapshotStore
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithStore lets evaluate_onboarding look up snapshots by tenant id.
func WithStore(store ports.SnapshotStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("waymark-mcp", waymark.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	evaluateTool := mcp.NewTool("evaluate_onboarding",
		mcp.WithDescription("Derive the onboarding checklist (statuses, current step, progress) for a tenant snapshot."),
		mcp.WithString("snapshot", mcp.Description("JSON object with has_full_name, has_phone, has_business_name, customer_count, job_count, quote_count, bank_linked, subscription_active")),
		mcp.WithString("tenant_id", mcp.Description("Evaluate the stored snapshot of this tenant instead")),
		mcp.WithOutputSchema[domain.Evaluation](),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	layoutTool := mcp.NewTool("layout_calendar",
		mcp.WithDescription("Assign side-by-side columns to overlapping calendar intervals."),
		mcp.WithString("intervals", mcp.Required(), mcp.Description(`JSON array of {"id","start","end"} with RFC 3339 times`)),
		mcp.WithOutputSchema[LayoutResponse](),
	)
	s.mcpServer.AddTool(layoutTool, mcp.NewStructuredToolHandler(s.handleLayout))

	s.mcpServer.AddTool(mcp.NewTool("list_steps",
		mcp.WithDescription("List the checklist steps with their routes and dependencies."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.engine.Steps())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode steps: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("step_graph",
		mcp.WithDescription("Render the step dependency graph as a Mermaid flowchart."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(graph.GenerateMermaid(s.engine.Steps(), nil)), nil
	})
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args EvaluateArgs) (domain.Evaluation, error) {
	snap, err := s.resolveSnapshot(ctx, args)
	if err != nil {
		s.logger.Warn("MCP evaluate: bad snapshot", "err", err)
		return domain.Evaluation{}, err
	}

	eval, err := s.engine.Evaluate(ctx, snap)
	if err != nil {
		return domain.Evaluation{}, fmt.Errorf("evaluate failed: %w", err)
	}
	return *eval, nil
}

func (s *Server) resolveSnapshot(ctx context.Context, args EvaluateArgs) (domain.Snapshot, error) {
	switch {
	case args.TenantID != "":
		if s.store == nil {
			return domain.Snapshot{}, errors.New("no snapshot store configured; pass snapshot instead")
		}
		return s.store.Load(ctx, args.TenantID)
	case args.Snapshot != "":
		var raw map[string]any
		dec := json.NewDecoder(strings.NewReader(args.Snapshot))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return domain.Snapshot{}, fmt.Errorf("snapshot is not a JSON object: %w", err)
		}
		return schema.DecodeSnapshot(raw)
	default:
		return domain.Snapshot{}, errors.New("either snapshot or tenant_id is required")
	}
}

func (s *Server) handleLayout(ctx context.Context, request mcp.CallToolRequest, args LayoutArgs) (LayoutResponse, error) {
	var intervals []domain.Interval
	if err := json.Unmarshal([]byte(args.Intervals), &intervals); err != nil {
		return LayoutResponse{}, fmt.Errorf("intervals must be a JSON array: %w", err)
	}

	out, err := s.engine.Layout(ctx, intervals)
	if err != nil {
		return LayoutResponse{}, err
	}

	summary := calendar.Summarize(out)
	resp := LayoutResponse{
		Items:      make([]LayoutItem, len(out)),
		Clusters:   summary.Clusters,
		MaxColumns: summary.MaxColumns,
	}
	for i, p := range out {
		left, width := calendar.Geometry(p)
		resp.Items[i] = LayoutItem{PositionedInterval: p, Left: left, Width: width}
	}
	return resp, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(stepsURI, "Checklist Step Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Steps())
		if err != nil {
			return nil, fmt.Errorf("failed to encode steps: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: stepsURI, MIMEType: "application/json", Text: string(jsonBytes)},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(schemaURI, "Snapshot Field Schema",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(schema.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: schemaURI, MIMEType: "application/json", Text: string(jsonBytes)},
		}, nil
	})
}
