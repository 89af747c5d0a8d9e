package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/config"
	"github.com/aretw0/waymark/pkg/adapters/file"
	httpAdapter "github.com/aretw0/waymark/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/waymark/pkg/adapters/mcp"
	"github.com/aretw0/waymark/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/waymark/pkg/adapters/redis"
	"github.com/aretw0/waymark/pkg/observability"
	"github.com/aretw0/waymark/pkg/ports"
	"github.com/aretw0/waymark/pkg/session"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions configure the long-running commands.
type ServeOptions struct {
	ConfigPath string
	// Addr overrides the configured listen address when set.
	Addr string
}

// NewStore builds the snapshot store selected by cfg. The returned func
// releases backend connections.
func NewStore(ctx context.Context, cfg config.Config) (ports.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreFile:
		return file.NewStore(cfg.DataDir), noop, nil
	case config.StoreRedis:
		ttl, err := cfg.Redis.TTLDuration()
		if err != nil {
			return nil, nil, err
		}
		store := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithPrefix(cfg.Redis.Prefix),
			redisAdapter.WithTTL(ttl),
		)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis at %s: %w", cfg.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), noop, nil
	}
}

// NewSessions serializes per-tenant writes on store. Redis stores also lock
// across replicas.
func NewSessions(store ports.SnapshotStore, logger *slog.Logger) *session.Manager {
	opts := []session.Option{session.WithLogger(logger)}
	if rs, ok := store.(*redisAdapter.Store); ok {
		opts = append(opts, session.WithLocker(rs.Locker()))
	}
	return session.NewManager(store, opts...)
}

// loadServeConfig merges the config file, env and CLI flags.
func loadServeConfig(opts Options, serve ServeOptions) (config.Config, error) {
	cfg, err := config.Load(serve.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if opts.StepsPath != "" {
		cfg.Steps = opts.StepsPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if serve.Addr != "" {
		cfg.Addr = serve.Addr
	}
	return cfg, nil
}

// RunServe starts the HTTP API and blocks until ctx is done.
func RunServe(ctx context.Context, opts Options, serve ServeOptions) error {
	cfg, err := loadServeConfig(opts, serve)
	if err != nil {
		return err
	}
	logger, err := CreateLogger(cfg.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	var extra []waymark.Option
	var handlerOpts []httpAdapter.Option
	if cfg.Metrics {
		metrics := observability.NewMetrics(nil)
		extra = append(extra, waymark.WithLifecycleHooks(metrics.Hooks()))
		handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
	}

	engine, err := CreateEngine(Options{StepsPath: cfg.Steps, Debug: opts.Debug}, logger, extra...)
	if err != nil {
		return err
	}

	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := httpAdapter.NewHandler(engine, append(handlerOpts,
		httpAdapter.WithStore(NewSessions(store, logger)),
		httpAdapter.WithLogger(logger),
	)...)
	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting waymark server", "addr", cfg.Addr, "store", cfg.Store, "steps", len(engine.Steps()))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return autoReload(ctx, engine, logger)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("Server stopped gracefully")
		return nil
	})
	return g.Wait()
}

// autoReload hot-reloads steps for watchable loaders and is a no-op otherwise.
func autoReload(ctx context.Context, engine *waymark.Engine, logger *slog.Logger) error {
	err := engine.AutoReload(ctx)
	if errors.Is(err, waymark.ErrNotWatchable) {
		logger.Debug("Step source is static, hot reload disabled")
		return nil
	}
	if err != nil {
		logger.Warn("Hot reload unavailable", "err", err)
	}
	return nil
}

// Transports for RunMCP.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// RunMCP starts the MCP server on the given transport.
func RunMCP(ctx context.Context, opts Options, serve ServeOptions, transport string, port int) error {
	cfg, err := loadServeConfig(opts, serve)
	if err != nil {
		return err
	}
	// stdout carries JSON-RPC on stdio, so logs stay on stderr.
	logger, err := CreateLogger(cfg.LogLevel, opts.Debug)
	if err != nil {
		return err
	}

	engine, err := CreateEngine(Options{StepsPath: cfg.Steps, Debug: opts.Debug}, logger)
	if err != nil {
		return err
	}
	store, closeStore, err := NewStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	go autoReload(ctx, engine, logger)

	srv := mcpAdapter.NewServer(engine, mcpAdapter.WithStore(NewSessions(store, logger)), mcpAdapter.WithLogger(logger))
	switch transport {
	case TransportStdio:
		logger.Info("Starting waymark MCP server (stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		logger.Info("Starting waymark MCP server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	}
}
