package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/pkg/adapters/file"
	loamAdapter "github.com/aretw0/waymark/pkg/adapters/loam"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/ports"
)

// Options are the flags shared by every command.
type Options struct {
	// StepsPath is a YAML/JSON steps file or a directory of step documents.
	// Empty means the built-in checklist.
	StepsPath string
	LogLevel  string
	Debug     bool
}

// CreateEngine initializes an engine with standard CLI conventions.
func CreateEngine(opts Options, logger *slog.Logger, extra ...waymark.Option) (*waymark.Engine, error) {
	engineOpts := []waymark.Option{waymark.WithLogger(logger)}
	if opts.Debug {
		engineOpts = append(engineOpts, waymark.WithLifecycleHooks(createDebugHooks(logger)))
	}

	if opts.StepsPath != "" {
		loader, err := createLoader(opts.StepsPath, logger)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, waymark.WithLoader(loader))
	}

	engine, err := waymark.New(append(engineOpts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// createLoader picks the loam loader for directories and the file loader otherwise.
func createLoader(path string, logger *slog.Logger) (ports.StepLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("steps path: %w", err)
	}
	if info.IsDir() {
		return loamAdapter.Open(path, loamAdapter.WithLogger(logger))
	}
	return file.NewLoader(path, file.WithLogger(logger)), nil
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			logger.Debug("Evaluated",
				"event_id", e.EventID,
				"current", e.Evaluation.CurrentStepID,
				"progress", e.Evaluation.ProgressPercent,
				"took", e.Duration)
		},
		OnLayout: func(ctx context.Context, e *domain.LayoutEvent) {
			logger.Debug("Laid out", "event_id", e.EventID, "items", e.Items, "clusters", e.Clusters, "took", e.Duration)
		},
		OnReload: func(ctx context.Context, e *domain.ReloadEvent) {
			if e.Err != nil {
				logger.Debug("Reload (Error)", "event_id", e.EventID, "err", e.Err)
				return
			}
			logger.Debug("Reload (Success)", "event_id", e.EventID, "steps", e.Steps)
		},
	}
}
