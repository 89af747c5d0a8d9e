package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/aretw0/waymark/pkg/registry"
)

// StepsFile represents the structure of a steps.yaml or steps.json file.
type StepsFile struct {
	Steps []domain.StepDefinition `yaml:"steps" json:"steps"`
}

// Loader implements ports.StepLoader and ports.Watchable over a single YAML or JSON file.
type Loader struct {
	path     string
	registry *registry.Registry
	logger   *slog.Logger
	debounce time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry sets the registry used to resolve guard names.
func WithRegistry(r *registry.Registry) LoaderOption {
	return func(l *Loader) {
		l.registry = r
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithDebounce sets how long Watch waits for rapid saves to settle.
func WithDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.debounce = d
	}
}

// NewLoader creates a loader for the steps file at path.
func NewLoader(path string, opts ...LoaderOption) *Loader {
	l := &Loader{
		path:     filepath.Clean(path),
		registry: registry.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the watched file path.
func (l *Loader) Path() string {
	return l.path
}

// LoadSteps reads, parses, resolves and validates the steps file.
func (l *Loader) LoadSteps(ctx context.Context) ([]domain.StepDefinition, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read steps file: %w", err)
	}

	cfg, err := ParseSteps(data, filepath.Ext(l.path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}

	steps := l.registry.Resolve(cfg.Steps)
	if err := validator.ValidateSteps(steps); err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return steps, nil
}

// ParseSteps decodes a steps document. ext selects JSON for ".json"; anything else is YAML.
func ParseSteps(data []byte, ext string) (*StepsFile, error) {
	var cfg StepsFile
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse steps json: %w", err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse steps yaml: %w", err)
	}
	return &cfg, nil
}

// Watch signals the file's base name each time it changes.
// The parent directory is watched so editors that save via rename are seen.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.path, err)
	}

	out := make(chan string)
	name := filepath.Base(l.path)

	go func() {
		defer close(out)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != l.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(l.debounce)
				} else {
					timer.Reset(l.debounce)
				}
				fire = timer.C

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.logger.Warn("step file watch error", "path", l.path, "err", err)

			case <-fire:
				fire = nil
				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
