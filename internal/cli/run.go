package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/aretw0/waymark"
	"github.com/aretw0/waymark/internal/presentation/graph"
	"github.com/aretw0/waymark/internal/presentation/tui"
	"github.com/aretw0/waymark/pkg/calendar"
	"github.com/aretw0/waymark/pkg/domain"
)

// Output formats.
const (
	FormatAuto     = "auto"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// IO bundles the streams a command reads and writes.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout}
}

// resolveFormat turns auto into markdown on a terminal and plain otherwise.
func resolveFormat(format string, w io.Writer) string {
	if format != "" && format != FormatAuto {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatMarkdown
	}
	return FormatPlain
}

// RunEvaluate evaluates the snapshot at snapshotPath and prints the checklist.
func RunEvaluate(ctx context.Context, opts Options, snapshotPath, format string, stdio IO) error {
	logger, err := CreateLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return err
	}

	snap, err := ReadSnapshot(snapshotPath, stdio.Stdin)
	if err != nil {
		return err
	}

	eval, err := engine.Evaluate(ctx, snap)
	if err != nil {
		return err
	}
	return printEvaluation(stdio.Stdout, eval, format)
}

func printEvaluation(w io.Writer, eval *domain.Evaluation, format string) error {
	switch resolveFormat(format, w) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(eval)
	case FormatMarkdown:
		out, err := tui.NewRenderer()(tui.ChecklistMarkdown(eval))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	case FormatPlain:
		tui.PrintChecklist(w, eval)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// RunLayout lays out the intervals at path and prints their columns.
func RunLayout(ctx context.Context, opts Options, path, format string, stdio IO) error {
	logger, err := CreateLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	// Layout does not depend on the checklist.
	engine, err := CreateEngine(Options{Debug: opts.Debug}, logger)
	if err != nil {
		return err
	}

	intervals, err := ReadIntervals(path, stdio.Stdin)
	if err != nil {
		return err
	}
	out, err := engine.Layout(ctx, intervals)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		enc := json.NewEncoder(stdio.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(stdio.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tCOLUMN\tCLUSTER\tLEFT\tWIDTH")
	for _, p := range out {
		left, width := calendar.Geometry(p)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d\t%.3f\t%.3f\n",
			p.ID, p.Start.Format(time.Kitchen), p.End.Format(time.Kitchen),
			p.Column+1, p.TotalColumns, p.Cluster, left, width)
	}
	return tw.Flush()
}

// RunValidate loads the steps and reports whether the graph is consistent.
func RunValidate(opts Options, stdio IO) error {
	logger, err := CreateLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return err
	}
	steps := engine.Steps()
	fmt.Fprintf(stdio.Stdout, "%d steps, dependency graph is valid\n", len(steps))
	return nil
}

// RunGraph prints the Mermaid step graph, styled by a snapshot when one is given.
func RunGraph(ctx context.Context, opts Options, snapshotPath string, stdio IO) error {
	logger, err := CreateLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return err
	}

	var eval *domain.Evaluation
	if snapshotPath != "" {
		snap, err := ReadSnapshot(snapshotPath, stdio.Stdin)
		if err != nil {
			return err
		}
		if eval, err = engine.Evaluate(ctx, snap); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(stdio.Stdout, graph.GenerateMermaid(engine.Steps(), eval))
	return err
}

// RunWatch prints the checklist for a snapshot and reprints it whenever the
// step source changes, until ctx is done.
func RunWatch(ctx context.Context, opts Options, snapshotPath, format string, stdio IO) error {
	logger, err := CreateLogger(opts.LogLevel, opts.Debug)
	if err != nil {
		return err
	}
	engine, err := CreateEngine(opts, logger)
	if err != nil {
		return err
	}

	changes, err := engine.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch needs --steps pointing at a file or directory: %w", err)
	}

	tui.PrintBanner(stdio.Stdout, waymark.Version)
	render := func() {
		snap, err := ReadSnapshot(snapshotPath, stdio.Stdin)
		if err != nil {
			printSystemMessage(stdio.Stdout, "Snapshot error: %v", err)
			return
		}
		eval, err := engine.Evaluate(ctx, snap)
		if err != nil {
			printSystemMessage(stdio.Stdout, "Evaluation error: %v", err)
			return
		}
		if err := printEvaluation(stdio.Stdout, eval, format); err != nil {
			logger.Error("render failed", "err", err)
		}
	}

	render()
	printSystemMessage(stdio.Stdout, "Waiting for changes...")
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-changes:
			if !ok {
				return nil
			}
			printSystemMessage(stdio.Stdout, "Change detected in '%s'.", name)
			if err := engine.Reload(ctx); err != nil {
				printSystemMessage(stdio.Stdout, "Keeping previous steps: %v", err)
				continue
			}
			render()
		}
	}
}
