package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bethropolis/code-combiner/internal/clipboard"
	"github.com/bethropolis/code-combiner/internal/config"
	"github.com/bethropolis/code-combiner/internal/logger"
	"github.com/bethropolis/code-combiner/internal/printer"
	"github.com/bethropolis/code-combiner/internal/setup"
	"github.com/bethropolis/code-combiner/internal/summary"
	"github.com/bethropolis/code-combiner/internal/walker"
)

// stdoutLabel stands in for the output path when streaming to stdout
const stdoutLabel = "<stdout>"

// App encapsulates the main application functionality
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	stdout    io.Writer
	stderr    io.Writer
	now       func() time.Time
	clipboard clipboard.Copier
}

// Option configures an App
type Option func(*App)

// WithStdout redirects the artifact when the output is "-"
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithStderr redirects logs, progress and the skipped listing
func WithStderr(w io.Writer) Option {
	return func(a *App) { a.stderr = w }
}

// WithClock sets the time source for the artifact header
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithClipboard replaces the system clipboard
func WithClipboard(c clipboard.Copier) Option {
	return func(a *App) { a.clipboard = c }
}

// New creates a new App instance
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:       cfg,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		now:       time.Now,
		clipboard: clipboard.NewService(),
	}
	for _, opt := range opts {
		opt(a)
	}

	// Set up logger
	log := logger.New(a.stderr, cfg.Verbose, cfg.UseColors)

	// Apply log level if specified (overrides verbose/quiet flags)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}
	a.log = log

	return a
}

// Run scans the configured root and writes the combined artifact.
// Root problems are returned before any output is created, and a failed
// run never leaves a partial artifact behind.
func (a *App) Run(ctx context.Context) (err error) {
	startTime := time.Now()
	defer func() { _ = a.log.Sync() }()

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	// Helper for info messages, suppressed by quiet flag
	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			a.log.Info(format, args...)
		}
	}

	if a.log.VerboseMode {
		a.log.Debug("Verbose mode enabled")
		a.log.Debug("Color output: %v", a.cfg.UseColors)
		a.log.Debug("Directory: %s", a.cfg.RootDir)
		a.log.Debug("Output: %s (format %s)", a.cfg.OutputFile, a.cfg.Format)
		a.log.Debug("Max file size: %d MB", a.cfg.MaxFileSizeMB)
		if a.cfg.ConfigFile != "" {
			a.log.Debug("Config file: %s", a.cfg.ConfigFile)
		}
	}

	// --- Directory validation ---
	absRootDir, err := walker.ValidateRoot(a.cfg.RootDir)
	if err != nil {
		return err
	}

	// --- Output destination ---
	sink, err := a.openOutput()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			sink.discard()
		}
	}()

	rules, walkOptions := setup.ConfigureWalker(setup.WalkerConfig{
		RulesFile:        a.cfg.ResolvedRulesFile(),
		MaxFileSizeBytes: a.cfg.MaxFileSizeBytes(),
		Extensions:       a.cfg.Extensions,
		ExcludedPaths:    sink.paths(),
		ShowProgress:     a.cfg.ShowProgress,
		ProgressOut:      a.stderr,
		Context:          ctx,
		Quiet:            a.cfg.Quiet,
		Logger:           a.log,
	}, infoLog)

	w, err := walker.New(absRootDir, rules.Set, walkOptions...)
	if err != nil {
		return err
	}

	// --- Create the printer ---
	var clip bytes.Buffer
	var out io.Writer = sink.writer
	if a.cfg.Clipboard {
		out = io.MultiWriter(sink.writer, &clip)
	}
	p := printer.New().
		WithOutput(out).
		WithFormat(a.cfg.Format).
		WithColors(a.cfg.ColorOutput)

	if err = p.WriteHeader(printer.Header{
		Generated:       a.now(),
		Root:            w.Root(),
		RulesPath:       rules.Source,
		UsedCustomRules: rules.UsedCustomRules,
		Patterns:        rules.Set.Effective(),
	}); err != nil {
		return fmt.Errorf("app: writing header: %w", err)
	}

	// --- Start the directory walk ---
	infoLog("Scanning directory: %s", absRootDir)
	stats, walkErr := w.Walk(func(record walker.ScanRecord) error {
		return p.PrintFile(record.RelativePath, record.Content)
	})
	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.stderr)
	}
	if walkErr != nil {
		if errors.Is(walkErr, context.DeadlineExceeded) {
			return fmt.Errorf("app: timeout of %v reached: %w", a.cfg.Timeout, walkErr)
		}
		return fmt.Errorf("app: scan of '%s' failed: %w", absRootDir, walkErr)
	}

	// Finalize the printer (important for JSON output to close the document)
	if err = p.Finalize(); err != nil {
		return fmt.Errorf("app: writing output: %w", err)
	}
	if err = sink.commit(); err != nil {
		return err
	}

	if a.cfg.Clipboard {
		if copyErr := a.clipboard.Copy(clip.String()); copyErr != nil {
			a.log.Warn("Could not copy output to clipboard: %v", copyErr)
		} else {
			infoLog("Output copied to clipboard.")
		}
	}

	// --- Show results summary ---
	summary.DisplayResults(a.log, summary.Report{
		Processed:       p.GetCount(),
		Skipped:         stats.Skipped,
		OutputPath:      sink.label,
		RulesLabel:      filepath.Base(rules.Source),
		UsedCustomRules: rules.UsedCustomRules,
		Duration:        time.Since(startTime),
	}, a.cfg.Quiet)

	if a.cfg.ShowSkipped {
		summary.DisplaySkippedItems(a.log, w.SkippedItems(), a.stderr, a.cfg.Quiet, a.cfg.UseColors)
	}
	return nil
}
