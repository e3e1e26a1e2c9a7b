// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bethropolis/code-combiner/internal/config"
	"github.com/bethropolis/code-combiner/internal/ignore"
	"github.com/bethropolis/code-combiner/internal/utils"
	"github.com/bethropolis/code-combiner/internal/walker"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	RulesFile        string
	MaxFileSizeBytes int64
	Extensions       []string
	ExcludedPaths    []string
	ShowProgress     bool
	ProgressOut      io.Writer
	Context          context.Context
	Quiet            bool
	Logger           utils.Logger
}

// ConfigureWalker loads the ignore rules and builds walker options from the config.
// A rules file that exists but cannot be used is reported as a warning; the
// defaults are then in effect.
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) (*ignore.Result, []walker.Option) {
	log := cfg.Logger
	if log == nil {
		log = utils.NoopLogger{}
	}

	// --- Load ignore rules ---
	rules := ignore.Load(cfg.RulesFile, ignore.WithLogger(log))
	if rules.Warning != nil {
		log.Warn("%v. Using default ignore patterns.", rules.Warning)
	}
	if rules.UsedCustomRules {
		infoLog("Using ignore rules from %s", rules.Source)
	} else {
		infoLog("Using default ignore patterns.")
	}
	log.Debug("Effective ignore patterns: %v", rules.Set.Effective())

	// --- Set up walk options ---
	walkOptions := []walker.Option{
		walker.WithLogger(log),
		walker.WithExcludedPaths(cfg.ExcludedPaths...),
	}

	if len(cfg.Extensions) > 0 {
		var shown []string
		for _, ext := range cfg.Extensions {
			shown = append(shown, "."+strings.ToLower(strings.TrimPrefix(ext, ".")))
		}
		infoLog("Filtering enabled. Only including extensions: %s", strings.Join(shown, ", "))
		walkOptions = append(walkOptions, walker.WithExtensions(cfg.Extensions))
	}

	if cfg.MaxFileSizeBytes > 0 {
		walkOptions = append(walkOptions, walker.WithMaxFileSize(cfg.MaxFileSizeBytes))
		infoLog("Ignoring files larger than %d MB.", cfg.MaxFileSizeBytes/config.BytesPerMB)
	}

	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	if cfg.ShowProgress && !cfg.Quiet {
		log.Debug("Progress display enabled")
		out := cfg.ProgressOut
		if out == nil {
			out = os.Stderr
		}
		walkOptions = append(walkOptions, walker.WithProgress(NewProgressPrinter(out)))
	}

	return rules, walkOptions
}

// defaultLineWidth is used when the progress output is not a terminal
const defaultLineWidth = 80

// NewProgressPrinter returns a callback that redraws one status line on out
func NewProgressPrinter(out io.Writer) walker.ProgressCallback {
	width := lineWidth(out)
	return func(stats walker.ProgressStats) {
		counters := fmt.Sprintf(" | Files: %d | Skipped: %d | Dirs: %d",
			stats.ProcessedFiles, stats.SkippedFiles, stats.TotalDirs)

		var statusLine string
		if stats.CurrentFilePath != "" {
			pathWidth := width - len("Processing: ") - len(counters) - 1
			if pathWidth < 10 {
				pathWidth = 10
			}
			statusLine = fmt.Sprintf("\rProcessing: %-*s%s",
				pathWidth, truncatePath(stats.CurrentFilePath, pathWidth), counters)
		} else {
			statusLine = fmt.Sprintf("\r%-*s", width-1, "Scanning..."+counters)
		}

		// Print with carriage return to overwrite previous line
		fmt.Fprint(out, statusLine)
	}
}

// truncatePath keeps the tail of path within width
func truncatePath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	if width <= 3 {
		return path[len(path)-width:]
	}
	return "..." + path[len(path)-(width-3):]
}

func lineWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultLineWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultLineWidth
	}
	return width
}
