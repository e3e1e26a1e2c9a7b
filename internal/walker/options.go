// Package walker handles directory traversal and file processing
package walker

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/code-combiner/internal/utils"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger           utils.Logger
	MaxFileSize      int64
	ExtensionMap     map[string]struct{}
	ExcludedPaths    map[string]struct{}
	Context          context.Context
	ProgressFn       ProgressCallback
	ProgressInterval time.Duration
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	ProcessedFiles  int64  // Files emitted so far
	SkippedFiles    int64  // Files skipped for read or decode reasons
	TotalDirs       int64  // Directories visited
	SkippedDirs     int64  // Directories pruned
	CurrentFilePath string // Path of the current file being processed (relative)
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:           utils.NoopLogger{},
		MaxFileSize:      0,   // No limit
		ExtensionMap:     nil, // No extension filtering by default
		ExcludedPaths:    map[string]struct{}{},
		Context:          context.Background(),
		ProgressInterval: 250 * time.Millisecond,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithMaxFileSize sets the maximum file size to read in bytes
func WithMaxFileSize(maxBytes int64) Option {
	return func(opts *WalkOptions) {
		opts.MaxFileSize = maxBytes
	}
}

// WithExtensions sets the file extensions to include (without the dot)
func WithExtensions(extensions []string) Option {
	return func(opts *WalkOptions) {
		if len(extensions) == 0 {
			opts.ExtensionMap = nil
			return
		}
		extMap := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			extMap[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
		}
		opts.ExtensionMap = extMap
	}
}

// WithExcludedPaths drops specific files from the walk without counting them.
// Used to keep the output artifact out of its own scan.
func WithExcludedPaths(paths ...string) Option {
	return func(opts *WalkOptions) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			opts.ExcludedPaths[filepath.Clean(p)] = struct{}{}
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}

// WithProgressInterval sets the minimum time between progress callbacks
func WithProgressInterval(d time.Duration) Option {
	return func(o *WalkOptions) {
		if d >= 0 {
			o.ProgressInterval = d
		}
	}
}
