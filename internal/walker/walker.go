// Package walker handles directory traversal and file processing
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bethropolis/code-combiner/internal/ignore"
	"github.com/bethropolis/code-combiner/internal/utils"
)

// errStopIteration ends a walk early when a range loop over Records breaks
var errStopIteration = errors.New("walker: iteration stopped")

// Walker traverses one scan root with one PatternSet.
// It holds no state between runs apart from the results of the last one.
type Walker struct {
	root     string
	walkRoot string
	set      *ignore.PatternSet
	options  WalkOptions

	lastStats   Stats
	lastSkipped []SkippedItem
	lastErr     error
}

// New validates rootDir and returns a Walker for it.
// A missing root yields ErrRootNotFound, a file yields ErrRootNotDir.
// A nil set still prunes .git.
func New(rootDir string, set *ignore.PatternSet, opts ...Option) (*Walker, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRootDir, err := ValidateRoot(rootDir)
	if err != nil {
		return nil, err
	}

	// WalkDir does not descend into a symlinked root, so walk its target
	walkRoot := absRootDir
	if resolved, err := filepath.EvalSymlinks(absRootDir); err == nil {
		walkRoot = resolved
	}
	options.ExcludedPaths = resolveExcluded(options.ExcludedPaths)

	if set == nil {
		set = ignore.FromLines(nil)
	}

	return &Walker{
		root:     absRootDir,
		walkRoot: walkRoot,
		set:      set,
		options:  options,
	}, nil
}

// ValidateRoot checks that rootDir is an existing directory and returns
// its absolute path
func ValidateRoot(rootDir string) (string, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return "", fmt.Errorf("walker: failed to get absolute path for '%s': %w", rootDir, err)
	}

	info, err := os.Stat(absRootDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("walker: '%s': %w", absRootDir, ErrRootNotFound)
		}
		return "", fmt.Errorf("walker: could not access '%s': %w", absRootDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("walker: '%s': %w", absRootDir, ErrRootNotDir)
	}
	return absRootDir, nil
}

// Root returns the absolute scan root
func (w *Walker) Root() string {
	return w.root
}

// Walk traverses the tree once, depth-first and pre-order, calling fn for
// every accepted file in visit order. Per-file problems are counted and
// logged, never returned. The returned error is the context error or the
// first error returned by fn.
func (w *Walker) Walk(fn WalkFunc) (Stats, error) {
	startTime := time.Now()
	r := &run{
		w:       w,
		fn:      fn,
		tracker: NewSkippedTracker(64),
	}

	w.options.Logger.Debug("walker.Walk started. Root: %s", w.walkRoot)
	err := filepath.WalkDir(w.walkRoot, r.visit)
	r.reportProgress("", true)

	w.lastStats = r.stats
	w.lastSkipped = r.tracker.Items()
	w.lastErr = err

	w.options.Logger.Debug("Walker: Total walk and processing time: %s", time.Since(startTime))
	return r.stats, err
}

// Records returns a lazy, restartable sequence of accepted files.
// Every range over it performs a fresh traversal; Stats, SkippedItems
// and Err describe the latest one.
func (w *Walker) Records() iter.Seq[ScanRecord] {
	return func(yield func(ScanRecord) bool) {
		_, err := w.Walk(func(record ScanRecord) error {
			if !yield(record) {
				return errStopIteration
			}
			return nil
		})
		if errors.Is(err, errStopIteration) {
			w.lastErr = nil
		}
	}
}

// Stats returns the counters of the last traversal
func (w *Walker) Stats() Stats {
	return w.lastStats
}

// SkippedItems returns what the last traversal left out, in visit order
func (w *Walker) SkippedItems() []SkippedItem {
	return append([]SkippedItem(nil), w.lastSkipped...)
}

// Err returns the error that ended the last traversal, if any
func (w *Walker) Err() error {
	return w.lastErr
}

// run is the state of a single traversal
type run struct {
	w            *Walker
	fn           WalkFunc
	stats        Stats
	tracker      *SkippedTracker
	lastProgress time.Time
}

func (r *run) visit(path string, d fs.DirEntry, err error) error {
	options := r.w.options

	// Check context before processing anything
	if ctxErr := options.Context.Err(); ctxErr != nil {
		return ctxErr
	}

	relativePath := utils.SlashRel(r.w.walkRoot, path)

	// Unreadable directories are skipped with their subtree
	if err != nil {
		reason := ReasonSkippedWalkError
		if errors.Is(err, fs.ErrPermission) {
			reason = ReasonSkippedPermError
		}
		isDir := d == nil || d.IsDir()
		options.Logger.Warn("Skipping '%s': %v", relativePath, err)
		r.tracker.Track(relativePath, reason, isDir, err)
		if isDir {
			return filepath.SkipDir
		}
		return nil
	}

	if d.IsDir() {
		if path == r.w.walkRoot {
			return nil
		}
		r.stats.Dirs++
		if r.w.set.MatchDir(d.Name()) {
			options.Logger.Debug("Walker: Pruned directory %q", relativePath)
			r.stats.PrunedDirs++
			r.tracker.Track(relativePath, ReasonIgnoredDirRule, true, nil)
			return filepath.SkipDir
		}
		options.Logger.Debug("Walker: Descending into directory %q", relativePath)
		return nil
	}

	return r.visitFile(path, relativePath, d)
}

func (r *run) visitFile(path, relativePath string, d fs.DirEntry) error {
	options := r.w.options

	if _, excluded := options.ExcludedPaths[path]; excluded {
		options.Logger.Debug("Walker: Excluded path %q", relativePath)
		return nil
	}

	// Symlinked directories are listed but never followed
	if d.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			options.Logger.Debug("Walker: Not following symlinked directory %q", relativePath)
			r.tracker.Track(relativePath, ReasonSkippedSymlinkDir, true, nil)
			return nil
		}
	}

	if pattern, ok := r.w.set.MatchingFilePattern(d.Name(), relativePath); ok {
		options.Logger.Debug("Walker: Ignored %q by pattern %q", relativePath, pattern)
		r.stats.Ignored++
		r.tracker.Track(relativePath, ReasonIgnoredFileRule, false, nil)
		return nil
	}

	if !r.extensionAllowed(relativePath) {
		options.Logger.Debug("Walker: Extension filter rejected %q", relativePath)
		r.stats.Ignored++
		r.tracker.Track(relativePath, ReasonFilteredExtension, false, nil)
		return nil
	}

	r.reportProgress(relativePath, false)

	result := processFile(path, relativePath, options)
	if result.reason != "" {
		r.skip(relativePath, result)
		return nil
	}

	r.stats.Processed++
	if err := r.fn(ScanRecord{RelativePath: relativePath, Content: result.content}); err != nil {
		return fmt.Errorf("walker: handling '%s': %w", relativePath, err)
	}
	return nil
}

func (r *run) skip(relativePath string, result fileResult) {
	options := r.w.options
	r.tracker.Track(relativePath, result.reason, result.reason == ReasonSkippedSymlinkDir, result.err)

	if !result.reason.countsAsSkipped() {
		options.Logger.Debug("Walker: %s: %s", result.reason, relativePath)
		return
	}

	r.stats.Skipped++
	switch result.reason {
	case ReasonSkippedNotText, ReasonSkippedSizeLimit:
		options.Logger.Debug("Skipping '%s': %v", relativePath, result.err)
	case ReasonSkippedPermError:
		options.Logger.Warn("Permission denied for: %s", relativePath)
	default:
		options.Logger.Warn("Could not read %s: %v", relativePath, result.err)
	}
}

func (r *run) extensionAllowed(relativePath string) bool {
	extMap := r.w.options.ExtensionMap
	if len(extMap) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relativePath), "."))
	_, allowed := extMap[ext]
	return allowed
}

func (r *run) reportProgress(current string, force bool) {
	options := r.w.options
	if options.ProgressFn == nil {
		return
	}
	now := time.Now()
	if !force && now.Sub(r.lastProgress) < options.ProgressInterval {
		return
	}
	r.lastProgress = now
	options.ProgressFn(ProgressStats{
		ProcessedFiles:  r.stats.Processed,
		SkippedFiles:    r.stats.Skipped,
		TotalDirs:       r.stats.Dirs,
		SkippedDirs:     r.stats.PrunedDirs,
		CurrentFilePath: current,
	})
}

// resolveExcluded rewrites excluded paths through symlinked parents so
// they compare equal to the paths WalkDir produces.
func resolveExcluded(paths map[string]struct{}) map[string]struct{} {
	resolved := make(map[string]struct{}, len(paths)*2)
	for p := range paths {
		resolved[p] = struct{}{}
		if dir, err := filepath.EvalSymlinks(filepath.Dir(p)); err == nil {
			resolved[filepath.Join(dir, filepath.Base(p))] = struct{}{}
		}
	}
	return resolved
}
