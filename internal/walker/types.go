// Package walker handles directory traversal and file processing
package walker

import (
	"errors"
)

// Precondition failures. No traversal is attempted when New returns one.
var (
	ErrRootNotFound = errors.New("root directory not found")
	ErrRootNotDir   = errors.New("root path is not a directory")
)

// ScanRecord is one accepted file
type ScanRecord struct {
	// RelativePath is relative to the scan root, forward-slash separated
	RelativePath string
	Content      string
}

// WalkFunc receives each accepted file in visit order.
// Returning an error stops the walk.
type WalkFunc func(record ScanRecord) error

// Stats are the counters of one traversal
type Stats struct {
	// Processed counts files emitted as ScanRecords
	Processed int64
	// Skipped counts files dropped by read errors, permission errors,
	// non-text content, the size limit or a non-regular type
	Skipped int64
	// Ignored counts files rejected by file patterns or the extension filter
	Ignored int64
	// Dirs counts directories visited below the root
	Dirs int64
	// PrunedDirs counts directories cut by directory patterns
	PrunedDirs int64
}

// SkippedReason clarifies why a file/directory was not processed.
type SkippedReason string

const (
	ReasonIgnoredDirRule    SkippedReason = "Ignored (Directory Rule)"
	ReasonIgnoredFileRule   SkippedReason = "Ignored (File Rule)"
	ReasonFilteredExtension SkippedReason = "Filtered (Extension Mismatch)"
	ReasonSkippedNotText    SkippedReason = "Skipped (Not Text)"
	ReasonSkippedSizeLimit  SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedNotRegular SkippedReason = "Skipped (Not a Regular File)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedReadError  SkippedReason = "Skipped (Read Error)"
	ReasonSkippedWalkError  SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedSymlinkDir SkippedReason = "Skipped (Symlinked Directory)"
)

// countsAsSkipped reports whether the reason feeds Stats.Skipped
func (r SkippedReason) countsAsSkipped() bool {
	switch r {
	case ReasonSkippedNotText, ReasonSkippedSizeLimit, ReasonSkippedNotRegular,
		ReasonSkippedPermError, ReasonSkippedReadError:
		return true
	}
	return false
}

// SkippedItem holds information about a skipped path.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
	Err    error         `json:"-"`
}

// SkippedTracker collects skipped items for one traversal
type SkippedTracker struct {
	items []SkippedItem
}

// NewSkippedTracker creates a new SkippedTracker
func NewSkippedTracker(capacity int) *SkippedTracker {
	return &SkippedTracker{
		items: make([]SkippedItem, 0, capacity),
	}
}

// Track adds a skipped item to the tracker
func (st *SkippedTracker) Track(path string, reason SkippedReason, isDir bool, err error) {
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir, Err: err})
}

// Items returns the tracked skipped items
func (st *SkippedTracker) Items() []SkippedItem {
	return append([]SkippedItem(nil), st.items...)
}
