// Package walker handles directory traversal and file processing
package walker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// errNotText marks content that is not valid UTF-8 or carries NUL bytes
var errNotText = errors.New("content is not valid UTF-8 text")

// fileResult is the outcome of reading one file.
// A zero reason means the content is usable.
type fileResult struct {
	content string
	reason  SkippedReason
	err     error
}

func skipped(reason SkippedReason, err error) fileResult {
	return fileResult{reason: reason, err: err}
}

// processFile reads one file and classifies the outcome.
// The handle is opened, drained and closed before returning.
func processFile(path, relativePath string, options WalkOptions) fileResult {
	options.Logger.Debug("processFile: Reading [%s]", relativePath)

	// Stat follows symlinks so linked files are read like regular ones
	info, err := os.Stat(path)
	if err != nil {
		return skipped(classifyReadError(err), fmt.Errorf("failed to get file info: %w", err))
	}

	if info.IsDir() {
		return skipped(ReasonSkippedSymlinkDir, nil)
	}

	if !info.Mode().IsRegular() {
		return skipped(ReasonSkippedNotRegular, fmt.Errorf("mode %s", info.Mode().Type()))
	}

	if options.MaxFileSize > 0 && info.Size() > options.MaxFileSize {
		return skipped(ReasonSkippedSizeLimit,
			fmt.Errorf("file size %d exceeds limit %d bytes", info.Size(), options.MaxFileSize))
	}

	data, err := readAll(path)
	if err != nil {
		return skipped(classifyReadError(err), err)
	}

	if !isText(data) {
		return skipped(ReasonSkippedNotText, errNotText)
	}

	options.Logger.Debug("processFile Success [%s]: Read %d bytes.", relativePath, len(data))
	return fileResult{content: string(data)}
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func classifyReadError(err error) SkippedReason {
	if errors.Is(err, fs.ErrPermission) {
		return ReasonSkippedPermError
	}
	return ReasonSkippedReadError
}

// isText accepts valid UTF-8 without NUL bytes
func isText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}
