package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/code-combiner/internal/walker"
)

type captureLogger struct {
	warnings []string
}

func (c *captureLogger) Debug(string, ...interface{}) {}
func (c *captureLogger) Info(string, ...interface{}) {}
func (c *captureLogger) Warn(format string, args ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}
func (c *captureLogger) Error(string, ...interface{}) {}

func noInfo(string, ...interface{}) {}

func TestConfigureWalkerUsesRulesFile(t *testing.T) {
	root := t.TempDir()
	rules := filepath.Join(root, ".codeignore")
	require.NoError(t, os.WriteFile(rules, []byte("*.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.log"), []byte("b"), 0o644))

	res, opts := ConfigureWalker(WalkerConfig{RulesFile: rules}, noInfo)
	require.True(t, res.UsedCustomRules)

	w, err := walker.New(root, res.Set, opts...)
	require.NoError(t, err)
	var got []string
	for record := range w.Records() {
		got = append(got, record.RelativePath)
	}
	// the rules file itself is not ignored by *.log
	assert.Equal(t, []string{".codeignore", "a.txt"}, got)
}

func TestConfigureWalkerWarnsOnUnusableRules(t *testing.T) {
	log := &captureLogger{}
	res, _ := ConfigureWalker(WalkerConfig{RulesFile: t.TempDir(), Logger: log}, noInfo)

	assert.False(t, res.UsedCustomRules)
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "Using default ignore patterns")
}

func TestConfigureWalkerAppliesFilters(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("notes"), 0o644))
	out := filepath.Join(root, "out.go")
	require.NoError(t, os.WriteFile(out, []byte("package out"), 0o644))

	var infos []string
	infoLog := func(format string, args ...interface{}) {
		infos = append(infos, fmt.Sprintf(format, args...))
	}
	res, opts := ConfigureWalker(WalkerConfig{
		Extensions:       []string{"GO"},
		ExcludedPaths:    []string{out},
		MaxFileSizeBytes: 1024 * 1024,
	}, infoLog)

	w, err := walker.New(root, res.Set, opts...)
	require.NoError(t, err)
	var got []string
	for record := range w.Records() {
		got = append(got, record.RelativePath)
	}

	assert.Equal(t, []string{"main.go"}, got)
	assert.Contains(t, infos, "Filtering enabled. Only including extensions: .go")
	assert.Contains(t, infos, "Ignoring files larger than 1 MB.")
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressPrinter(&buf)

	progress(walker.ProgressStats{ProcessedFiles: 3, TotalDirs: 1, CurrentFilePath: "src/main.go"})
	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "\rProcessing: src/main.go"))
	assert.Contains(t, line, "| Files: 3 | Skipped: 0 | Dirs: 1")
	assert.Len(t, line, defaultLineWidth)

	buf.Reset()
	progress(walker.ProgressStats{ProcessedFiles: 4})
	assert.True(t, strings.HasPrefix(buf.String(), "\rScanning... | Files: 4"))
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", truncatePath("short", 10))
	assert.Equal(t, "...ef/g.go", truncatePath("abc/def/ef/g.go", 10))
	assert.Equal(t, "go", truncatePath("a.go", 2))
}
