package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/code-combiner/internal/config"
	"github.com/bethropolis/code-combiner/internal/printer"
	"github.com/bethropolis/code-combiner/internal/walker"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

type fakeClipboard struct {
	text string
}

func (f *fakeClipboard) Copy(text string) error {
	f.text = text
	return nil
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func baseConfig(root, output string) *config.Config {
	return &config.Config{
		RootDir:    root,
		OutputFile: output,
		Format:     printer.FormatPlain,
	}
}

func TestRunWritesArtifact(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":       "hello",
		"b.log":       "noise",
		"cache/c.txt": "cached",
		"src/d.go":    "package d\n",
	})
	rules := filepath.Join(t.TempDir(), ".codeignore")
	require.NoError(t, os.WriteFile(rules, []byte("*.log\ncache/\n"), 0o644))
	output := filepath.Join(t.TempDir(), "combined_code.txt")

	cfg := baseConfig(root, output)
	cfg.RulesFile = rules
	var stderr bytes.Buffer

	err := New(cfg, WithStderr(&stderr), WithClock(fixedClock)).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	want := "# Combined Code Generated: 2024-03-09 14:05:07 UTC\n" +
		"# Scanned Root Directory: " + root + "\n" +
		"# .codeignore File Source: Used: " + rules + "\n" +
		"# Effective Ignored Patterns (includes always-ignored '.git/'): ['*.log', '.git/', 'cache/']\n" +
		"# FILE: a.txt\nhello\n" +
		"\n" +
		"# FILE: src/d.go\npackage d\n\n"
	assert.Equal(t, want, string(data))

	logs := stderr.String()
	assert.Contains(t, logs, "Successfully processed 2 files.")
	assert.Contains(t, logs, "Output written to: "+output)
	assert.Contains(t, logs, "Reminder: The '.git/' directory and its contents are always ignored.")
	assert.NotContains(t, logs, "Default ignore patterns were used")
}

func TestRunDefaultsWhenRulesFileMissing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.py":                 "print('hi')",
		"node_modules/pkg/x.js":   "x",
		"__pycache__/main.pyc":    "bytecode",
		".git/config":             "[core]",
		".venv/lib/site/a.py":     "a",
		"docs/guide/notes.txt":    "notes",
		"dist/bundle.min.js":      "min",
		"build/output/report.txt": "report",
	})
	output := filepath.Join(t.TempDir(), "out.txt")
	var stderr bytes.Buffer

	err := New(baseConfig(root, output), WithStderr(&stderr), WithClock(fixedClock)).Run(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# .codeignore File Source: Not found/used; defaults applied.\n")
	assert.Contains(t, text, "# FILE: main.py\n")
	assert.Contains(t, text, "# FILE: docs/guide/notes.txt\n")
	assert.NotContains(t, text, "# FILE: node_modules/")
	assert.NotContains(t, text, "# FILE: __pycache__/")
	assert.NotContains(t, text, "# FILE: .git/")
	assert.NotContains(t, text, "# FILE: .venv/")
	assert.NotContains(t, text, "# FILE: dist/")
	assert.NotContains(t, text, "# FILE: build/")
	assert.Contains(t, stderr.String(), "Reminder: Default ignore patterns were used because .codeignore was not found or was unreadable.")
}

func TestRunIsIdempotentWithOutputInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":     "alpha",
		"z/b.txt":   "beta",
		"z/bin.dat": "\x00\x01\x02",
	})
	output := filepath.Join(root, "combined_code.txt")
	cfg := baseConfig(root, output)

	require.NoError(t, New(cfg, WithStderr(&bytes.Buffer{}), WithClock(fixedClock)).Run(context.Background()))
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	require.NoError(t, New(cfg, WithStderr(&bytes.Buffer{}), WithClock(fixedClock)).Run(context.Background()))
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.NotContains(t, string(second), "# FILE: combined_code.txt")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"a.txt", "combined_code.txt", "z"}, names, "no staging files left behind")
}

func TestRunMissingRootCreatesNothing(t *testing.T) {
	outDir := t.TempDir()
	output := filepath.Join(outDir, "combined_code.txt")

	err := New(baseConfig(filepath.Join(outDir, "missing"), output), WithStderr(&bytes.Buffer{})).Run(context.Background())
	require.ErrorIs(t, err, walker.ErrRootNotFound)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRootIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := New(baseConfig(file, filepath.Join(dir, "out.txt")), WithStderr(&bytes.Buffer{})).Run(context.Background())
	require.ErrorIs(t, err, walker.ErrRootNotDir)
	assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
}

func TestRunCancelledLeavesPreviousArtifact(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "a"})
	outDir := t.TempDir()
	output := filepath.Join(outDir, "combined_code.txt")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(baseConfig(root, output), WithStderr(&bytes.Buffer{})).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunJSONToStdoutWithClipboard(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "hello"})

	cfg := baseConfig(root, config.StdoutMarker)
	cfg.Format = printer.FormatJSON
	cfg.Clipboard = true
	var stdout, stderr bytes.Buffer
	clip := &fakeClipboard{}

	err := New(cfg,
		WithStdout(&stdout),
		WithStderr(&stderr),
		WithClock(fixedClock),
		WithClipboard(clip),
	).Run(context.Background())
	require.NoError(t, err)

	var doc struct {
		Root  string                  `json:"root"`
		Files []printer.JSONFileEntry `json:"files"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc), stdout.String())
	assert.Equal(t, root, doc.Root)
	assert.Equal(t, []printer.JSONFileEntry{{Path: "a.txt", Content: "hello"}}, doc.Files)
	assert.Equal(t, stdout.String(), clip.text)
	assert.Contains(t, stderr.String(), "Output written to: <stdout>")
}

func TestRunShowSkipped(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"ok.txt":  "ok",
		"bin.dat": "\xff\xfe",
	})
	cfg := baseConfig(root, filepath.Join(t.TempDir(), "out.txt"))
	cfg.ShowSkipped = true
	var stderr bytes.Buffer

	require.NoError(t, New(cfg, WithStderr(&stderr), WithClock(fixedClock)).Run(context.Background()))

	logs := stderr.String()
	assert.Contains(t, logs, "Skipped 1 files due to reading errors or being binary/non-UTF-8.")
	assert.Contains(t, logs, "Skipped FILE: bin.dat [Skipped (Not Text)]")
}

func TestRunQuietSuppressesSummary(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "a"})
	cfg := baseConfig(root, filepath.Join(t.TempDir(), "out.txt"))
	cfg.Quiet = true
	var stderr bytes.Buffer

	require.NoError(t, New(cfg, WithStderr(&stderr)).Run(context.Background()))
	assert.Empty(t, stderr.String())
}
