package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlashRel(t *testing.T) {
	root := filepath.Join("base", "root")

	assert.Equal(t, "a/b.txt", SlashRel(root, filepath.Join(root, "a", "b.txt")))
	assert.Equal(t, ".", SlashRel(root, root))
	// no relative path from a relative root to an absolute one
	abs, _ := filepath.Abs(filepath.Join("x", "y"))
	assert.Equal(t, filepath.ToSlash(abs), SlashRel(root, abs))
}

func TestNoopLoggerDiscards(t *testing.T) {
	var l Logger = NoopLogger{}
	assert.NotPanics(t, func() {
		l.Debug("x %d", 1)
		l.Info("x")
		l.Warn("x")
		l.Error("x")
	})
}
