package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/code-combiner/internal/utils"
)

var _ utils.Logger = (*Logger)(nil)

func TestDefaultLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, false)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.Warn("careful")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "WARN")
	assert.False(t, log.VerboseMode)
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)

	log.Debug("walking %s", "src")

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "walking src")
	assert.True(t, log.VerboseMode)
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, false)

	log.SetLevel("error")
	log.Warn("dropped")
	log.Error("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.False(t, log.VerboseMode)

	buf.Reset()
	log.SetLevel("none")
	log.Error("silent")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"warn":    LevelWarn,
		"error":   LevelError,
		"off":     LevelNone,
		"bogus":   LevelInfo,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestColorsOnlyWhenRequested(t *testing.T) {
	var plain, colored bytes.Buffer
	New(&plain, false, false).Info("msg")
	New(&colored, false, true).Info("msg")

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, colored.String(), "\x1b[")
}
