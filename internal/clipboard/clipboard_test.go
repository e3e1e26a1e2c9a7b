package clipboard

import (
	"testing"

	"github.com/atotto/clipboard"
	"github.com/stretchr/testify/assert"
)

func TestCopyWithoutClipboardUtility(t *testing.T) {
	orig := clipboard.Unsupported
	t.Cleanup(func() { clipboard.Unsupported = orig })
	clipboard.Unsupported = true

	assert.False(t, Supported())
	assert.ErrorIs(t, NewService().Copy("text"), ErrUnsupported)
}
