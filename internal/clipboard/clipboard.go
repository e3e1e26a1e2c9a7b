// Package clipboard copies the finished artifact to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available
var ErrUnsupported = errors.New("no clipboard utility available (install xclip, xsel or wl-clipboard)")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if !Supported() {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Supported reports whether a clipboard utility is available on this system
func Supported() bool {
	return !clipboard.Unsupported
}

var _ Copier = (*Service)(nil)
