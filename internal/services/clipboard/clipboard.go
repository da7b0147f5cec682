// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

const errorCopyFormat = "copy to clipboard: %w"

// ErrUnavailable reports that no clipboard utility is available on this system.
var ErrUnavailable = errors.New("clipboard is not available on this system")

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// SystemClipboard implements Copier using github.com/atotto/clipboard.
type SystemClipboard struct{}

// NewSystemClipboard constructs the system clipboard copier.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Copy writes text to the system clipboard.
func (systemClipboard *SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf(errorCopyFormat, writeError)
	}
	return nil
}

var _ Copier = (*SystemClipboard)(nil)
