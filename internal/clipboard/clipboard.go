package clipboard

import (
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

var (
	// ErrClipboardAccess is wrapped by every clipboard read or write failure.
	ErrClipboardAccess = errors.New("clipboard access error")

	// ErrUnavailable means no usable clipboard exists on this system.
	ErrUnavailable = fmt.Errorf("%w: clipboard unavailable on %s", ErrClipboardAccess, runtime.GOOS)
)

//go:generate mockgen -source=clipboard.go -destination=../mocks/mock_clipboard.go -package=mocks

// Clipboard reads and writes plain text on the system clipboard.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

// Backend names a Clipboard implementation in configuration.
type Backend string

const (
	BackendAtotto   Backend = "atotto"
	BackendNative   Backend = "native"
	BackendHeadless Backend = "headless"
)

// New returns the clipboard for backend. A native backend that cannot reach
// a display degrades to a headless clipboard instead of failing.
func New(backend Backend, logger *zap.Logger) (Clipboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch backend {
	case "", BackendAtotto:
		return NewAtottoClipboard(), nil
	case BackendNative:
		c, err := NewNativeClipboard()
		if err != nil {
			logger.Warn("Clipboard unavailable, running headless", zap.Error(err))
			return NewHeadlessClipboard(), nil
		}
		return c, nil
	case BackendHeadless:
		return NewHeadlessClipboard(), nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", backend)
	}
}
