package clipboard

import (
	"fmt"
	"sync"

	nativeClip "golang.design/x/clipboard"
)

var (
	nativeInitOnce sync.Once
	nativeInitErr  error
)

// NativeClipboard talks to the platform clipboard through
// golang.design/x/clipboard without external helper binaries.
type NativeClipboard struct{}

// NewNativeClipboard initialises the native clipboard once per process.
func NewNativeClipboard() (*NativeClipboard, error) {
	nativeInitOnce.Do(func() {
		nativeInitErr = nativeClip.Init()
	})
	if nativeInitErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, nativeInitErr)
	}
	return &NativeClipboard{}, nil
}

// Read returns the text on the clipboard. Non-text content reads as "".
func (c *NativeClipboard) Read() (string, error) {
	return string(nativeClip.Read(nativeClip.FmtText)), nil
}

func (c *NativeClipboard) Write(text string) error {
	if changed := nativeClip.Write(nativeClip.FmtText, []byte(text)); changed == nil {
		return fmt.Errorf("%w: failed to write clipboard", ErrClipboardAccess)
	}
	return nil
}
