package clipboard

import (
	"fmt"

	atottoClip "github.com/atotto/clipboard"
)

// AtottoClipboard uses github.com/atotto/clipboard, which shells out to
// xclip/xsel/wl-clipboard on Linux and uses the native API elsewhere.
type AtottoClipboard struct{}

func NewAtottoClipboard() *AtottoClipboard {
	return &AtottoClipboard{}
}

func (c *AtottoClipboard) Read() (string, error) {
	if atottoClip.Unsupported {
		return "", ErrUnavailable
	}
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: failed to read clipboard: %v", ErrClipboardAccess, err)
	}
	return text, nil
}

func (c *AtottoClipboard) Write(text string) error {
	if atottoClip.Unsupported {
		return ErrUnavailable
	}
	if err := atottoClip.WriteAll(text); err != nil {
		return fmt.Errorf("%w: failed to write clipboard: %v", ErrClipboardAccess, err)
	}
	return nil
}
