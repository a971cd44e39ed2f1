package clipboard

import "sync"

// HeadlessClipboard is an in-process clipboard for machines without a
// display. Writes are visible to later reads in the same process only.
type HeadlessClipboard struct {
	mu   sync.Mutex
	text string
}

func NewHeadlessClipboard() *HeadlessClipboard {
	return &HeadlessClipboard{}
}

func (c *HeadlessClipboard) Read() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *HeadlessClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}
