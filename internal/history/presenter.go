package history

// Presenter is the view the controller drives. Implementations only render;
// the store stays the source of truth.
type Presenter interface {
	Prepend(text string)
	ReplaceAll(entries []string)
	Remove(text string)
	Clear()
}

// Notifier is implemented by presenters that can show a transient status
// line.
type Notifier interface {
	Notify(message string)
}

// Suppressor is told about clipboard writes made by this program: Suppress
// before the write, MarkWritten once it succeeded.
type Suppressor interface {
	Suppress()
	MarkWritten(text string)
}

// Status lines shown after each operation.
const (
	MsgNewText         = "New text detected!"
	MsgCopied          = "Text copied to clipboard!"
	MsgRemoved         = "Item removed from history!"
	MsgCleared         = "All history cleared!"
	MsgShowingAll      = "Showing all items"
	MsgSearchingFmt    = "Searching for: %q"
	MsgAutostartOn     = "Auto-start enabled!"
	MsgAutostartOff    = "Auto-start disabled!"
	MsgAutostartFailed = "Failed to update auto-start"
	MsgSaveFailed      = "Failed to save history"
	MsgCopyFailed      = "Failed to copy to clipboard"
)
