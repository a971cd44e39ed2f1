package format

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Formatter renders history entries for the terminal.
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
	}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatEntry formats one history entry.
func (f *Formatter) FormatEntry(text string) string {
	if f.options.Compact {
		return Preview(text, f.options.MaxWidth)
	}

	body := FormatText(text, f.options)
	if !f.options.ShowMetadata {
		return body
	}
	return body + "\n" + DimIf(f.formatMetadata(text), f.options.UseColors)
}

// FormatEntryList formats entries, numbered from 1. total is the number of
// matches before any limit was applied.
func (f *Formatter) FormatEntryList(entries []string, total int) string {
	if len(entries) == 0 {
		return ColorizeIf("No clipboard history", Gray, f.options.UseColors)
	}

	var parts []string
	parts = append(parts, f.formatListHeader(len(entries), total))

	for i, entry := range entries {
		index := ColorizeIf(fmt.Sprintf("[%d]", i+1), Cyan, f.options.UseColors)
		if f.options.Compact {
			parts = append(parts, fmt.Sprintf("%s %s", index, f.FormatEntry(entry)))
			continue
		}
		if i > 0 {
			parts = append(parts, CreateSeparator(f.options))
		}
		parts = append(parts, index, IndentText(f.FormatEntry(entry), "  "))
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) formatMetadata(text string) string {
	lines := strings.Count(text, "\n") + 1
	meta := []string{
		fmt.Sprintf("Size: %s", FormatSize(int64(len(text)))),
		fmt.Sprintf("Characters: %d", utf8.RuneCountInString(text)),
	}
	if lines > 1 {
		meta = append(meta, fmt.Sprintf("Lines: %d", lines))
	}
	return strings.Join(meta, " • ")
}

func (f *Formatter) formatListHeader(shown, total int) string {
	header := fmt.Sprintf("Clipboard history (%d entries)", shown)
	if total > shown {
		header = fmt.Sprintf("Clipboard history (%d of %d entries)", shown, total)
	}
	return BoldIf(header, f.options.UseColors)
}
