package format

import (
	"strings"
)

// lineBreak stands in for newlines in single-line previews.
const lineBreak = "↵"

// FormatText applies the line and width limits of opts to a history entry.
func FormatText(text string, opts Options) string {
	if opts.MaxLines > 0 {
		text = TruncateLines(text, opts.MaxLines)
	}
	if opts.MaxWidth > 0 {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = TruncateText(line, opts.MaxWidth)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

// Preview renders text on one line of at most maxLen runes: surrounding
// space is trimmed, line breaks become ↵ and tabs become spaces.
func Preview(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", " "+lineBreak+" ")
	text = strings.ReplaceAll(text, "\t", " ")
	return TruncateText(text, maxLen)
}
