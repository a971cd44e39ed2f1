package format

import (
	"fmt"
	"strings"

	"github.com/berrythewa/cliphistory/internal/types"
)

// FormatStatus renders what a running instance reports about itself.
func FormatStatus(st types.InstanceStatus, opts Options) string {
	var parts []string

	title := ColorizeIf("Clipboard history is running", BrightGreen, opts.UseColors)
	parts = append(parts, title, "")

	parts = append(parts,
		formatStatLine("PID", fmt.Sprintf("%d", st.PID), opts),
		formatStatLine("Started", FormatRelativeTime(st.StartedAt), opts),
		formatStatLine("History", st.HistoryPath, opts),
		formatStatLine("Entries", fmt.Sprintf("%d / %d", st.Entries, st.MaxEntries), opts),
	)
	if st.Version != "" {
		parts = append(parts, formatStatLine("Version", st.Version, opts))
	}

	w := st.Watcher
	parts = append(parts, "", formatSubHeader("Watcher", opts))
	state := "stopped"
	if w.Running {
		state = "running"
	}
	if w.Suppressed {
		state += " (suppressing self-copy)"
	}
	parts = append(parts,
		formatStatLine("State", state, opts),
		formatStatLine("Backend", w.Backend, opts),
		formatStatLine("Interval", w.Interval.String(), opts),
		formatStatLine("Changes", fmt.Sprintf("%d", w.Changes), opts),
	)
	if !w.LastChange.IsZero() {
		parts = append(parts, formatStatLine("Last change", FormatRelativeTime(w.LastChange), opts))
	}
	if w.ReadErrors > 0 {
		errLine := fmt.Sprintf("%d consecutive (%s)", w.ReadErrors, w.LastError)
		parts = append(parts, formatStatLine("Read errors", ColorizeIf(errLine, Red, opts.UseColors), opts))
	}

	return strings.Join(parts, "\n")
}

// formatStatLine formats a statistics line with label and value
func formatStatLine(label, value string, opts Options) string {
	if opts.UseColors {
		return fmt.Sprintf("  %s%s:%s %s", BrightCyan, label, Reset, value)
	}
	return fmt.Sprintf("  %s: %s", label, value)
}

// formatSubHeader formats a section subheader
func formatSubHeader(title string, opts Options) string {
	return ColorizeIf(title, BrightBlue, opts.UseColors)
}
