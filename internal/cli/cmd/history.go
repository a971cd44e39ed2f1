package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/berrythewa/cliphistory/internal/ipc"
	"github.com/berrythewa/cliphistory/pkg/format"
)

// newHistoryCmd creates the history command with all subcommands
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage clipboard history",
		Long: `Manage clipboard history:
  • List and search history entries
  • Delete one entry
  • Clear the whole history

Commands go through the running instance when there is one, so its window
stays up to date, and work on the history file directly otherwise.`,
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryClearCmd())
	return cmd
}

// newHistoryListCmd creates the list subcommand
func newHistoryListCmd() *cobra.Command {
	var (
		search   string
		limit    int
		fuzzyArg bool
		compact  bool
		noColors bool
		maxLines int
		maxWidth int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clipboard history",
		Long: `List clipboard history entries, most recent first.

Examples:
  cliphistory history list                   # Show every entry
  cliphistory history list -n 5              # Show the 5 most recent entries
  cliphistory history list -s token          # Entries containing "token", any case
  cliphistory history list -s tkn --fuzzy    # Fuzzy match, best first
  cliphistory history list --compact         # One line per entry`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, total, err := listEntries(cmd.Context(), search, fuzzyArg, limit)
			if err != nil {
				return err
			}

			if useJSON {
				return writeJSON(cmd.OutOrStdout(), ipc.HistoryList{Entries: entries, Total: total})
			}

			opts := format.DefaultOptions()
			if compact {
				opts = format.CompactOptions()
			}
			opts.UseColors = !noColors && isTerminal(cmd.OutOrStdout())
			opts.MaxLines = maxLines
			opts.MaxWidth = maxWidth

			fmt.Fprintln(cmd.OutOrStdout(), format.New(opts).FormatEntryList(entries, total))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only entries containing this text (case-insensitive)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of entries to show (0 = all)")
	cmd.Flags().BoolVar(&fuzzyArg, "fuzzy", false, "rank entries by fuzzy match instead of substring search")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "use compact single-line format")
	cmd.Flags().BoolVar(&noColors, "no-colors", false, "disable colored output")
	cmd.Flags().IntVar(&maxLines, "max-lines", 10, "maximum lines to show per entry (0 = no limit)")
	cmd.Flags().IntVar(&maxWidth, "max-width", 80, "maximum width per line (0 = no limit)")

	return cmd
}

// listEntries returns up to limit matching entries and the number of matches.
func listEntries(ctx context.Context, search string, fuzzyMatch bool, limit int) ([]string, int, error) {
	query := search
	if fuzzyMatch {
		query = ""
	}
	entries, err := fetchEntries(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	if fuzzyMatch && strings.TrimSpace(search) != "" {
		entries = fuzzyRank(search, entries)
	}

	total := len(entries)
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, total, nil
}

func fetchEntries(ctx context.Context, search string) ([]string, error) {
	resp, err := callInstance(ctx, ipc.CmdHistoryList, map[string]any{"search": search})
	if err == nil {
		var list ipc.HistoryList
		if err := resp.DecodeData(&list); err != nil {
			return nil, fmt.Errorf("invalid history response: %w", err)
		}
		return list.Entries, nil
	}
	if !errors.Is(err, errDirect) {
		return nil, err
	}

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Entries(search), nil
}

// fuzzyRank keeps the entries matching query, best match first. Equal
// matches keep their history order.
func fuzzyRank(query string, entries []string) []string {
	ranks := fuzzy.RankFindFold(query, entries)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// newHistoryDeleteCmd creates the delete subcommand
func newHistoryDeleteCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "delete [text]",
		Short: "Delete one history entry",
		Long: `Delete the entry equal to text, or the entry at --index as shown by
'cliphistory history list' (1 = most recent).

Examples:
  cliphistory history delete "my password"
  cliphistory history delete --index 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := resolveEntry(cmd, args, index)
			if err != nil {
				return err
			}

			resp, err := callInstance(cmd.Context(), ipc.CmdHistoryDelete, map[string]any{"text": text})
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			case !errors.Is(err, errDirect):
				return err
			}

			store, err := openStoreForWrite()
			if err != nil {
				return err
			}
			defer store.Close()

			found, err := store.Delete(text)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("entry not found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Item removed from history")
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "position in the history list (1 = most recent)")
	return cmd
}

// resolveEntry returns the text named by the single argument or by index.
func resolveEntry(cmd *cobra.Command, args []string, index int) (string, error) {
	switch {
	case len(args) == 1 && index > 0:
		return "", fmt.Errorf("give either text or --index, not both")
	case len(args) == 1:
		return args[0], nil
	case index <= 0:
		return "", fmt.Errorf("give the entry text or --index")
	}

	entries, err := fetchEntries(cmd.Context(), "")
	if err != nil {
		return "", err
	}
	if index > len(entries) {
		return "", fmt.Errorf("index %d out of range: history has %d entries", index, len(entries))
	}
	return entries[index-1], nil
}

// newHistoryClearCmd creates the clear subcommand
func newHistoryClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every history entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok, err := confirm(cmd, "Clear the whole clipboard history?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			resp, err := callInstance(cmd.Context(), ipc.CmdHistoryClear, nil)
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			case !errors.Is(err, errDirect):
				return err
			}

			store, err := openStoreForWrite()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return cmd
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		// EOF without an answer means no.
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
