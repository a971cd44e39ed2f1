package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/cliphistory/internal/clipboard"
	"github.com/berrythewa/cliphistory/internal/ipc"
)

func newCopyCmd() *cobra.Command {
	var index int

	cmd := &cobra.Command{
		Use:   "copy [text|-]",
		Short: "Put text or a history entry on the clipboard",
		Long: `Put text on the clipboard. "-" reads the text from standard input and
--index copies a history entry (1 = most recent).

Through a running instance the copy is not recorded again as a new entry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read standard input: %w", err)
				}
				args[0] = string(data)
			}
			text, err := resolveEntry(cmd, args, index)
			if err != nil {
				return err
			}
			if text == "" {
				return fmt.Errorf("nothing to copy")
			}

			resp, err := callInstance(cmd.Context(), ipc.CmdHistoryCopy, map[string]any{"text": text})
			switch {
			case err == nil:
				fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
				return nil
			case !errors.Is(err, errDirect):
				return err
			}

			clip, err := clipboard.New(clipboard.Backend(cfg.Clipboard.Backend), GetZapLogger())
			if err != nil {
				return err
			}
			if err := clip.Write(text); err != nil {
				return err
			}
			GetZapLogger().Debug("Copied without a running instance", zap.Int("length", len(text)))
			fmt.Fprintln(cmd.OutOrStdout(), "Text copied to clipboard")
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "index", "i", 0, "copy the history entry at this position")
	return cmd
}
