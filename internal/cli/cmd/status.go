package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/berrythewa/cliphistory/internal/daemon"
	"github.com/berrythewa/cliphistory/internal/ipc"
	"github.com/berrythewa/cliphistory/internal/types"
	"github.com/berrythewa/cliphistory/pkg/format"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an instance is running and what it watches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			resp, err := callInstance(cmd.Context(), ipc.CmdStatus, nil)
			if errors.Is(err, errDirect) {
				pid, running := daemon.RunningPID(cfg)
				if useJSON {
					return writeJSON(out, map[string]any{"running": running, "pid": pid, "history_path": cfg.HistoryPath()})
				}
				if running {
					fmt.Fprintf(out, "Clipboard history is running (pid %d) without a reachable socket\n", pid)
				} else {
					fmt.Fprintln(out, "Clipboard history is not running")
				}
				fmt.Fprintf(out, "  History: %s\n", cfg.HistoryPath())
				return nil
			}
			if err != nil {
				return err
			}

			var st types.InstanceStatus
			if err := resp.DecodeData(&st); err != nil {
				return fmt.Errorf("invalid status response: %w", err)
			}
			if useJSON {
				return writeJSON(out, st)
			}
			opts := format.DefaultOptions()
			opts.UseColors = isTerminal(out)
			fmt.Fprintln(out, format.FormatStatus(st, opts))
			return nil
		},
	}
}
