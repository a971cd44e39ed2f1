package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long: `Show the effective configuration (file values plus flag and
CLIPHISTORY_* environment overrides) and the paths in use.`,
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useJSON {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the files used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile := cfg.SystemPaths.ConfigFile
			if cfgFile != "" {
				configFile = cfgFile
			}
			paths := map[string]string{
				"config":  configFile,
				"history": cfg.HistoryPath(),
				"socket":  cfg.SocketPath(),
				"log":     cfg.LogFile(),
			}
			if useJSON {
				return writeJSON(cmd.OutOrStdout(), paths)
			}
			for _, key := range []string{"config", "history", "socket", "log"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", key+":", paths[key])
			}
			return nil
		},
	}
}
