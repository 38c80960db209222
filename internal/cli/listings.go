package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doridoridoriand/pingtop/internal/session"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List recorded event logs available for replay",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := session.DataDir()
		if err != nil {
			return err
		}
		logs, err := session.ListLogs(dataDir)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No log files found.")
			fmt.Fprintln(cmd.OutOrStdout(), "Use --log-raw to record logs: sudo pingtop -l")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Available log files for replay:")
		printPaths(cmd, logs)
		fmt.Fprintln(cmd.OutOrStdout(), "\nUse `pingtop replay <path>` to replay a log file.")
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved session summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, err := session.DataDir()
		if err != nil {
			return err
		}
		sessions, err := session.ListSessions(dataDir)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No session summaries found.")
			fmt.Fprintln(cmd.OutOrStdout(), "Use --summary to save one: sudo pingtop -s")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved session summaries:")
		printPaths(cmd, sessions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func printPaths(cmd *cobra.Command, paths []string) {
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", path)
		if info, err := os.Stat(path); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "    Size: %d KB\n", info.Size()/1024)
		}
	}
}
