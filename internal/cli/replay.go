package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/doridoridoriand/pingtop/internal/logging"
	"github.com/doridoridoriand/pingtop/internal/replay"
	"github.com/doridoridoriand/pingtop/internal/session"
	"github.com/doridoridoriand/pingtop/internal/ui"
)

var flagSpeed float64

var replayCmd = &cobra.Command{
	Use:   "replay <path>",
	Short: "Replay a previously recorded session",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64Var(&flagSpeed, "speed", 1.0, "playback speed multiplier")
}

func runReplay(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("log file not found: %s", path)
	}

	dataDir, err := session.DataDir()
	if err != nil {
		return err
	}
	logger, err := logging.New(filepath.Join(dataDir, "pingtop.log"), zapcore.InfoLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := replay.Load(path, flagSpeed, logger)
	if err != nil {
		return fmt.Errorf("load replay: %w", err)
	}

	targets, statsList := replay.BuildTargets(st.Events())
	if len(targets) == 0 {
		return fmt.Errorf("no valid targets found in log file")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Replaying %d events at %.1fx speed...\n", st.TotalEvents(), st.Speed())

	if err := ui.RunReplay(st, targets, statsList); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Replay finished.")
	return nil
}
