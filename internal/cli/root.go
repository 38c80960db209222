// Package cli wires the pingtop commands: live monitoring at the root,
// plus replay and log/session listings.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doridoridoriand/pingtop/internal/app"
	"github.com/doridoridoriand/pingtop/internal/logging"
	"github.com/doridoridoriand/pingtop/internal/ping"
	"github.com/doridoridoriand/pingtop/internal/session"
	"github.com/doridoridoriand/pingtop/internal/target"
	"github.com/doridoridoriand/pingtop/internal/ui"
)

var (
	flagTargets   []string
	flagInterval  time.Duration
	flagDefaults  bool
	flagNoGateway bool
	flagLogRaw    bool
	flagSummary   bool
	flagNoUI      bool
)

var rootCmd = &cobra.Command{
	Use:          "pingtop",
	Short:        "Real-time network latency monitor for the terminal",
	SilenceUsage: true,
	RunE:         runLive,
}

func init() {
	rootCmd.Flags().StringSliceVarP(&flagTargets, "targets", "t", nil, "target hosts to ping (IP addresses or hostnames)")
	rootCmd.Flags().DurationVarP(&flagInterval, "interval", "i", time.Second, "ping interval")
	rootCmd.Flags().BoolVarP(&flagDefaults, "defaults", "d", true, "include default targets (1.1.1.1, 8.8.8.8, 9.9.9.9)")
	rootCmd.Flags().BoolVar(&flagNoGateway, "no-gateway", false, "skip auto-detection of the local gateway")
	rootCmd.Flags().BoolVarP(&flagLogRaw, "log-raw", "l", false, "record raw ping events for replay")
	rootCmd.Flags().BoolVarP(&flagSummary, "summary", "s", false, "save a session summary on exit")
	rootCmd.Flags().BoolVar(&flagNoUI, "no-ui", false, "run without the TUI (record and log only, stop with ctrl-c)")
}

// SetVersionInfo sets the version shown by --version.
func SetVersionInfo(version string) {
	rootCmd.Version = version
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if !checkICMPPermissions() {
		if !ping.ExternalAvailable() {
			printPermissionHelp()
			return fmt.Errorf("insufficient privileges to send ICMP packets")
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no raw socket access, falling back to the system ping command.")
	}

	targets := target.BuildList(flagTargets, flagDefaults, flagNoGateway)
	if len(targets) == 0 {
		return fmt.Errorf("no targets specified; use --targets to add hosts or --defaults")
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

	recorder, err := session.NewRecorder(dataDir, flagLogRaw, flagSummary)
	if err != nil {
		return err
	}

	logger.Info("session started",
		zap.Int("targets", len(targets)),
		zap.Duration("interval", flagInterval),
		zap.Bool("log_raw", flagLogRaw))

	a := app.New(targets, flagInterval, recorder, logger)
	defer a.Close()

	var uiErr error
	if flagNoUI {
		runHeadless(cmd, a)
	} else {
		uiErr = ui.RunLive(a)
	}

	summaryPath, sumErr := recorder.WriteSummary(a.Targets, a.Stats)
	if sumErr != nil {
		logger.Warn("final summary write failed", zap.Error(sumErr))
	}
	if err := recorder.Finish(); err != nil {
		logger.Warn("event log close failed", zap.Error(err))
	}

	// The terminal is ours again after RunLive returns.
	if summaryPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Session summary saved to: %s\n", summaryPath)
	}
	if recorder.EventLogPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Raw ping log saved to: %s\n", recorder.EventLogPath)
	}

	return uiErr
}

// runHeadless drains updates on the UI cadence without a screen, for
// unattended recording. Stops on SIGINT or SIGTERM.
func runHeadless(cmd *cobra.Command, a *app.App) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Monitoring %d targets without UI, press ctrl-c to stop.\n", len(a.Targets))

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.ProcessUpdates()
			return
		case <-ticker.C:
			a.ProcessUpdates()
		}
	}
}
