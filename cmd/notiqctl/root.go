package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/notiq/internal/dbus"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	globalOpts struct {
		verbose bool
	}
	logger *slog.Logger

	// client is the control connection to the running daemon, opened
	// before every command and closed after.
	client *dbus.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "notiqctl",
	Short: "Control a running notiqd notification daemon",
	Long: `notiqctl drives a running notiqd daemon over D-Bus.

It can pause and resume notification delivery, restore notifications
from history, archive everything on screen, and report queue status
for scripts and status bars.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		client, err = dbus.NewClient()
		if err != nil {
			return fmt.Errorf("failed to connect to notiqd: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close bus connection", "error", err)
			}
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to showing status
		return runStatus(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}
