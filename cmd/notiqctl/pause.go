package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/notiq/internal/daemon"
)

var pauseOpts struct {
	quiet bool // Suppress output, return exit code only
}

// pauseCmd represents the pause command group.
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Manage notification delivery pausing",
	Long: `Manage pausing of notification delivery.

While paused, notiqd keeps accepting notifications but does not show
them; they queue up and appear when delivery resumes.

Use 'notiqctl pause status' to check the current state.
Use 'notiqctl pause on' to pause delivery.
Use 'notiqctl pause off' to resume delivery.
Use 'notiqctl pause toggle' to toggle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to showing status
		return pauseStatusRun(cmd, args)
	},
}

var pauseOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Pause notification delivery",
	RunE:  pauseOnRun,
}

var pauseOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Resume notification delivery",
	RunE:  pauseOffRun,
}

var pauseToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle notification delivery pausing",
	RunE:  pauseToggleRun,
}

var pauseStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether notification delivery is paused",
	RunE:  pauseStatusRun,
}

func init() {
	pauseCmd.AddCommand(pauseOnCmd)
	pauseCmd.AddCommand(pauseOffCmd)
	pauseCmd.AddCommand(pauseToggleCmd)
	pauseCmd.AddCommand(pauseStatusCmd)

	for _, cmd := range []*cobra.Command{pauseCmd, pauseOnCmd, pauseOffCmd, pauseToggleCmd, pauseStatusCmd} {
		cmd.Flags().BoolVarP(&pauseOpts.quiet, "quiet", "q", false,
			"Suppress output, return exit code only (0=running, 1=paused)")
	}

	rootCmd.AddCommand(pauseCmd)
}

func pauseOnRun(cmd *cobra.Command, args []string) error {
	if err := client.Pause(); err != nil {
		return err
	}
	if !pauseOpts.quiet {
		fmt.Println("notification delivery paused")
	}
	return nil
}

func pauseOffRun(cmd *cobra.Command, args []string) error {
	if err := client.Unpause(); err != nil {
		return err
	}
	if !pauseOpts.quiet {
		fmt.Println("notification delivery resumed")
	}
	return nil
}

func pauseToggleRun(cmd *cobra.Command, args []string) error {
	paused, err := client.TogglePause()
	if err != nil {
		return err
	}
	if !pauseOpts.quiet {
		if paused {
			fmt.Println("notification delivery paused")
		} else {
			fmt.Println("notification delivery resumed")
		}
	}
	return nil
}

func pauseStatusRun(cmd *cobra.Command, args []string) error {
	paused, err := client.PauseStatus()
	if err != nil {
		return err
	}

	if pauseOpts.quiet {
		if paused {
			os.Exit(1)
		}
		return nil
	}

	if !paused {
		fmt.Println("running")
		return nil
	}

	// The daemon stamps the transition time into the shared state file.
	if st := daemon.LoadState(); st.PausedAt > 0 {
		since := time.Unix(st.PausedAt, 0)
		fmt.Printf("paused (%s)\n", humanize.Time(since))
	} else {
		fmt.Println("paused")
	}
	return nil
}
