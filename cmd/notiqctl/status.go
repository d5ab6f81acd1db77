package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/notiq/internal/daemon"
)

var statusOpts struct {
	output string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon's queue status",
	Long: `Show the pause state and the waiting, displayed, and history queue
lengths of the running daemon.

With --output yaml the status is printed as YAML for scripts.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOpts.output, "output", "o", "text",
		"Output format (text, yaml)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, err := client.Status()
	if err != nil {
		return err
	}

	switch statusOpts.output {
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(st)
	case "text", "":
		state := "running"
		if st.Paused {
			state = "paused"
			if shared := daemon.LoadState(); shared.PausedAt > 0 {
				state = fmt.Sprintf("paused (%s)", humanize.Time(time.Unix(shared.PausedAt, 0)))
			}
		}
		fmt.Printf("state:     %s\n", state)
		fmt.Printf("waiting:   %d\n", st.Waiting)
		fmt.Printf("displayed: %d\n", st.Displayed)
		fmt.Printf("history:   %d\n", st.History)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", statusOpts.output)
	}
}
