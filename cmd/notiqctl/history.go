package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// historyCmd represents the history command group.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with the daemon's notification history",
}

var historyPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "Redisplay the most recently closed notification",
	Long: `Restore the most recently closed notification from history.

The notification re-enters the display pipeline as if it had just
arrived, keeping its original id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.HistoryPop(); err != nil {
			return err
		}
		fmt.Println("popped notification from history")
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all notifications from history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.HistoryClear(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	},
}

var closeAllCmd = &cobra.Command{
	Use:   "close-all",
	Short: "Move all visible and queued notifications to history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.CloseAll(); err != nil {
			return err
		}
		fmt.Println("closed all notifications")
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyPopCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(closeAllCmd)
}
