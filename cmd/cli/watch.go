package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mauv0809/pool-ledger/internal/pubsub"
	"github.com/mauv0809/pool-ledger/internal/scoring"
	"github.com/spf13/cobra"
)

var projectID string

func init() {
	watchCmd.Flags().StringVar(&projectID, "project", os.Getenv("GCP_PROJECT"), "GCP project that owns the subscription")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <subscription>",
	Short: "Follow live session updates from a Pub/Sub subscription",
	Long: `Pulls session-updated messages from a subscription on the session-updated
topic and prints the current standings after every change. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectID == "" {
			return fmt.Errorf("--project or GCP_PROJECT is required")
		}
		client := pubsub.New(projectID)
		defer client.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := client.Receive(ctx, args[0], func(event pubsub.EventType, data []byte) {
			if event != pubsub.EventSessionUpdated {
				return
			}
			var update scoring.SessionUpdate
			if err := client.ProcessMessage(data, &update); err != nil {
				fmt.Fprintf(os.Stderr, "Skipping unreadable update: %s\n", err)
				return
			}
			printUpdate(update)
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func printUpdate(update scoring.SessionUpdate) {
	fmt.Printf("[%s] %s in session %s\n", update.At.Local().Format("15:04:05"), update.Type, update.SessionID)
	if update.Record != nil {
		record, _ := json.Marshal(update.Record)
		fmt.Printf("  record: %s\n", record)
	}
	for i, entry := range update.Leaderboard {
		fmt.Printf("  %d. %-20s %+d\n", i+1, entry.Name, entry.Balance)
	}
}
