package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show orchestration counters and stored lead count",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil {
		return errors.New("collection service not configured")
	}

	status := orchestrator.Status()
	cmd.Printf("Collectors:       %d active / %d known\n", status.ActiveAgents, status.TotalAgents)
	cmd.Printf("In progress:      %d\n", status.CollectionsInProgress)
	cmd.Printf("Total runs:       %d (%d succeeded, %d failed)\n",
		status.TotalCollections, status.SuccessfulCollections, status.FailedCollections)
	if !status.LastCollectionTime.IsZero() {
		cmd.Printf("Last collection:  %s\n", status.LastCollectionTime.Format("2006-01-02 15:04:05 MST"))
	}

	if leadStore != nil {
		count, err := leadStore.CountLeads(context.Background())
		if err != nil {
			return err
		}
		cmd.Printf("Stored leads:     %d\n", count)
	}
	return nil
}
