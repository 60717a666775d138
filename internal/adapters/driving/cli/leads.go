package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var (
	flagLeadsRegion string
	flagLeadsLimit  int
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads",
	RunE:  runLeads,
}

func init() {
	leadsCmd.Flags().StringVar(&flagLeadsRegion, "region", "", "filter by region code")
	leadsCmd.Flags().IntVar(&flagLeadsLimit, "limit", 20, "maximum leads to show (0 = all)")
	rootCmd.AddCommand(leadsCmd)
}

func runLeads(cmd *cobra.Command, _ []string) error {
	if leadStore == nil {
		return errors.New("lead store not configured")
	}

	leads, err := leadStore.ListLeads(context.Background(), flagLeadsRegion, flagLeadsLimit)
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		cmd.Println("No leads stored.")
		return nil
	}

	for _, lead := range leads {
		cmd.Printf("%-30s %-4s score %-3d %s\n", lead.Company, lead.Region, lead.Score, lead.Source)
	}
	cmd.Printf("%d leads.\n", len(leads))
	return nil
}
