package cli

import (
	"github.com/spf13/cobra"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the collectable sources",
	Long: `Lists the state business registries and partner entry points the
collector catalogs know about.`,
	Run: runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, _ []string) {
	cmd.Println("State business registries:")
	for _, region := range domain.Regions() {
		cmd.Printf("  %-4s %s\n", region.Code, region.Name)
	}

	cmd.Println("\nEntry points:")
	for _, ep := range domain.EntryPoints() {
		cmd.Printf("  %-24s %-10s %s\n", ep.ID, ep.Kind, ep.Name)
	}
}
