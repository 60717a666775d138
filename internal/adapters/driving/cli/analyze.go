package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run read-only source analysis",
	Long: `Probes every registered source without collecting, reporting
volume, reachability and suggested configuration changes.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil {
		return errors.New("collection service not configured")
	}

	reports := orchestrator.AnalyzeAll(context.Background())
	if len(reports) == 0 {
		cmd.Println("No sources could be analyzed.")
		return nil
	}

	for _, report := range reports {
		cmd.Printf("%s:\n", report.AgentID)
		for _, finding := range report.Findings {
			cmd.Printf("  - %s\n", finding)
		}
		for _, improvement := range report.Improvements {
			cmd.Printf("  > %s\n", improvement)
		}
	}
	cmd.Printf("Analyzed %d sources.\n", len(reports))
	return nil
}
