package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driving"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

var (
	flagCollectFamily   string
	flagCollectLimit    int
	flagCollectPriority []string
	flagCollectIndustry string
	flagCollectMax      int
)

var collectCmd = &cobra.Command{
	Use:   "collect [collector-id]",
	Short: "Collect leads from registered sources",
	Long: `Runs lead collection. If a collector ID is provided (a state code
like CA, or an entry-point ID), only that collector runs. Otherwise all
registered collectors run in concurrency-bounded batches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringVar(&flagCollectFamily, "family", "", "restrict to one family: statepages or entrypoints")
	collectCmd.Flags().IntVar(&flagCollectLimit, "limit", 0, "cap how many collectors run (0 = all)")
	collectCmd.Flags().StringSliceVar(&flagCollectPriority, "priority", nil, "collector IDs to run first, in order")
	collectCmd.Flags().StringVar(&flagCollectIndustry, "industry", "", "filter leads to one industry segment")
	collectCmd.Flags().IntVar(&flagCollectMax, "max-records", 0, "cap leads per collector run")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("collection service not configured")
	}

	family, err := parseFamily(flagCollectFamily)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var results []domain.CollectionResult
	if len(args) > 0 {
		results = []domain.CollectionResult{orchestrator.CollectOne(ctx, args[0])}
	} else {
		results = orchestrator.CollectAll(ctx, driving.CollectOptions{
			Family:   family,
			Priority: flagCollectPriority,
			Limit:    flagCollectLimit,
			Params: driving.CollectParams{
				Industry:   flagCollectIndustry,
				MaxRecords: flagCollectMax,
			},
		})
	}

	persistResults(ctx, results)
	printResults(cmd, results)

	for _, result := range results {
		if !result.Success {
			return errors.New("one or more collections failed")
		}
	}
	return nil
}

// parseFamily maps the --family flag to a collector family.
func parseFamily(s string) (domain.CollectorFamily, error) {
	switch s {
	case "":
		return domain.FamilyAll, nil
	case string(domain.FamilyStatePages):
		return domain.FamilyStatePages, nil
	case string(domain.FamilyEntryPoints):
		return domain.FamilyEntryPoints, nil
	default:
		return domain.FamilyAll, errors.New("unknown family: " + s)
	}
}

// persistResults saves collected leads and run records. Persistence
// failures are logged, not fatal: the collection itself succeeded.
func persistResults(ctx context.Context, results []domain.CollectionResult) {
	for _, result := range results {
		if runStore != nil {
			if err := runStore.SaveRun(ctx, result); err != nil {
				logger.Warn("Failed to record run %s: %v", result.RunID, err)
			}
		}
		if leadStore != nil && len(result.Leads) > 0 {
			if err := leadStore.SaveLeads(ctx, result.Leads); err != nil {
				logger.Warn("Failed to save leads from %s: %v", result.AgentID, err)
			}
		}
	}
}

func printResults(cmd *cobra.Command, results []domain.CollectionResult) {
	total := 0
	failed := 0
	for _, result := range results {
		if result.Success {
			cmd.Printf("  %-24s %4d leads  %s\n",
				result.AgentID, result.RecordsCollected, result.Duration.Round(time.Millisecond))
			total += result.RecordsCollected
		} else {
			failed++
			cmd.Printf("  %-24s FAILED", result.AgentID)
			if len(result.Errors) > 0 {
				cmd.Printf("  %s", result.Errors[0])
			}
			cmd.Println()
		}
	}
	cmd.Printf("Collected %d leads from %d collectors (%d failed).\n",
		total, len(results), failed)
}
