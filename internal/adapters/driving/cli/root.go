// Package cli implements the command-line interface for leadscout.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadscout-labs/leadscout-cli/internal/adapters/driven/config/file"
	"github.com/leadscout-labs/leadscout-cli/internal/adapters/driven/storage/sqlite"
	"github.com/leadscout-labs/leadscout-cli/internal/collectors/entrypoints"
	"github.com/leadscout-labs/leadscout-cli/internal/collectors/retry"
	"github.com/leadscout-labs/leadscout-cli/internal/collectors/statepages"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driving"
	"github.com/leadscout-labs/leadscout-cli/internal/core/services"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired by initServices and swapped out by tests.
var (
	orchestrator       driving.Orchestrator
	leadStore          driven.LeadStore
	runStore           driven.RunStore
	configStore        driven.ConfigStore
	schedulerStore     driven.SchedulerStore
	entryPointRegistry *entrypoints.Registry
	metadataStore      *sqlite.Store
)

var (
	flagVerbose   bool
	flagDataDir   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "leadscout",
	Short: "Collect and score business leads from public sources",
	Long: `leadscout orchestrates lead collection across state business
registries and partner entry points. Collections run concurrently under
a configurable ceiling, with per-source rate limiting and retry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if metadataStore != nil {
			_ = metadataStore.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.leadscout/data)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.leadscout)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the collector registries, orchestrator and stores.
// Tests inject their own services beforehand; initServices then does
// nothing.
func initServices() error {
	if orchestrator != nil {
		return nil
	}

	cfg, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = cfg

	classifier := retry.NewClassifier(cfg.GetStringSlice(file.KeyTransientPhrases)...)
	executor := retry.NewExecutor(classifier)

	states := statepages.NewRegistry(statepages.NewStubClient(), executor)
	if _, err := states.CreateAll(); err != nil {
		return fmt.Errorf("creating state collectors: %w", err)
	}

	feedDir := cfg.GetString(file.KeyFeedDir)
	entryPointRegistry = entrypoints.NewRegistry(feedDir, executor)
	if _, err := entryPointRegistry.CreateAll(); err != nil {
		return fmt.Errorf("creating entry-point collectors: %w", err)
	}

	orchestrator = services.NewOrchestrator(cfg.GetInt(file.KeyMaxConcurrent), states, entryPointRegistry)

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	metadataStore = store
	leadStore = store.LeadStore()
	runStore = store.RunStore()
	schedulerStore = store.SchedulerStore()

	return nil
}
