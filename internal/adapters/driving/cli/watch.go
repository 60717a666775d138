package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leadscout-labs/leadscout-cli/internal/collectors/entrypoints"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <entry-point-id>",
	Short: "Watch a file-feed entry point and ingest drops as they arrive",
	Long: `Watches the feed directory of a file-feed or webhook-spool entry
point. Each dropped feed file is parsed and its leads persisted
immediately, until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if entryPointRegistry == nil {
		return errors.New("collection service not configured")
	}

	id := args[0]
	var entryPoint domain.EntryPoint
	found := false
	for _, ep := range domain.EntryPoints() {
		if ep.ID == id {
			entryPoint = ep
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("entry point %s: %w", id, domain.ErrNotFound)
	}
	if entryPoint.Kind != domain.EntryPointFileFeed && entryPoint.Kind != domain.EntryPointWebhook {
		return fmt.Errorf("entry point %s is %s, only file feeds and webhook spools can be watched",
			id, entryPoint.Kind)
	}

	collector, ok := entryPointRegistry.Get(id)
	if !ok {
		return fmt.Errorf("entry point %s: %w", id, domain.ErrNotFound)
	}
	ec, ok := collector.(*entrypoints.Collector)
	if !ok {
		return fmt.Errorf("entry point %s does not support watching", id)
	}
	feed, ok := ec.Adapter().(*entrypoints.FileFeedAdapter)
	if !ok {
		return fmt.Errorf("entry point %s does not support watching", id)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches, err := feed.Watch(ctx, entryPoint)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Printf("Watching %s. Press Ctrl+C to stop.\n", id)
	total := 0
	for {
		select {
		case <-sigCh:
			cmd.Printf("Ingested %d leads.\n", total)
			return nil
		case batch, open := <-batches:
			if !open {
				cmd.Printf("Ingested %d leads.\n", total)
				return nil
			}
			if leadStore != nil {
				if err := leadStore.SaveLeads(ctx, batch); err != nil {
					logger.Warn("Failed to save watched leads: %v", err)
					continue
				}
			}
			total += len(batch)
			cmd.Printf("  +%d leads (total %d)\n", len(batch), total)
		}
	}
}
