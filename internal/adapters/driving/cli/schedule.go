package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadscout-labs/leadscout-cli/internal/adapters/driven/config/file"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
	"github.com/leadscout-labs/leadscout-cli/internal/core/services"
)

var flagScheduleEvery time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the collection scheduler in the foreground",
	Long: `Starts the scheduler daemon. Lead collection and source analysis
run on their configured intervals until interrupted. With --every the
persisted task schedule is bypassed and a full collection cycle runs on
the given interval instead.`,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().DurationVar(&flagScheduleEvery, "every", 0,
		"run a collection cycle on this fixed interval instead of the task schedule")
	rootCmd.AddCommand(scheduleCmd)
}

// scheduleConfig applies config-store overrides to the default task schedule.
func scheduleConfig(cfg driven.ConfigStore) domain.SchedulerConfig {
	sc := domain.DefaultSchedulerConfig()
	if cfg == nil {
		return sc
	}
	if minutes := cfg.GetInt(file.KeyScheduleInterval); minutes > 0 {
		tc := sc.TaskConfigs[domain.TaskIDLeadCollection]
		tc.Interval = time.Duration(minutes) * time.Minute
		sc.TaskConfigs[domain.TaskIDLeadCollection] = tc
	}
	return sc
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if orchestrator == nil || schedulerStore == nil {
		return errors.New("scheduler not configured")
	}

	scheduler := services.NewScheduler(scheduleConfig(configStore), schedulerStore, orchestrator, leadStore, runStore)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if flagScheduleEvery > 0 {
		cmd.Printf("Collecting every %s. Press Ctrl+C to stop.\n", flagScheduleEvery)
		handle := scheduler.SchedulePeriodic(ctx, flagScheduleEvery)
		<-sigCh
		cmd.Println("Stopping...")
		handle.Stop()
		handle.Wait()
		return nil
	}

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	errCh := make(chan error, 1)
	go func() { errCh <- scheduler.Start(ctx) }()

	select {
	case <-sigCh:
		cmd.Println("Stopping...")
		return scheduler.Stop()
	case err := <-errCh:
		return err
	}
}
