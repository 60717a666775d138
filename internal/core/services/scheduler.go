package services

import (
	"context"
	"sync"
	"time"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driving"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

// historyKeep is how many task results are retained per task.
const historyKeep = 100

// Scheduler runs the recurring collection and analysis tasks. Task state
// lives in the SchedulerStore so intervals survive restarts.
type Scheduler struct {
	config       domain.SchedulerConfig
	store        driven.SchedulerStore
	orchestrator driving.Orchestrator
	leadStore    driven.LeadStore
	runStore     driven.RunStore

	// tick is the due-task poll interval, overridable in tests.
	tick time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. leadStore and runStore are optional;
// when nil, collected leads and run records are not persisted.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	orchestrator driving.Orchestrator,
	leadStore driven.LeadStore,
	runStore driven.RunStore,
) *Scheduler {
	return &Scheduler{
		config:       config,
		store:        store,
		orchestrator: orchestrator,
		leadStore:    leadStore,
		runStore:     runStore,
		tick:         time.Minute,
	}
}

// Start begins the scheduler loop and blocks until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Error("Scheduler: failed to initialise tasks: %v", err)
	}

	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// Stop shuts the scheduler down. Tasks already running are allowed to
// finish; no new task starts after Stop returns.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks ensures every configured task exists in the store.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	if cfg := s.config.GetTaskConfig(domain.TaskIDLeadCollection); cfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDLeadCollection, "Lead Collection", cfg); err != nil {
			return err
		}
	}
	if cfg := s.config.GetTaskConfig(domain.TaskIDSourceAnalysis); cfg.Enabled {
		if err := s.ensureTask(ctx, domain.TaskIDSourceAnalysis, "Source Analysis", cfg); err != nil {
			return err
		}
	}
	return nil
}

// ensureTask creates or updates a task in the store.
func (s *Scheduler) ensureTask(ctx context.Context, id, name string, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     name,
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  time.Now().Add(cfg.Interval),
		}
	} else {
		if task.Interval != cfg.Interval {
			task.Interval = cfg.Interval
			task.NextRun = time.Now().Add(cfg.Interval)
		}
		task.Enabled = cfg.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error("Scheduler: failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task in the background and records its
// outcome.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDLeadCollection:
			result.ItemsProcessed, err = s.runLeadCollection(ctx)
		case domain.TaskIDSourceAnalysis:
			result.ItemsProcessed, err = s.runSourceAnalysis(ctx)
		default:
			logger.Warn("Scheduler: unknown task ID: %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Error("Scheduler: failed to save task %s: %v", task.ID, saveErr)
		}
		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Error("Scheduler: failed to record result for %s: %v", task.ID, recordErr)
		}
		if pruneErr := s.store.PruneHistory(ctx, historyKeep); pruneErr != nil {
			logger.Error("Scheduler: failed to prune history: %v", pruneErr)
		}
	}()
}

// runLeadCollection collects from every registered collector and
// persists what came back. Returns how many leads were collected.
func (s *Scheduler) runLeadCollection(ctx context.Context) (int, error) {
	results := s.orchestrator.CollectAll(ctx, driving.CollectOptions{})

	collected := 0
	var firstErr error
	for _, result := range results {
		collected += result.RecordsCollected
		if s.runStore != nil {
			if err := s.runStore.SaveRun(ctx, result); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		if s.leadStore != nil && len(result.Leads) > 0 {
			if err := s.leadStore.SaveLeads(ctx, result.Leads); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return collected, firstErr
}

// runSourceAnalysis scans every collector read-only. Returns how many
// reports came back.
func (s *Scheduler) runSourceAnalysis(ctx context.Context) (int, error) {
	reports := s.orchestrator.AnalyzeAll(ctx)
	for _, report := range reports {
		for _, finding := range report.Findings {
			logger.Info("Analysis %s: %s", report.AgentID, finding)
		}
	}
	return len(reports), nil
}

// PeriodicHandle controls one periodic collection schedule. Stop
// prevents future cycles; a cycle already running completes normally.
type PeriodicHandle struct {
	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// Stop cancels future cycles. Safe to call more than once. Stop does not
// wait for an in-flight cycle; Wait does.
func (h *PeriodicHandle) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Wait blocks until the schedule's goroutine has exited. Call Stop (or
// cancel the context) first.
func (h *PeriodicHandle) Wait() {
	h.wg.Wait()
}

// SchedulePeriodic runs a full collection cycle every interval until the
// handle is stopped or the context is cancelled. A cycle that is still
// running when the next tick fires causes that tick to be skipped.
func (s *Scheduler) SchedulePeriodic(ctx context.Context, interval time.Duration) *PeriodicHandle {
	handle := &PeriodicHandle{stop: make(chan struct{})}

	handle.wg.Add(1)
	go func() {
		defer handle.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var inFlight sync.WaitGroup
		defer inFlight.Wait()

		running := false
		var runningMu sync.Mutex

		for {
			select {
			case <-ctx.Done():
				return
			case <-handle.stop:
				return
			case <-ticker.C:
				runningMu.Lock()
				if running {
					runningMu.Unlock()
					logger.Debug("Periodic collection still running, skipping tick")
					continue
				}
				running = true
				runningMu.Unlock()

				inFlight.Add(1)
				go func() {
					defer inFlight.Done()
					if _, err := s.runLeadCollection(ctx); err != nil {
						logger.Warn("Periodic collection: %v", err)
					}
					runningMu.Lock()
					running = false
					runningMu.Unlock()
				}()
			}
		}
	}()

	return handle
}
