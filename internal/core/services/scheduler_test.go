package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// --- Mock implementations for scheduler testing ---

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu      sync.RWMutex
	tasks   map[string]*domain.ScheduledTask
	results map[string][]domain.TaskResult
	getErr  error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) ListTasks(_ context.Context) ([]domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := make([]domain.ScheduledTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		tasks = append(tasks, *t)
	}
	return tasks, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task == nil {
		return domain.ErrInvalidInput
	}
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) DeleteTask(_ context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, taskID)
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if result == nil {
		return domain.ErrInvalidInput
	}
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if len(results) > limit {
		results = results[len(results)-limit:]
	}
	out := make([]domain.TaskResult, len(results))
	copy(out, results)
	return out, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, results := range m.results {
		if len(results) > keep {
			m.results[id] = results[len(results)-keep:]
		}
	}
	return nil
}

func (m *mockSchedulerStore) task(t *testing.T, id string) domain.ScheduledTask {
	t.Helper()
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	require.True(t, ok, "task %s should exist", id)
	return *task
}

func (m *mockSchedulerStore) resultCount(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results[id])
}

// mockLeadStore implements driven.LeadStore for testing.
type mockLeadStore struct {
	mu    sync.Mutex
	leads []domain.Lead
}

func (m *mockLeadStore) SaveLeads(_ context.Context, leads []domain.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, leads...)
	return nil
}

func (m *mockLeadStore) ListLeads(_ context.Context, _ string, _ int) ([]domain.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Lead, len(m.leads))
	copy(out, m.leads)
	return out, nil
}

func (m *mockLeadStore) CountLeads(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leads), nil
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	mu   sync.Mutex
	runs []domain.CollectionResult
}

func (m *mockRunStore) SaveRun(_ context.Context, result domain.CollectionResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, result)
	return nil
}

func (m *mockRunStore) ListRuns(_ context.Context, _ string, _ int) ([]domain.CollectionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CollectionResult, len(m.runs))
	copy(out, m.runs)
	return out, nil
}

func (m *mockRunStore) runCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs)
}

func collectionOnlyConfig(interval time.Duration) domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDLeadCollection: {Enabled: true, Interval: interval},
		},
	}
}

func TestSchedulerEnsureTask(t *testing.T) {
	store := newMockSchedulerStore()
	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, o, nil, nil)

	require.NoError(t, s.initialiseTasks(context.Background()))

	collection := store.task(t, domain.TaskIDLeadCollection)
	assert.True(t, collection.Enabled)
	assert.Equal(t, 6*time.Hour, collection.Interval)
	assert.False(t, collection.NextRun.IsZero())

	analysis := store.task(t, domain.TaskIDSourceAnalysis)
	assert.Equal(t, 24*time.Hour, analysis.Interval)
}

func TestSchedulerEnsureTask_IntervalChangeReschedules(t *testing.T) {
	store := newMockSchedulerStore()
	existing := &domain.ScheduledTask{
		ID:       domain.TaskIDLeadCollection,
		Name:     "Lead Collection",
		Interval: time.Hour,
		NextRun:  time.Now().Add(time.Hour),
		Enabled:  true,
	}
	require.NoError(t, store.SaveTask(context.Background(), existing))

	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(collectionOnlyConfig(10*time.Hour), store, o, nil, nil)
	require.NoError(t, s.initialiseTasks(context.Background()))

	task := store.task(t, domain.TaskIDLeadCollection)
	assert.Equal(t, 10*time.Hour, task.Interval)
	assert.True(t, task.NextRun.After(time.Now().Add(9*time.Hour)))
}

func TestSchedulerRunsDueTask(t *testing.T) {
	store := newMockSchedulerStore()
	require.NoError(t, store.SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       domain.TaskIDLeadCollection,
		Name:     "Lead Collection",
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Minute),
		Enabled:  true,
	}))

	leadStore := &mockLeadStore{}
	runStore := &mockRunStore{}
	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA", "TX"))
	s := NewScheduler(collectionOnlyConfig(time.Hour), store, o, leadStore, runStore)

	s.checkAndRunDueTasks(context.Background())
	s.wg.Wait()

	task := store.task(t, domain.TaskIDLeadCollection)
	assert.False(t, task.LastRun.IsZero())
	assert.False(t, task.LastSuccess.IsZero())
	assert.True(t, task.NextRun.After(time.Now().Add(50*time.Minute)),
		"next run is rescheduled one interval out")
	assert.Equal(t, 1, store.resultCount(domain.TaskIDLeadCollection))

	count, err := leadStore.CountLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one stub lead per collector is persisted")
	assert.Equal(t, 2, runStore.runCount())
}

func TestSchedulerSkipsFutureAndDisabledTasks(t *testing.T) {
	store := newMockSchedulerStore()
	require.NoError(t, store.SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       domain.TaskIDLeadCollection,
		Interval: time.Hour,
		NextRun:  time.Now().Add(time.Hour),
		Enabled:  true,
	}))
	require.NoError(t, store.SaveTask(context.Background(), &domain.ScheduledTask{
		ID:       domain.TaskIDSourceAnalysis,
		Interval: time.Hour,
		NextRun:  time.Now().Add(-time.Hour),
		Enabled:  false,
	}))

	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, o, nil, nil)

	s.checkAndRunDueTasks(context.Background())
	s.wg.Wait()

	assert.Equal(t, 0, store.resultCount(domain.TaskIDLeadCollection))
	assert.Equal(t, 0, store.resultCount(domain.TaskIDSourceAnalysis))
}

func TestSchedulerStartStop(t *testing.T) {
	store := newMockSchedulerStore()
	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, o, nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	// Give the loop a moment to initialise tasks.
	require.Eventually(t, func() bool {
		task, err := store.GetTask(context.Background(), domain.TaskIDLeadCollection)
		return err == nil && task != nil
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}

	// Stopping twice is harmless.
	assert.NoError(t, s.Stop())
}

func TestSchedulePeriodic(t *testing.T) {
	runStore := &mockRunStore{}
	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(domain.DefaultSchedulerConfig(), newMockSchedulerStore(), o, nil, runStore)

	handle := s.SchedulePeriodic(context.Background(), 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return runStore.runCount() >= 2
	}, 2*time.Second, 5*time.Millisecond, "cycles should fire on the interval")

	handle.Stop()
	handle.Wait()

	settled := runStore.runCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, runStore.runCount(), "no cycles start after Stop")

	// Stop is idempotent.
	handle.Stop()
}

func TestSchedulePeriodic_ContextCancel(t *testing.T) {
	o := NewOrchestrator(2, fleet(domain.FamilyStatePages, nil, "CA"))
	s := NewScheduler(domain.DefaultSchedulerConfig(), newMockSchedulerStore(), o, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	handle := s.SchedulePeriodic(ctx, 10*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() { handle.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic schedule did not exit on context cancel")
	}
}
