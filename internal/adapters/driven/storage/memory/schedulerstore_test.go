package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

func TestSchedulerStore_Tasks(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()

	task, err := store.GetTask(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, task)

	require.NoError(t, store.SaveTask(ctx, &domain.ScheduledTask{
		ID: domain.TaskIDLeadCollection, Name: "Lead Collection",
		Interval: 6 * time.Hour, Enabled: true,
	}))

	task, err = store.GetTask(ctx, domain.TaskIDLeadCollection)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, 6*time.Hour, task.Interval)

	// The returned task is a copy.
	task.Name = "mutated"
	again, err := store.GetTask(ctx, domain.TaskIDLeadCollection)
	require.NoError(t, err)
	assert.Equal(t, "Lead Collection", again.Name)

	require.NoError(t, store.DeleteTask(ctx, domain.TaskIDLeadCollection))
	tasks, err := store.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, store.SaveTask(ctx, nil), domain.ErrInvalidInput)
}

func TestSchedulerStore_History(t *testing.T) {
	store := NewSchedulerStore()
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 4; i++ {
		require.NoError(t, store.RecordResult(ctx, &domain.TaskResult{
			TaskID:         "t",
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			Success:        true,
			ItemsProcessed: i,
		}))
	}

	history, err := store.GetTaskHistory(ctx, "t", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 3, history[0].ItemsProcessed)

	require.NoError(t, store.PruneHistory(ctx, 1))
	history, err = store.GetTaskHistory(ctx, "t", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].ItemsProcessed)
}
