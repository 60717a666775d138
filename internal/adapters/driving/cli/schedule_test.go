package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/adapters/driven/config/file"
	"github.com/leadscout-labs/leadscout-cli/internal/adapters/driven/storage/memory"
	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

func TestScheduleConfigOverridesCollectionInterval(t *testing.T) {
	cfg := memory.NewConfigStore()
	require.NoError(t, cfg.Set(file.KeyScheduleInterval, 15))

	sc := scheduleConfig(cfg)
	assert.Equal(t, 15*time.Minute, sc.TaskConfigs[domain.TaskIDLeadCollection].Interval)

	// The analysis task keeps its default interval.
	def := domain.DefaultSchedulerConfig()
	assert.Equal(t, def.TaskConfigs[domain.TaskIDSourceAnalysis].Interval,
		sc.TaskConfigs[domain.TaskIDSourceAnalysis].Interval)
}

func TestScheduleConfigDefaults(t *testing.T) {
	def := domain.DefaultSchedulerConfig()

	sc := scheduleConfig(nil)
	assert.Equal(t, def.TaskConfigs[domain.TaskIDLeadCollection].Interval,
		sc.TaskConfigs[domain.TaskIDLeadCollection].Interval)

	// A zero or unset interval leaves the defaults alone.
	sc = scheduleConfig(memory.NewConfigStore())
	assert.Equal(t, def.TaskConfigs[domain.TaskIDLeadCollection].Interval,
		sc.TaskConfigs[domain.TaskIDLeadCollection].Interval)
}
