package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitRequestsPerMinute(t *testing.T) {
	tests := []struct {
		name  string
		limit RateLimit
		want  float64
	}{
		{"per minute", RateLimit{PerMinute: 30}, 30},
		{"per second", RateLimit{PerSecond: 2}, 120},
		{"per hour", RateLimit{PerHour: 600}, 10},
		{"minute wins over second", RateLimit{PerMinute: 30, PerSecond: 5}, 30},
		{"unset", RateLimit{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.limit.RequestsPerMinute(), 0.001)
		})
	}
}

func TestCollectorConfigValidate(t *testing.T) {
	valid := CollectorConfig{
		ID:         "CA",
		Name:       "California",
		Endpoint:   "https://example.com",
		RateLimit:  RateLimit{PerMinute: 30},
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CollectorConfig)
	}{
		{"missing ID", func(c *CollectorConfig) { c.ID = "" }},
		{"zero rate limit", func(c *CollectorConfig) { c.RateLimit = RateLimit{} }},
		{"zero timeout", func(c *CollectorConfig) { c.Timeout = 0 }},
		{"negative retries", func(c *CollectorConfig) { c.MaxRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestCatalogsReturnFreshCopies(t *testing.T) {
	regions := Regions()
	regions[0].Code = "mutated"
	assert.NotEqual(t, "mutated", Regions()[0].Code)

	eps := EntryPoints()
	eps[0].ID = "mutated"
	assert.NotEqual(t, "mutated", EntryPoints()[0].ID)
}

func TestCatalogIdentitiesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Regions() {
		assert.False(t, seen[r.Code], "duplicate region %s", r.Code)
		seen[r.Code] = true
	}
	for _, ep := range EntryPoints() {
		assert.False(t, seen[ep.ID], "duplicate entry point %s", ep.ID)
		seen[ep.ID] = true
	}
}
