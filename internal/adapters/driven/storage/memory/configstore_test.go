package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreSetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("collection.max_concurrent", 5))
	require.NoError(t, store.Set("collection.feed_dir", "/var/feeds"))
	require.NoError(t, store.Set("schedule.enabled", true))
	require.NoError(t, store.Set("retry.transient_phrases", []string{"slow down", "try later"}))

	assert.Equal(t, 5, store.GetInt("collection.max_concurrent"))
	assert.Equal(t, "/var/feeds", store.GetString("collection.feed_dir"))
	assert.True(t, store.GetBool("schedule.enabled"))
	assert.Equal(t, []string{"slow down", "try later"}, store.GetStringSlice("retry.transient_phrases"))

	val, ok := store.Get("collection.feed_dir")
	require.True(t, ok)
	assert.Equal(t, "/var/feeds", val)
}

func TestConfigStoreMissingKeys(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

func TestConfigStoreNumericCoercion(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"as_int64":   int64(7),
		"as_float64": float64(3),
		"as_string":  "not a number",
	})

	assert.Equal(t, 7, store.GetInt("as_int64"))
	assert.Equal(t, 3, store.GetInt("as_float64"))
	assert.Zero(t, store.GetInt("as_string"))
}

func TestConfigStoreSliceCoercion(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"mixed": []any{"keep", 42, "also keep"},
	})

	assert.Equal(t, []string{"keep", "also keep"}, store.GetStringSlice("mixed"))
}

func TestConfigStoreSeedIsCopied(t *testing.T) {
	seed := map[string]any{"key": "original"}
	store := NewConfigStoreWith(seed)
	seed["key"] = "mutated"

	assert.Equal(t, "original", store.GetString("key"))
}

func TestConfigStoreSaveLoadNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "value"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())
	assert.Equal(t, "value", store.GetString("key"))
	assert.Equal(t, ":memory:", store.Path())
}
