package entrypoints

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

func feedEntryPoint(endpoint string) domain.EntryPoint {
	return domain.EntryPoint{
		ID:                "broker-filefeed",
		Name:              "List Broker File Feed",
		Kind:              domain.EntryPointFileFeed,
		Endpoint:          endpoint,
		RequestsPerMinute: 240,
	}
}

func writeFeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func TestFileFeedFetch(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "batch1.json",
		`[{"company":"Acme LLC","email":"hi@acme.example.com","region":"CA","score":70},
		  {"company":"Globex Inc","region":"TX"}]`)
	writeFeedFile(t, dir, "batch2.json",
		`[{"company":"Initech Corp","score":55},{"company":""}]`)
	writeFeedFile(t, dir, "notes.txt", "not a feed")

	a := NewFileFeedAdapter(dir)
	leads, err := a.Fetch(context.Background(), feedEntryPoint(dir), driven.CollectParams{})
	require.NoError(t, err)

	require.Len(t, leads, 3, "empty company rows and non-json files are skipped")
	assert.Equal(t, "Acme LLC", leads[0].Company)
	assert.Equal(t, "broker-filefeed", leads[0].Source)
	assert.NotEmpty(t, leads[0].ID)
}

func TestFileFeedFetch_MaxRecords(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "batch.json",
		`[{"company":"A"},{"company":"B"},{"company":"C"}]`)

	a := NewFileFeedAdapter(dir)
	leads, err := a.Fetch(context.Background(), feedEntryPoint(dir), driven.CollectParams{MaxRecords: 2})
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestFileFeedFetch_MalformedFileIsPermanent(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "broken.json", `{"company": "not an array"`)

	a := NewFileFeedAdapter(dir)
	_, err := a.Fetch(context.Background(), feedEntryPoint(dir), driven.CollectParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermanent)
}

func TestFileFeedFetch_MissingDirIsPermanent(t *testing.T) {
	a := NewFileFeedAdapter(t.TempDir())
	_, err := a.Fetch(context.Background(), feedEntryPoint("does/not/exist"), driven.CollectParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermanent)
}

func TestFileFeedSearch(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "batch.json",
		`[{"company":"Acme LLC"},{"company":"Globex Inc"},{"company":"Acme West LLC"}]`)

	a := NewFileFeedAdapter(dir)
	leads, err := a.Search(context.Background(), feedEntryPoint(dir), driven.SearchQuery{Term: "acme", Limit: 1})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Acme LLC", leads[0].Company)
}

func TestFileFeedProbe(t *testing.T) {
	dir := t.TempDir()
	writeFeedFile(t, dir, "a.json", `[]`)
	writeFeedFile(t, dir, "b.json", `[]`)

	a := NewFileFeedAdapter(dir)
	info, err := a.Probe(context.Background(), feedEntryPoint(dir))
	require.NoError(t, err)
	assert.True(t, info.Reachable)
	assert.Equal(t, 2, info.PendingRecords)

	info, err = a.Probe(context.Background(), feedEntryPoint("does/not/exist"))
	require.NoError(t, err)
	assert.False(t, info.Reachable)
}

func TestFileFeedWatch(t *testing.T) {
	dir := t.TempDir()
	a := NewFileFeedAdapter(dir)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := a.Watch(ctx, feedEntryPoint(dir))
	require.NoError(t, err)

	writeFeedFile(t, dir, "dropped.json", `[{"company":"Hooli Inc"}]`)

	select {
	case batch := <-ch:
		require.Len(t, batch, 1)
		assert.Equal(t, "Hooli Inc", batch[0].Company)
	case <-ctx.Done():
		t.Fatal("timed out waiting for watched feed batch")
	}

	cancel()
	for range ch {
		// drain until the watcher goroutine closes the channel
	}
}
