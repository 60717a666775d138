package entrypoints

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

// feedRecord is the JSON shape list brokers and webhook relays drop into
// a feed directory. One file holds an array of records.
type feedRecord struct {
	Company string `json:"company"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Region  string `json:"region,omitempty"`
	Score   int    `json:"score,omitempty"`
}

// FileFeedAdapter reads lead feed files from a drop directory. It serves
// both the filefeed and webhook entry-point kinds - a webhook relay just
// spools its payloads into the same layout.
type FileFeedAdapter struct {
	// BaseDir is resolved against each entry point's relative Endpoint.
	BaseDir string
}

// NewFileFeedAdapter builds an adapter rooted at baseDir.
func NewFileFeedAdapter(baseDir string) *FileFeedAdapter {
	return &FileFeedAdapter{BaseDir: baseDir}
}

// Fetch parses every .json feed file in the entry point's directory.
// A missing directory is a configuration problem and fails permanently;
// an unparseable file fails the run the same way so bad feeds surface
// instead of silently thinning.
func (a *FileFeedAdapter) Fetch(ctx context.Context, ep domain.EntryPoint, params driven.CollectParams) ([]domain.Lead, error) {
	dir := a.dir(ep)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: feed directory %s: %v", domain.ErrPermanent, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var leads []domain.Lead
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := a.parseFile(filepath.Join(dir, name), ep)
		if err != nil {
			return nil, err
		}
		leads = append(leads, batch...)

		if params.MaxRecords > 0 && len(leads) >= params.MaxRecords {
			return leads[:params.MaxRecords], nil
		}
	}
	return leads, nil
}

// Search filters the feed contents by the search term.
func (a *FileFeedAdapter) Search(ctx context.Context, ep domain.EntryPoint, query driven.SearchQuery) ([]domain.Lead, error) {
	all, err := a.Fetch(ctx, ep, driven.CollectParams{})
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query.Term)
	var matched []domain.Lead
	for _, lead := range all {
		if term == "" || strings.Contains(strings.ToLower(lead.Company), term) {
			matched = append(matched, lead)
			if query.Limit > 0 && len(matched) >= query.Limit {
				break
			}
		}
	}
	return matched, nil
}

// Probe counts pending feed files without parsing them.
func (a *FileFeedAdapter) Probe(_ context.Context, ep domain.EntryPoint) (SourceInfo, error) {
	entries, err := os.ReadDir(a.dir(ep))
	if err != nil {
		return SourceInfo{}, nil //nolint:nilerr // unreachable directory means "not reachable", not an error
	}

	pending := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			pending++
		}
	}
	return SourceInfo{Reachable: true, PendingRecords: pending}, nil
}

// Watch emits a batch of leads whenever a new feed file lands in the
// entry point's directory. The channel closes when ctx is cancelled or
// the watcher fails.
func (a *FileFeedAdapter) Watch(ctx context.Context, ep domain.EntryPoint) (<-chan []domain.Lead, error) {
	dir := a.dir(ep)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch feed: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch feed directory %s: %w", dir, err)
	}

	out := make(chan []domain.Lead)
	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}

				batch, err := a.parseFile(event.Name, ep)
				if err != nil {
					logger.Warn("feed %s: skipping %s: %v", ep.ID, event.Name, err)
					continue
				}
				if len(batch) == 0 {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- batch:
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("feed %s: watcher error: %v", ep.ID, err)
			}
		}
	}()

	return out, nil
}

func (a *FileFeedAdapter) dir(ep domain.EntryPoint) string {
	if filepath.IsAbs(ep.Endpoint) {
		return ep.Endpoint
	}
	return filepath.Join(a.BaseDir, ep.Endpoint)
}

func (a *FileFeedAdapter) parseFile(path string, ep domain.EntryPoint) ([]domain.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading feed file %s: %v", domain.ErrTransient, path, err)
	}

	var records []feedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: malformed feed file %s: %v", domain.ErrPermanent, path, err)
	}

	now := time.Now().UTC()
	leads := make([]domain.Lead, 0, len(records))
	for _, rec := range records {
		if rec.Company == "" {
			continue
		}
		leads = append(leads, domain.Lead{
			ID:          uuid.NewString(),
			Company:     rec.Company,
			Contact:     rec.Contact,
			Email:       rec.Email,
			Phone:       rec.Phone,
			Region:      rec.Region,
			Source:      ep.ID,
			Score:       rec.Score,
			CollectedAt: now,
		})
	}
	return leads, nil
}
