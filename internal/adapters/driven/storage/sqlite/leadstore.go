package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
	"github.com/leadscout-labs/leadscout-cli/internal/core/ports/driven"
)

// leadStore implements driven.LeadStore.
type leadStore struct {
	store *Store
}

var _ driven.LeadStore = (*leadStore)(nil)

// SaveLeads stores a batch of leads, upserting on lead ID.
func (s *leadStore) SaveLeads(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (id, company, contact, email, phone, region, source, score, registered_at, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company = excluded.company,
			contact = excluded.contact,
			email = excluded.email,
			phone = excluded.phone,
			region = excluded.region,
			source = excluded.source,
			score = excluded.score,
			registered_at = excluded.registered_at,
			collected_at = excluded.collected_at
	`)
	if err != nil {
		return fmt.Errorf("preparing lead insert: %w", err)
	}
	defer stmt.Close()

	for _, lead := range leads {
		collectedAt := lead.CollectedAt
		if collectedAt.IsZero() {
			collectedAt = time.Now().UTC()
		}
		_, err := stmt.ExecContext(ctx,
			lead.ID, lead.Company,
			nullString(lead.Contact), nullString(lead.Email), nullString(lead.Phone),
			nullString(lead.Region), lead.Source, lead.Score,
			formatNullableTime(lead.RegisteredAt), collectedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("saving lead %s: %w", lead.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing leads: %w", err)
	}
	return nil
}

// ListLeads returns leads for a region, or all leads when region is
// empty, most recently collected first.
func (s *leadStore) ListLeads(ctx context.Context, region string, limit int) ([]domain.Lead, error) {
	query := `
		SELECT id, company, contact, email, phone, region, source, score, registered_at, collected_at
		FROM leads
	`
	args := []interface{}{}
	if region != "" {
		query += " WHERE region = ?"
		args = append(args, region)
	}
	query += " ORDER BY collected_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead //nolint:prealloc // size unknown from query
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leads: %w", err)
	}
	return leads, nil
}

// CountLeads returns the number of stored leads.
func (s *leadStore) CountLeads(ctx context.Context) (int, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM leads")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting leads: %w", err)
	}
	return count, nil
}

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun records the outcome of one collector invocation.
func (s *runStore) SaveRun(ctx context.Context, result domain.CollectionResult) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO collection_runs (run_id, agent_id, success, records_collected, duration_ms, errors, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO NOTHING
	`, result.RunID, result.AgentID, boolToInt(result.Success),
		result.RecordsCollected, result.Duration.Milliseconds(),
		nullString(strings.Join(result.Errors, "\n")),
		result.StartedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving collection run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs for a collector, or all collectors when
// agentID is empty, most recent first.
func (s *runStore) ListRuns(ctx context.Context, agentID string, limit int) ([]domain.CollectionResult, error) {
	query := `
		SELECT run_id, agent_id, success, records_collected, duration_ms, errors, started_at
		FROM collection_runs
	`
	args := []interface{}{}
	if agentID != "" {
		query += " WHERE agent_id = ?"
		args = append(args, agentID)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying collection runs: %w", err)
	}
	defer rows.Close()

	var results []domain.CollectionResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		result, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collection runs: %w", err)
	}
	return results, nil
}

// scanLead scans a lead from *sql.Rows.
func scanLead(rows *sql.Rows) (*domain.Lead, error) {
	var lead domain.Lead
	var contact, email, phone, region, registeredAt sql.NullString
	var collectedAt string

	if err := rows.Scan(&lead.ID, &lead.Company, &contact, &email, &phone,
		&region, &lead.Source, &lead.Score, &registeredAt, &collectedAt); err != nil {
		return nil, fmt.Errorf("scanning lead: %w", err)
	}

	lead.Contact = contact.String
	lead.Email = email.String
	lead.Phone = phone.String
	lead.Region = region.String
	lead.RegisteredAt = parseNullableTime(registeredAt)
	if t, err := time.Parse(time.RFC3339, collectedAt); err == nil {
		lead.CollectedAt = t
	}
	return &lead, nil
}

// scanRun scans a collection run from *sql.Rows.
func scanRun(rows *sql.Rows) (*domain.CollectionResult, error) {
	var result domain.CollectionResult
	var success int
	var durationMs int64
	var errs sql.NullString
	var startedAt string

	if err := rows.Scan(&result.RunID, &result.AgentID, &success,
		&result.RecordsCollected, &durationMs, &errs, &startedAt); err != nil {
		return nil, fmt.Errorf("scanning collection run: %w", err)
	}

	result.Success = success == 1
	result.Duration = time.Duration(durationMs) * time.Millisecond
	if errs.Valid && errs.String != "" {
		result.Errors = strings.Split(errs.String, "\n")
	}
	if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
		result.StartedAt = t
	}
	return &result, nil
}
