package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/exafyltd/vitana-context/internal/debuglog"
	"github.com/exafyltd/vitana-context/internal/selection"
)

// entryStore implements debuglog.Sink backed by SQLite, plus the query
// and retention operations the gateway and scheduler need.
type entryStore struct {
	db *sql.DB
}

// Append implements debuglog.Sink.
func (s *entryStore) Append(entry debuglog.Entry) error {
	includedJSON, err := json.Marshal(entry.IncludedIDs)
	if err != nil {
		return fmt.Errorf("sqlite: marshal included ids: %w", err)
	}
	metricsJSON, err := json.Marshal(entry.Metrics)
	if err != nil {
		return fmt.Errorf("sqlite: marshal metrics: %w", err)
	}
	excludedJSON, err := json.Marshal(entry.Excluded)
	if err != nil {
		return fmt.Errorf("sqlite: marshal exclusions: %w", err)
	}

	_, err = s.db.ExecContext(context.TODO(), `
		INSERT OR REPLACE INTO entries (id, recorded_at, turn_id, user_id, tenant_id, included, metrics, excluded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RecordedAt.UTC().Format(time.RFC3339Nano),
		entry.TurnID, entry.UserID, entry.TenantID,
		string(includedJSON), string(metricsJSON), string(excludedJSON),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *entryStore) Recent(ctx context.Context, limit int) ([]debuglog.Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, turn_id, user_id, tenant_id, included, metrics, excluded
		FROM entries
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEntries(rows)
}

// Prune deletes entries recorded before the cutoff and returns how many
// were removed.
func (s *entryStore) Prune(olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(context.TODO(),
		"DELETE FROM entries WHERE recorded_at < ?",
		olderThan.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune entries: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return n, nil
}

// Len returns the total number of stored entries.
func (s *entryStore) Len() (int, error) {
	var count int
	if err := s.db.QueryRowContext(context.TODO(), "SELECT COUNT(*) FROM entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count entries: %w", err)
	}
	return count, nil
}

func scanEntries(rows *sql.Rows) ([]debuglog.Entry, error) {
	var entries []debuglog.Entry
	for rows.Next() {
		var (
			entry        debuglog.Entry
			recordedAt   string
			includedJSON string
			metricsJSON  string
			excludedJSON string
		)

		if err := rows.Scan(&entry.ID, &recordedAt, &entry.TurnID, &entry.UserID, &entry.TenantID,
			&includedJSON, &metricsJSON, &excludedJSON); err != nil {
			return nil, fmt.Errorf("sqlite: scan entry: %w", err)
		}

		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse recorded_at %q: %w", recordedAt, err)
		}
		entry.RecordedAt = t

		if err := json.Unmarshal([]byte(includedJSON), &entry.IncludedIDs); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshal included ids: %w", err)
		}
		if err := json.Unmarshal([]byte(metricsJSON), &entry.Metrics); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshal metrics: %w", err)
		}
		if excludedJSON != "" && excludedJSON != "[]" && excludedJSON != "null" {
			if err := json.Unmarshal([]byte(excludedJSON), &entry.Excluded); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal exclusions: %w", err)
			}
		}
		entry.Exclusions = entry.Metrics.Exclusions

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan entry rows: %w", err)
	}

	return entries, nil
}

// countByReason aggregates stored exclusion histograms across entries.
// Used by tests and ad-hoc inspection.
func countByReason(entries []debuglog.Entry) map[selection.ExclusionReason]int {
	out := make(map[selection.ExclusionReason]int)
	for _, e := range entries {
		for reason, n := range e.Exclusions {
			out[reason] += n
		}
	}
	return out
}
