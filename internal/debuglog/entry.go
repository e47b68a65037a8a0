// Package debuglog records a rolling trail of selection decisions for
// operational debugging: an in-memory ring for quick inspection, a Sink
// interface for durable storage, and a Hub for live streaming.
package debuglog

import (
	"crypto/rand"
	"time"

	"github.com/exafyltd/vitana-context/internal/selection"
	"github.com/oklog/ulid/v2"
)

// Entry is one recorded selection. IDs are ULIDs so durable sinks sort
// entries by creation time without a secondary index.
type Entry struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`

	TurnID   string `json:"turn_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`

	IncludedIDs []string                           `json:"included_ids"`
	Metrics     selection.Metrics                  `json:"metrics"`
	Exclusions  map[selection.ExclusionReason]int  `json:"exclusions,omitempty"`
	Excluded    []selection.Exclusion              `json:"excluded,omitempty"`
}

// NewEntry summarizes a finished selection into a log entry.
func NewEntry(req selection.Request, res *selection.Result) Entry {
	ids := make([]string, len(res.Included))
	for i, it := range res.Included {
		ids[i] = it.Candidate.ID
	}
	return Entry{
		ID:          ulid.MustNew(ulid.Timestamp(res.SelectedAt), rand.Reader).String(),
		RecordedAt:  res.SelectedAt,
		TurnID:      req.TurnID,
		UserID:      req.UserID,
		TenantID:    req.TenantID,
		IncludedIDs: ids,
		Metrics:     res.Metrics,
		Exclusions:  res.Metrics.Exclusions,
		Excluded:    res.Excluded,
	}
}

// Sink receives entries for durable storage. Implementations must be
// safe for concurrent use.
type Sink interface {
	Append(entry Entry) error
}
