// Package types holds the record types shared between the document store,
// the CLI, and report rendering.
package types

import (
	"fmt"
	"time"
)

// Document is one stored corpus document.
type Document struct {
	// ID is the document identifier, unique within the store.
	ID string `json:"id"`

	// Content is the extracted plain text. Cleaning (HTML stripping, OCR,
	// encoding repair) happens before ingestion; the store and detector both
	// take content as-is.
	Content string `json:"content"`

	// Source records where the document came from (file path, mailbox, ...).
	Source string `json:"source,omitempty"`

	// Metadata is opaque key-value context carried through to match results.
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that a document can be stored.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	return nil
}

// Run is one persisted batch deduplication report.
type Run struct {
	// ID is the run identifier (a UUID assigned at save time when empty).
	ID string `json:"id"`

	Threshold      float64   `json:"threshold"`
	Total          int       `json:"total"`
	Unique         int       `json:"unique"`
	Duplicates     int       `json:"duplicates"`
	NearDuplicates int       `json:"near_duplicates"`
	CreatedAt      time.Time `json:"created_at"`

	// Groups flattens the run's duplicate groups to (leader, member) rows.
	Groups []GroupMember `json:"groups,omitempty"`
}

// Validate checks that a run report is internally consistent.
func (r *Run) Validate() error {
	if r.Threshold <= 0.0 || r.Threshold > 1.0 {
		return fmt.Errorf("threshold must be in (0.0, 1.0] (got %.2f)", r.Threshold)
	}
	if r.Total < 0 {
		return fmt.Errorf("total cannot be negative (got %d)", r.Total)
	}
	if r.Unique+r.Duplicates != r.Total {
		return fmt.Errorf("unique (%d) + duplicates (%d) does not equal total (%d)",
			r.Unique, r.Duplicates, r.Total)
	}
	if len(r.Groups) > 0 && r.Duplicates != len(r.Groups) {
		return fmt.Errorf("duplicates (%d) does not match group member rows (%d)",
			r.Duplicates, len(r.Groups))
	}
	return nil
}

// GroupMember is one non-leader member of a persisted duplicate group.
type GroupMember struct {
	LeaderID   string  `json:"leader_id"`
	MemberID   string  `json:"member_id"`
	Similarity float64 `json:"similarity"`
}
