// Package sqlite implements the document store on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/banks1923/docdedup/internal/types"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend at path.
func New(path string) (*SQLiteStorage, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveDocument inserts or replaces a document by id.
func (s *SQLiteStorage) SaveDocument(ctx context.Context, doc *types.Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, content, source, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			metadata = excluded.metadata
	`, doc.ID, doc.Content, doc.Source, string(metadata), doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by id. Returns (nil, nil) when absent.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	var metadata string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, source, metadata, created_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Content, &doc.Source, &metadata, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for %s: %w", id, err)
	}
	return &doc, nil
}

// ListDocuments returns documents in ingestion order (created_at, then id so
// ordering stays stable when timestamps collide). A non-positive limit
// returns everything.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, limit int) ([]*types.Document, error) {
	limitSQL := ""
	if limit > 0 {
		limitSQL = fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, metadata, created_at
		FROM documents
		ORDER BY created_at ASC, id ASC
	`+limitSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []*types.Document
	for rows.Next() {
		var doc types.Document
		var metadata string

		if err := rows.Scan(&doc.ID, &doc.Content, &doc.Source, &metadata, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", doc.ID, err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CountDocuments returns the number of stored documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// SaveRun persists a batch deduplication report and its group rows in one
// transaction. Assigns a UUID when the run has no id.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *types.Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dedup_runs (id, threshold, total, unique_count, duplicate_count, near_duplicate_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Threshold, run.Total, run.Unique, run.Duplicates, run.NearDuplicates, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, g := range run.Groups {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO duplicate_groups (run_id, leader_id, member_id, similarity)
			VALUES (?, ?, ?, ?)
		`, run.ID, g.LeaderID, g.MemberID, g.Similarity)
		if err != nil {
			return fmt.Errorf("failed to insert group member %s/%s: %w", g.LeaderID, g.MemberID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run report with its group rows. Returns (nil, nil) when
// absent.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*types.Run, error) {
	var run types.Run

	err := s.db.QueryRowContext(ctx, `
		SELECT id, threshold, total, unique_count, duplicate_count, near_duplicate_count, created_at
		FROM dedup_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Threshold, &run.Total, &run.Unique, &run.Duplicates, &run.NearDuplicates, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT leader_id, member_id, similarity
		FROM duplicate_groups
		WHERE run_id = ?
		ORDER BY leader_id ASC, similarity DESC, member_id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g types.GroupMember
		if err := rows.Scan(&g.LeaderID, &g.MemberID, &g.Similarity); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		run.Groups = append(run.Groups, g)
	}
	return &run, rows.Err()
}

// ListRuns returns run reports newest-first, without group rows. A
// non-positive limit returns everything.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*types.Run, error) {
	limitSQL := ""
	if limit > 0 {
		limitSQL = fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, threshold, total, unique_count, duplicate_count, near_duplicate_count, created_at
		FROM dedup_runs
		ORDER BY created_at DESC, id ASC
	`+limitSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		var run types.Run
		if err := rows.Scan(&run.ID, &run.Threshold, &run.Total, &run.Unique,
			&run.Duplicates, &run.NearDuplicates, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
