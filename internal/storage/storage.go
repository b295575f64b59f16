// Package storage defines the document-store interface backing the CLI and
// provides construction of the default SQLite implementation.
//
// The detection engine itself is purely in-memory and persistence-free; the
// store exists for its callers: it holds the ingested corpus between CLI
// invocations and records the reports of batch deduplication runs.
package storage

import (
	"context"

	"github.com/banks1923/docdedup/internal/storage/sqlite"
	"github.com/banks1923/docdedup/internal/types"
)

// Storage defines the interface for document store backends.
type Storage interface {
	// Documents
	SaveDocument(ctx context.Context, doc *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListDocuments(ctx context.Context, limit int) ([]*types.Document, error)
	CountDocuments(ctx context.Context) (int, error)

	// Deduplication runs
	SaveRun(ctx context.Context, run *types.Run) error
	GetRun(ctx context.Context, id string) (*types.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*types.Run, error)

	Close() error
}

// New opens the default SQLite-backed store at path, creating the database
// and schema as needed.
func New(path string) (Storage, error) {
	return sqlite.New(path)
}
