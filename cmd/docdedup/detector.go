package main

import (
	"context"
	"fmt"

	"github.com/banks1923/docdedup/internal/dedup"
)

// corpusDetector returns the detector for the configured threshold with the
// stored corpus indexed into it.
func corpusDetector(ctx context.Context) (*dedup.Detector, error) {
	detector, err := registry.Get(cfg.Threshold)
	if err != nil {
		return nil, err
	}

	docs, err := store.ListDocuments(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	for _, doc := range docs {
		detector.AddDocument(doc.ID, doc.Content, doc.Metadata)
	}
	return detector, nil
}
