package dedup

import (
	"fmt"
	"strings"
	"testing"
)

func newTestDetector(t *testing.T, threshold float64) *Detector {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Threshold = threshold
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func TestNewDetectorRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumPerm = 100 // not divisible by 16 bands
	if _, err := NewDetector(cfg); err == nil {
		t.Error("expected error for uneven banding")
	}
}

func TestAddDocumentIdempotent(t *testing.T) {
	d := newTestDetector(t, 0.8)

	d.AddDocument("doc-1", "The quick brown fox jumps over the lazy dog.", nil)
	d.AddDocument("doc-1", "The quick brown fox jumps over the lazy dog.", nil)

	if d.Len() != 1 {
		t.Errorf("Len() = %d after double add, want 1", d.Len())
	}

	matches, err := d.CheckDuplicate("The quick brown fox jumps over the lazy dog.")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("double add produced %d matches, want 1", len(matches))
	}
}

func TestCheckDuplicateExactMatch(t *testing.T) {
	d := newTestDetector(t, 0.8)
	text := "The quick brown fox jumps over the lazy dog."
	d.AddDocument("doc-1", text, map[string]string{"source": "inbox"})

	// Punctuation and case variants normalize to the same shingles.
	matches, err := d.CheckDuplicate("the quick brown fox jumps over the lazy dog")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.DocID != "doc-1" {
		t.Errorf("DocID = %s, want doc-1", m.DocID)
	}
	if !m.IsExact || !m.IsNearDuplicate {
		t.Errorf("exact match flags wrong: %+v", m)
	}
	if m.Similarity != 1.0 {
		t.Errorf("Similarity = %f, want 1.0", m.Similarity)
	}
	if m.Metadata["source"] != "inbox" {
		t.Errorf("metadata not carried through: %+v", m.Metadata)
	}
	if m.Preview != text {
		t.Errorf("Preview = %q", m.Preview)
	}
}

func TestCheckDuplicateOneWordChanged(t *testing.T) {
	// A single-word edit must surface through the LSH path at a loose
	// threshold: the estimate lands in [0.7, 0.99) and the pair shares at
	// least one band under the default seed. Pins the default hash family;
	// reseeding can silently break this.
	d := newTestDetector(t, 0.7)
	d.AddDocument("doc-a", "The quick brown fox jumps over the lazy dog.", nil)

	matches, err := d.CheckDuplicate("The fast brown fox jumps over the lazy dog.")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if m.DocID != "doc-a" {
		t.Errorf("DocID = %s, want doc-a", m.DocID)
	}
	if m.Similarity < 0.7 || m.Similarity >= 0.99 {
		t.Errorf("Similarity = %f, want in [0.7, 0.99)", m.Similarity)
	}
	if !m.IsNearDuplicate {
		t.Error("match not flagged near-duplicate")
	}
	if m.IsExact {
		t.Error("one-word change flagged as exact duplicate")
	}
}

func TestCheckDuplicateUnrelated(t *testing.T) {
	d := newTestDetector(t, 0.8)
	d.AddDocument("doc-1", "Python is great", nil)

	matches, err := d.CheckDuplicate("Java is terrible")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("unrelated text matched: %+v", matches)
	}
}

func TestCheckDuplicateThresholdPartition(t *testing.T) {
	d := newTestDetector(t, 0.8)
	docs := []string{
		"The quick brown fox jumps over the lazy dog.",
		"The fast brown fox jumps over the lazy dog.",
		"Completely different subject matter about tax law.",
		"the quick brown fox jumps over the lazy dog",
	}
	for i, text := range docs {
		d.AddDocument(fmt.Sprintf("doc-%d", i), text, nil)
	}

	matches, err := d.CheckDuplicate("The quick brown fox jumps over the lazy dog.")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("expected at least the identical documents to match")
	}
	for _, m := range matches {
		if m.Similarity < 0.8 {
			t.Errorf("match %s below threshold: %f", m.DocID, m.Similarity)
		}
		if !m.IsNearDuplicate {
			t.Errorf("match %s not flagged near-duplicate", m.DocID)
		}
	}
}

func TestCheckDuplicateDoesNotIndex(t *testing.T) {
	d := newTestDetector(t, 0.8)
	d.AddDocument("doc-1", "The quick brown fox jumps over the lazy dog.", nil)

	if _, err := d.CheckDuplicate("some candidate text that is long enough"); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 1 {
		t.Errorf("CheckDuplicate mutated the index: Len() = %d", d.Len())
	}
}

func TestSimilarityIdentity(t *testing.T) {
	d := newTestDetector(t, 0.8)
	text := "The quick brown fox jumps over the lazy dog."
	if sim := d.Similarity(text, text); sim <= 0.99 {
		t.Errorf("Similarity(text, text) = %f, want > 0.99", sim)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	d := newTestDetector(t, 0.8)
	a := "The quick brown fox jumps over the lazy dog."
	b := "The fast brown fox jumps over the lazy dog."
	if d.Similarity(a, b) != d.Similarity(b, a) {
		t.Error("Similarity is not symmetric")
	}
}

func TestSimilarityGraded(t *testing.T) {
	d := newTestDetector(t, 0.8)
	base := "The quick brown fox jumps over the lazy dog."
	near := "The fast brown fox jumps over the lazy dog."
	far := "Java is terrible"

	nearSim := d.Similarity(base, near)
	farSim := d.Similarity(base, far)
	if nearSim >= 0.99 {
		t.Errorf("one-word change scored as exact: %f", nearSim)
	}
	if nearSim <= farSim {
		t.Errorf("near (%f) should score above far (%f)", nearSim, farSim)
	}
	if farSim >= 0.5 {
		t.Errorf("unrelated texts scored %f, want < 0.5", farSim)
	}
}

func TestSimilarityDegenerateEmpty(t *testing.T) {
	// Empty and sub-shingle-width documents share the all-zero sentinel
	// signature and register as identical. Documented degenerate case.
	d := newTestDetector(t, 0.8)
	if sim := d.Similarity("", "ab"); sim != 1.0 {
		t.Errorf("empty documents should share the sentinel signature, got %f", sim)
	}
}

func TestFindAllDuplicatesIdenticalPair(t *testing.T) {
	d := newTestDetector(t, 0.8)
	text := "The quick brown fox jumps over the lazy dog."
	d.AddDocument("first", text, nil)
	d.AddDocument("second", text, nil)
	d.AddDocument("other", "Entirely unrelated discussion of maritime insurance claims.", nil)

	groups, err := d.FindAllDuplicates()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}

	members, ok := groups["first"]
	if !ok {
		t.Fatalf("leader should be the earliest-inserted document, got %+v", groups)
	}
	if len(members) != 1 || members[0] != "second" {
		t.Errorf("members = %v, want [second]", members)
	}
}

func TestFindAllDuplicatesDisjointGroups(t *testing.T) {
	d := newTestDetector(t, 0.8)
	a := "The quick brown fox jumps over the lazy dog."
	b := "Notice of hearing scheduled for the fifteenth of March."
	d.AddDocument("a1", a, nil)
	d.AddDocument("a2", a, nil)
	d.AddDocument("b1", b, nil)
	d.AddDocument("b2", b, nil)

	groups, err := d.FindAllDuplicates()
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}

	assigned := make(map[string]int)
	for leader, members := range groups {
		assigned[leader]++
		for _, m := range members {
			assigned[m]++
		}
	}
	for id, n := range assigned {
		if n != 1 {
			t.Errorf("document %s assigned to %d groups", id, n)
		}
	}
}

func TestBatchDeduplicateStats(t *testing.T) {
	// Five documents: two exact pairs and one unique.
	a := "The quick brown fox jumps over the lazy dog."
	b := "Notice of hearing scheduled for the fifteenth of March."
	docs := []BatchDocument{
		{ID: "a1", Content: a},
		{ID: "a2", Content: a},
		{ID: "b1", Content: b},
		{ID: "b2", Content: b},
		{ID: "c1", Content: "Entirely unrelated discussion of maritime insurance claims."},
	}

	d := newTestDetector(t, 0.8)
	result, err := d.BatchDeduplicate(docs)
	if err != nil {
		t.Fatal(err)
	}
	if err := result.Validate(); err != nil {
		t.Errorf("result failed validation: %v", err)
	}

	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if result.Unique != 3 {
		t.Errorf("Unique = %d, want 3", result.Unique)
	}
	if result.Duplicates != 2 {
		t.Errorf("Duplicates = %d, want 2", result.Duplicates)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(result.Groups))
	}

	for _, g := range result.Groups {
		if g.Size != 2 {
			t.Errorf("group %s size = %d, want 2", g.Leader, g.Size)
		}
		if g.AvgSimilarity <= 0.99 {
			t.Errorf("group %s avg = %f, want > 0.99", g.Leader, g.AvgSimilarity)
		}
		if !g.IsExact {
			t.Errorf("group %s should be exact", g.Leader)
		}
	}
	if result.NearDuplicates != 0 {
		t.Errorf("NearDuplicates = %d, want 0", result.NearDuplicates)
	}

	// Leaders come out in insertion order.
	if result.Groups[0].Leader != "a1" || result.Groups[1].Leader != "b1" {
		t.Errorf("leaders = %s, %s; want a1, b1",
			result.Groups[0].Leader, result.Groups[1].Leader)
	}
}

func TestBatchDeduplicateSynthesizesIDs(t *testing.T) {
	d := newTestDetector(t, 0.8)
	result, err := d.BatchDeduplicate([]BatchDocument{
		{Content: "The quick brown fox jumps over the lazy dog."},
		{Content: "Notice of hearing scheduled for the fifteenth of March."},
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Total != 2 || result.Unique != 2 {
		t.Errorf("stats = %+v, want 2 total, 2 unique", result)
	}
	for _, doc := range d.Documents() {
		if !strings.HasPrefix(doc.ID, "doc-") {
			t.Errorf("synthesized id %q missing doc- prefix", doc.ID)
		}
	}
}

func TestBatchDeduplicateNoDuplicates(t *testing.T) {
	d := newTestDetector(t, 0.8)
	result, err := d.BatchDeduplicate([]BatchDocument{
		{ID: "a", Content: "The quick brown fox jumps over the lazy dog."},
		{ID: "b", Content: "Notice of hearing scheduled for the fifteenth of March."},
		{ID: "c", Content: "Entirely unrelated discussion of maritime insurance claims."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := result.Validate(); err != nil {
		t.Errorf("result failed validation: %v", err)
	}
	if result.Unique != 3 || result.Duplicates != 0 || len(result.Groups) != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestBatchResultValidate(t *testing.T) {
	tests := []struct {
		name        string
		result      BatchResult
		expectError bool
		errorMsg    string
	}{
		{
			name:        "empty result",
			result:      BatchResult{},
			expectError: false,
		},
		{
			name: "consistent",
			result: BatchResult{
				Total: 3, Unique: 2, Duplicates: 1,
				Groups: []Group{{Leader: "a", Members: []Member{{ID: "b", Similarity: 1.0}}, Size: 2, AvgSimilarity: 1.0, IsExact: true}},
			},
			expectError: false,
		},
		{
			name:        "unique plus duplicates mismatch",
			result:      BatchResult{Total: 3, Unique: 1, Duplicates: 1},
			expectError: true,
			errorMsg:    "does not equal total",
		},
		{
			name: "group size mismatch",
			result: BatchResult{
				Total: 2, Unique: 1, Duplicates: 1,
				Groups: []Group{{Leader: "a", Members: []Member{{ID: "b"}}, Size: 3}},
			},
			expectError: true,
			errorMsg:    "size",
		},
		{
			name: "near duplicate count mismatch",
			result: BatchResult{
				Total: 2, Unique: 1, Duplicates: 1, NearDuplicates: 1,
				Groups: []Group{{Leader: "a", Members: []Member{{ID: "b", Similarity: 1.0}}, Size: 2, AvgSimilarity: 1.0, IsExact: true}},
			},
			expectError: true,
			errorMsg:    "near_duplicates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorMsg)
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPreviewTruncation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreviewLength = 10
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatal(err)
	}

	d.AddDocument("long", strings.Repeat("abcde ", 20), nil)
	docs := d.Documents()
	if len(docs) != 1 {
		t.Fatalf("got %d documents", len(docs))
	}
	if got := len([]rune(docs[0].Preview)); got != 10 {
		t.Errorf("preview length = %d, want 10", got)
	}
}
