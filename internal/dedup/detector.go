package dedup

import (
	"crypto/sha256"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/banks1923/docdedup/internal/lsh"
	"github.com/banks1923/docdedup/internal/minhash"
)

// exactCutoff is the similarity above which a match is reported as an exact
// duplicate rather than a near-duplicate.
const exactCutoff = 0.99

// Document is the detector's record of one indexed document. Records are
// created by AddDocument and never mutated.
type Document struct {
	// ID is the caller-supplied document identifier.
	ID string `json:"id"`

	// Preview is the leading slice of the document content, kept for
	// diagnostics and match reporting.
	Preview string `json:"preview"`

	// Metadata is opaque caller-supplied key-value context.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Signature is the document's MinHash fingerprint.
	Signature minhash.Signature `json:"-"`
}

// Match is one result of checking a document against the index.
type Match struct {
	// DocID is the matched document's identifier.
	DocID string `json:"doc_id"`

	// Similarity is the exact full-signature Jaccard estimate against the
	// matched document, never the coarser band-collision signal.
	Similarity float64 `json:"similarity"`

	// IsExact is true when similarity exceeds 0.99.
	IsExact bool `json:"is_exact"`

	// IsNearDuplicate is true when similarity meets the detector threshold.
	// Every returned match satisfies this; it is kept explicit for callers
	// that serialize matches.
	IsNearDuplicate bool `json:"is_near_duplicate"`

	// Metadata and Preview come from the matched document's record.
	Metadata map[string]string `json:"metadata,omitempty"`
	Preview  string            `json:"preview"`
}

// Detector finds near-duplicate documents by indexing MinHash signatures in
// a banded LSH index and recomputing exact similarities among candidates.
//
// Content supplied to the detector is assumed to be extracted, cleaned plain
// text; the detector performs no HTML stripping, OCR, or encoding repair.
// Empty or very short content degrades to the all-zero sentinel signature
// rather than failing, so such documents spuriously match each other.
//
// Safe for concurrent use.
type Detector struct {
	cfg    Config
	hasher *minhash.Hasher
	index  *lsh.Index

	mu    sync.RWMutex
	docs  map[string]*Document
	order []string // insertion order, drives deterministic grouping
}

// NewDetector creates a detector from the given configuration.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detector config: %w", err)
	}

	index, err := lsh.New(cfg.NumPerm, cfg.NumBands)
	if err != nil {
		return nil, err
	}

	return &Detector{
		cfg:    cfg,
		hasher: minhash.NewWithShingleSize(cfg.NumPerm, cfg.Seed, cfg.ShingleSize),
		index:  index,
		docs:   make(map[string]*Document),
	}, nil
}

// Config returns the detector's configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Len returns the number of indexed documents.
func (d *Detector) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.docs)
}

// BucketCount returns the number of non-empty LSH buckets.
func (d *Detector) BucketCount() int {
	return d.index.BucketCount()
}

// Documents returns the indexed document records in insertion order.
func (d *Detector) Documents() []*Document {
	d.mu.RLock()
	defer d.mu.RUnlock()

	docs := make([]*Document, 0, len(d.order))
	for _, id := range d.order {
		docs = append(docs, d.docs[id])
	}
	return docs
}

// AddDocument computes the document's signature and inserts it into the
// index. Adding an id that already exists is a no-op, so re-ingesting a
// corpus cannot corrupt bucket membership.
func (d *Detector) AddDocument(id, content string, metadata map[string]string) {
	d.addWithSignature(id, content, metadata, d.hasher.Sum(content))
}

func (d *Detector) addWithSignature(id, content string, metadata map[string]string, sig minhash.Signature) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.docs[id]; exists {
		return
	}

	d.docs[id] = &Document{
		ID:        id,
		Preview:   truncate(content, d.cfg.PreviewLength),
		Metadata:  metadata,
		Signature: sig,
	}
	d.order = append(d.order, id)
	d.index.Add(id, sig)
}

// CheckDuplicate computes a fresh signature for content and returns every
// indexed document whose similarity meets the detector threshold, ordered by
// descending similarity. The content itself is not added to the index.
func (d *Detector) CheckDuplicate(content string) ([]Match, error) {
	sig := d.hasher.Sum(content)

	candidates, err := d.index.FindSimilar(sig, d.cfg.Threshold)
	if err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		m := Match{
			DocID:           c.ID,
			Similarity:      c.Similarity,
			IsExact:         c.Similarity > exactCutoff,
			IsNearDuplicate: c.Similarity >= d.cfg.Threshold,
		}
		if doc, ok := d.docs[c.ID]; ok {
			m.Metadata = doc.Metadata
			m.Preview = doc.Preview
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Similarity compares two texts directly, bypassing the index entirely. No
// detector state is mutated.
func (d *Detector) Similarity(a, b string) float64 {
	// Both signatures come from the same hasher, so dimensions always agree.
	sim, _ := minhash.Jaccard(d.hasher.Sum(a), d.hasher.Sum(b))
	return sim
}

// FindAllDuplicates scans the indexed documents in insertion order and
// returns duplicate groups keyed by leader id, with members holding the
// non-leader group documents.
//
// Leader selection is positional: the leader of a group is simply the
// earliest-inserted document not yet assigned to a group, not a canonical or
// highest-quality choice. Callers that need a recency or quality preference
// must apply their own ordering to group members.
func (d *Detector) FindAllDuplicates() (map[string][]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findAllDuplicatesLocked()
}

func (d *Detector) findAllDuplicatesLocked() (map[string][]string, error) {
	groups := make(map[string][]string)
	assigned := make(map[string]struct{})

	for _, id := range d.order {
		if _, done := assigned[id]; done {
			continue
		}

		candidates, err := d.index.FindSimilar(d.docs[id].Signature, d.cfg.Threshold)
		if err != nil {
			return nil, err
		}

		var members []string
		for _, c := range candidates {
			if c.ID == id {
				continue
			}
			if _, done := assigned[c.ID]; done {
				continue
			}
			members = append(members, c.ID)
		}
		if len(members) == 0 {
			continue
		}

		groups[id] = members
		assigned[id] = struct{}{}
		for _, m := range members {
			assigned[m] = struct{}{}
		}
	}
	return groups, nil
}

// BatchDocument is one input to BatchDeduplicate.
type BatchDocument struct {
	// ID identifies the document. When empty, an id is synthesized from a
	// hash of the content; two id-less documents with identical content then
	// collapse to a single record, which is the deduplication outcome anyway.
	ID string `json:"id,omitempty"`

	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Member is one non-leader document of a duplicate group.
type Member struct {
	ID string `json:"id"`

	// Similarity is the member's exact similarity to the group leader.
	Similarity float64 `json:"similarity"`
}

// Group is one resolved duplicate group.
type Group struct {
	// Leader is the earliest-inserted document of the group.
	Leader string `json:"leader"`

	// Members are the remaining group documents, ordered by descending
	// similarity to the leader.
	Members []Member `json:"members"`

	// Size counts the leader plus members.
	Size int `json:"size"`

	// AvgSimilarity is the mean similarity of members against the leader.
	AvgSimilarity float64 `json:"avg_similarity"`

	// IsExact is true when AvgSimilarity exceeds 0.99.
	IsExact bool `json:"is_exact"`
}

// BatchResult is the outcome of a batch deduplication run. It is
// JSON-serializable for CLI output and report persistence.
type BatchResult struct {
	// Total is the number of input documents.
	Total int `json:"total"`

	// Unique is Total minus the number of non-leader group members.
	Unique int `json:"unique"`

	// Duplicates is the number of non-leader group members.
	Duplicates int `json:"duplicates"`

	// NearDuplicates counts groups whose average similarity is at or below
	// the exact cutoff (rephrased rather than byte-identical copies). A group
	// sitting exactly on the cutoff counts as near, matching IsExact's strict
	// inequality.
	NearDuplicates int `json:"near_duplicates"`

	// Groups are the resolved duplicate groups, ordered by leader insertion.
	Groups []Group `json:"groups"`

	// Threshold echoes the similarity threshold the run used.
	Threshold float64 `json:"threshold"`
}

// Validate checks the internal consistency of a batch result.
func (r *BatchResult) Validate() error {
	if r.Total < 0 {
		return fmt.Errorf("total cannot be negative (got %d)", r.Total)
	}
	if r.Unique+r.Duplicates != r.Total {
		return fmt.Errorf("unique (%d) + duplicates (%d) does not equal total (%d)",
			r.Unique, r.Duplicates, r.Total)
	}
	memberCount := 0
	nearCount := 0
	for _, g := range r.Groups {
		if g.Size != len(g.Members)+1 {
			return fmt.Errorf("group %s: size (%d) does not match members+leader (%d)",
				g.Leader, g.Size, len(g.Members)+1)
		}
		memberCount += len(g.Members)
		if !g.IsExact {
			nearCount++
		}
	}
	if memberCount != r.Duplicates {
		return fmt.Errorf("duplicates (%d) does not match group member count (%d)",
			r.Duplicates, memberCount)
	}
	if nearCount != r.NearDuplicates {
		return fmt.Errorf("near_duplicates (%d) does not match non-exact group count (%d)",
			r.NearDuplicates, nearCount)
	}
	return nil
}

// BatchDeduplicate adds every input document to the index, resolves duplicate
// groups, and returns aggregate statistics.
//
// Signature computation is the dominant cost (O(shingles × NumPerm) per
// document) and is parallelized across the batch; index insertion stays
// serialized in input order so grouping remains deterministic.
func (d *Detector) BatchDeduplicate(docs []BatchDocument) (*BatchResult, error) {
	sigs := make([]minhash.Signature, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i := range docs {
		i := i
		g.Go(func() error {
			sigs[i] = d.hasher.Sum(docs[i].Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = synthesizeID(doc.Content)
		}
		d.addWithSignature(id, doc.Content, doc.Metadata, sigs[i])
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	grouped, err := d.findAllDuplicatesLocked()
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		Total:     len(docs),
		Threshold: d.cfg.Threshold,
	}

	// Emit groups in leader insertion order for stable output.
	for _, id := range d.order {
		members, ok := grouped[id]
		if !ok {
			continue
		}

		groupMembers := make([]Member, 0, len(members))
		var sum float64
		for _, m := range members {
			// Same hasher throughout, dimensions always agree.
			sim, _ := minhash.Jaccard(d.docs[id].Signature, d.docs[m].Signature)
			groupMembers = append(groupMembers, Member{ID: m, Similarity: sim})
			sum += sim
		}
		avg := sum / float64(len(members))

		result.Groups = append(result.Groups, Group{
			Leader:        id,
			Members:       groupMembers,
			Size:          len(members) + 1,
			AvgSimilarity: avg,
			IsExact:       avg > exactCutoff,
		})
		result.Duplicates += len(members)
		if avg <= exactCutoff {
			result.NearDuplicates++
		}
	}
	result.Unique = result.Total - result.Duplicates

	return result, nil
}

// synthesizeID derives a stable identifier from document content.
func synthesizeID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("doc-%x", sum[:8])
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
