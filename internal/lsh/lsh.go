// Package lsh provides sub-linear candidate retrieval for MinHash signatures
// using the banding technique.
//
// Each signature is split into contiguous bands; a band's slots are hashed
// together and documents sharing a band hash land in the same bucket. Two
// documents become candidates when they collide in at least one band, which
// happens with high probability for high-similarity pairs. Bucketing only
// narrows the candidate set; every reported similarity is recomputed exactly
// over the full signature, so banding affects recall, never precision.
package lsh

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/banks1923/docdedup/internal/minhash"
)

// DefaultNumBands is the default band count. With 128-slot signatures this
// gives 8 rows per band, tuned for thresholds around 0.8.
const DefaultNumBands = 16

// Candidate is one index entry that matched a query at or above the
// requested threshold. Similarity is the exact full-signature Jaccard
// estimate, not the coarser band-collision signal.
type Candidate struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

type bandKey struct {
	band int
	hash uint64
}

// Index is a banded LSH index over MinHash signatures.
//
// The index keeps its own reference to every added signature so candidate
// similarities can be recomputed exactly at query time. Buckets grow
// monotonically; there is no delete operation. Safe for concurrent use.
type Index struct {
	numBands int
	bandSize int

	mu         sync.RWMutex
	buckets    map[bandKey][]string
	signatures map[string]minhash.Signature
}

// New creates an index that splits numPerm-slot signatures into numBands
// bands. numPerm must be evenly divisible by numBands: truncated division
// would silently leave trailing signature slots out of bucketing, degrading
// candidate recall.
func New(numPerm, numBands int) (*Index, error) {
	if numBands <= 0 {
		numBands = DefaultNumBands
	}
	if numPerm <= 0 {
		return nil, fmt.Errorf("num_perm must be positive (got %d)", numPerm)
	}
	if numPerm%numBands != 0 {
		return nil, fmt.Errorf("num_perm (%d) must be divisible by num_bands (%d)", numPerm, numBands)
	}

	return &Index{
		numBands:   numBands,
		bandSize:   numPerm / numBands,
		buckets:    make(map[bandKey][]string),
		signatures: make(map[string]minhash.Signature),
	}, nil
}

// Add inserts a signature under the given id.
//
// Adding an id that is already present is a no-op, so re-ingesting a corpus
// cannot create duplicate bucket entries.
func (idx *Index) Add(id string, sig minhash.Signature) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.signatures[id]; exists {
		return
	}
	idx.signatures[id] = sig

	for band := 0; band < idx.numBands; band++ {
		key := bandKey{band: band, hash: idx.bandHash(sig, band)}
		idx.buckets[key] = append(idx.buckets[key], id)
	}
}

// Contains reports whether an id has been added to the index.
func (idx *Index) Contains(id string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.signatures[id]
	return ok
}

// Signature returns the stored signature for id, if present.
func (idx *Index) Signature(id string) (minhash.Signature, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	sig, ok := idx.signatures[id]
	return sig, ok
}

// FindSimilar returns every indexed document whose exact signature similarity
// to sig is at least threshold, ordered by descending similarity with id as
// the tie-break so results are deterministic.
//
// Candidates are gathered from the union of matching band buckets; documents
// that collide in no band are never considered (the accepted false-negative
// tradeoff of LSH). Each candidate's similarity is then recomputed over the
// full signature, which removes banding false positives.
func (idx *Index) FindSimilar(sig minhash.Signature, threshold float64) ([]Candidate, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]struct{})
	for band := 0; band < idx.numBands; band++ {
		key := bandKey{band: band, hash: idx.bandHash(sig, band)}
		for _, id := range idx.buckets[key] {
			seen[id] = struct{}{}
		}
	}

	candidates := make([]Candidate, 0, len(seen))
	for id := range seen {
		sim, err := minhash.Jaccard(sig, idx.signatures[id])
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", id, err)
		}
		if sim >= threshold {
			candidates = append(candidates, Candidate{ID: id, Similarity: sim})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates, nil
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.signatures)
}

// BucketCount returns the number of non-empty buckets across all bands.
func (idx *Index) BucketCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.buckets)
}

// bandHash hashes one band's slice of the signature with FNV-1a over the
// little-endian slot values.
func (idx *Index) bandHash(sig minhash.Signature, band int) uint64 {
	start := band * idx.bandSize
	end := start + idx.bandSize
	if end > len(sig) {
		end = len(sig)
	}

	h := fnv.New64a()
	var buf [8]byte
	for _, v := range sig[start:end] {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return h.Sum64()
}
