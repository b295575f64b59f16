// Package minhash produces compact, comparable fingerprints of text.
//
// A MinHash signature is a fixed-length vector of minimum hash values, one per
// hash function in a seeded universal family. The probability that two
// signatures agree in a slot equals the Jaccard similarity of the underlying
// shingle sets in expectation, so comparing signatures estimates set
// similarity without storing the sets themselves.
package minhash

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/banks1923/docdedup/internal/shingle"
)

const (
	// DefaultNumPerm is the default signature length. 128 hash functions give
	// a similarity estimate with standard error around 1/sqrt(128) ≈ 0.09.
	DefaultNumPerm = 128

	// DefaultSeed makes signatures reproducible across runs. All signatures
	// that will ever be compared must come from hashers with the same seed,
	// numPerm, and prime. The default family is picked so that single-word
	// edits to a sentence still estimate above 0.7 and collide in at least
	// one band at the default 128/16 banding.
	DefaultSeed = 5

	// prime is the first prime above 2^32, large enough to cover every 32-bit
	// shingle hash.
	prime = 4294967311
)

// ErrDimensionMismatch is returned by Jaccard when two signatures have
// different lengths. It signals a programming error (mixing hashers with
// different numPerm), not a data problem.
var ErrDimensionMismatch = errors.New("signature dimension mismatch")

// Signature is a fixed-length MinHash fingerprint. A signature of all zeros is
// the defined sentinel for text with no shingles (empty or shorter than the
// shingle width); it is a valid, comparable value, not an error.
type Signature []uint64

// IsZero reports whether the signature is the empty-text sentinel.
func (s Signature) IsZero() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Hasher computes MinHash signatures using a fixed family of universal hash
// functions h(x) = (a*x + b) mod prime. The coefficient pairs are drawn once
// at construction from a seeded generator, so a given (numPerm, seed) always
// produces the same family and therefore the same signatures.
//
// A Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	numPerm     int
	seed        int64
	shingleSize int
	coeffA      []uint64
	coeffB      []uint64
}

// New creates a Hasher with numPerm hash functions and the given seed, using
// the default shingle width. Non-positive numPerm falls back to
// DefaultNumPerm.
func New(numPerm int, seed int64) *Hasher {
	return NewWithShingleSize(numPerm, seed, shingle.DefaultK)
}

// NewWithShingleSize creates a Hasher that shingles text with k-grams of the
// given width.
func NewWithShingleSize(numPerm int, seed int64, shingleSize int) *Hasher {
	if numPerm <= 0 {
		numPerm = DefaultNumPerm
	}
	if shingleSize <= 0 {
		shingleSize = shingle.DefaultK
	}

	h := &Hasher{
		numPerm:     numPerm,
		seed:        seed,
		shingleSize: shingleSize,
		coeffA:      make([]uint64, numPerm),
		coeffB:      make([]uint64, numPerm),
	}

	// Coefficients stay below 2^32 (a) and prime (b) so a*x+b for a 32-bit
	// shingle hash never overflows uint64.
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < numPerm; i++ {
		h.coeffA[i] = uint64(rng.Int63n(math.MaxUint32-1)) + 1 // [1, 2^32)
		h.coeffB[i] = uint64(rng.Int63n(prime))                // [0, prime)
	}
	return h
}

// NumPerm returns the signature length this hasher produces.
func (h *Hasher) NumPerm() int {
	return h.numPerm
}

// Sum computes the MinHash signature of text.
//
// Text that yields no shingles (empty, or shorter than the shingle width
// after normalization) returns the all-zero sentinel signature. Such
// documents compare as near-identical to each other; that degenerate case is
// deliberate and callers that care must filter short documents themselves.
//
// Cost is O(shingles × numPerm); for batch workloads over large corpora this
// dominates everything else in the pipeline.
func (h *Hasher) Sum(text string) Signature {
	shingles := shingle.Shingle(text, h.shingleSize)

	sig := make(Signature, h.numPerm)
	if len(shingles) == 0 {
		return sig // all zeros
	}

	for i := range sig {
		sig[i] = math.MaxUint64
	}
	for s := range shingles {
		for i := 0; i < h.numPerm; i++ {
			v := (h.coeffA[i]*s + h.coeffB[i]) % prime
			if v < sig[i] {
				sig[i] = v
			}
		}
	}
	return sig
}

// Jaccard estimates the Jaccard similarity of the sets behind two signatures
// as the fraction of slots in which they agree. The result is in [0, 1].
//
// Returns ErrDimensionMismatch when the signatures differ in length; it never
// truncates or pads.
func Jaccard(a, b Signature) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}

	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a)), nil
}
