// Package shingle turns raw text into the set of hashed k-grams that the
// MinHash engine consumes.
//
// Shingling is the first stage of the near-duplicate pipeline: text is
// normalized (case, whitespace, punctuation) and then sliced into overlapping
// k-character windows. Each window is reduced to a 64-bit hash so the rest of
// the pipeline only ever handles integers. The result is a set, not a
// multiset: repeated k-grams collapse to one entry, which is what Jaccard
// similarity over sets requires.
package shingle

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultK is the shingle width used throughout the toolkit. Three characters
// is small enough to tolerate word-level edits while still distinguishing
// unrelated prose.
const DefaultK = 3

// Normalize lowercases text, strips everything except word characters and
// spaces, and collapses whitespace runs to a single space.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true // leading whitespace is dropped
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// Punctuation and symbols are dropped entirely.
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Shingle returns the set of hashed k-grams of the normalized text.
//
// Text whose normalized form is shorter than k produces an empty set; callers
// must treat that as "no signal" rather than an error. The function is pure:
// the same text and k always yield the same set.
func Shingle(text string, k int) map[uint64]struct{} {
	if k <= 0 {
		k = DefaultK
	}

	normalized := []rune(Normalize(text))
	shingles := make(map[uint64]struct{})
	if len(normalized) < k {
		return shingles
	}

	for i := 0; i+k <= len(normalized); i++ {
		shingles[hashGram(normalized[i:i+k])] = struct{}{}
	}
	return shingles
}

// hashGram reduces one k-gram to an integer with FNV-1a. The 32-bit variant
// keeps shingle values below 2^32 so the MinHash universal hash a*x+b can be
// evaluated in uint64 arithmetic without overflow.
func hashGram(gram []rune) uint64 {
	h := fnv.New32a()
	h.Write([]byte(string(gram)))
	return uint64(h.Sum32())
}
