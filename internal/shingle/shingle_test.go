package shingle

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases",
			input: "Hello World",
			want:  "hello world",
		},
		{
			name:  "strips punctuation",
			input: "The quick, brown fox!",
			want:  "the quick brown fox",
		},
		{
			name:  "collapses whitespace runs",
			input: "a  b\t\nc",
			want:  "a b c",
		},
		{
			name:  "trims leading and trailing whitespace",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "keeps digits and underscores",
			input: "case_42 FILED",
			want:  "case_42 filed",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "only punctuation",
			input: "!!! ??? ...",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShingleShortText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		k     int
	}{
		{name: "empty string", input: "", k: 3},
		{name: "below k after normalization", input: "ab", k: 3},
		{name: "punctuation only", input: "?!", k: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shingle(tt.input, tt.k); len(got) != 0 {
				t.Errorf("Shingle(%q, %d) returned %d shingles, want 0", tt.input, tt.k, len(got))
			}
		})
	}
}

func TestShingleWindowCount(t *testing.T) {
	// "abcde" has exactly three 3-grams: abc, bcd, cde.
	got := Shingle("abcde", 3)
	if len(got) != 3 {
		t.Errorf("expected 3 shingles, got %d", len(got))
	}
}

func TestShingleDeduplicatesRepeats(t *testing.T) {
	// "aaaa" yields the window "aaa" twice; sets collapse it to one entry.
	got := Shingle("aaaa", 3)
	if len(got) != 1 {
		t.Errorf("expected 1 shingle for repeated k-grams, got %d", len(got))
	}
}

func TestShingleDeterministic(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."
	a := Shingle(text, 3)
	b := Shingle(text, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("same text produced different shingle sets")
	}
}

func TestShingleNormalizationInvariance(t *testing.T) {
	// Case, punctuation, and whitespace variants shingle identically.
	a := Shingle("Hello, World!", 3)
	b := Shingle("hello   world", 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("normalization-equivalent texts produced different shingle sets")
	}
}

func TestShingleDefaultsK(t *testing.T) {
	a := Shingle("abcdef", 0)
	b := Shingle("abcdef", DefaultK)
	if !reflect.DeepEqual(a, b) {
		t.Error("k<=0 did not fall back to DefaultK")
	}
}
