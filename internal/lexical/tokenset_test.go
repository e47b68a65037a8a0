package lexical_test

import (
	"math"
	"testing"

	"github.com/exafyltd/vitana-context/internal/lexical"
)

// Compile-time interface guard.
var _ lexical.Similarity = (*lexical.TokenSetSimilarity)(nil)

func TestNewTokenSetSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		minLen  int
		wantLen int
	}{
		{name: "explicit", minLen: 4, wantLen: 4},
		{name: "zero_defaults_to_3", minLen: 0, wantLen: 3},
		{name: "negative_defaults_to_3", minLen: -1, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := lexical.NewTokenSetSimilarity(tt.minLen)
			if s.MinTokenLen != tt.wantLen {
				t.Errorf("MinTokenLen = %d, want %d", s.MinTokenLen, tt.wantLen)
			}
		})
	}
}

func TestTokenSetSimilarity_Compare(t *testing.T) {
	t.Parallel()

	s := lexical.NewTokenSetSimilarity(0)

	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "identical", a: "enjoys hiking every weekend", b: "enjoys hiking every weekend", want: 1.0},
		{name: "case_insensitive", a: "LOVES Coffee", b: "loves coffee", want: 1.0},
		{name: "both_empty", a: "", b: "", want: 1.0},
		{name: "one_empty", a: "", b: "works at a hospital", want: 0.0},
		{name: "only_short_tokens_vs_text", a: "a an to of", b: "works remotely", want: 0.0},
		{name: "both_only_short_tokens", a: "a to", b: "of an", want: 1.0},
		{name: "disjoint", a: "plays tennis weekly", b: "allergic peanuts severe", want: 0.0},
		{name: "half_overlap", a: "enjoys hiking", b: "enjoys swimming", want: 1.0 / 3.0},
		{name: "punctuation_split", a: "lives in Lyon, France.", b: "lives in Lyon", want: 2.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Compare(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Compare(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetSimilarity_Compare_Symmetric(t *testing.T) {
	t.Parallel()

	s := lexical.NewTokenSetSimilarity(0)
	a := "drinks two coffees before noon"
	b := "drinks tea after noon"

	if s.Compare(a, b) != s.Compare(b, a) {
		t.Errorf("Compare is not symmetric for %q / %q", a, b)
	}
}

func TestTokenSetSimilarity_MinTokenLen(t *testing.T) {
	t.Parallel()

	// With min length 5, "likes" (5) counts but "jazz" and "rock" (4) are dropped.
	s := lexical.NewTokenSetSimilarity(5)
	got := s.Compare("likes jazz", "likes rock")
	if got != 1.0 {
		t.Errorf("Compare with minLen=5 = %v, want 1.0 (short tokens dropped)", got)
	}
}
