package lexical

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const defaultMinTokenLen = 3

// TokenSetSimilarity measures case-insensitive token-set overlap (Jaccard
// index). Tokens shorter than MinTokenLen runes are ignored, which keeps
// articles and pronouns from inflating the score.
type TokenSetSimilarity struct {
	MinTokenLen int
}

// NewTokenSetSimilarity creates a TokenSetSimilarity with the given minimum
// token length. If minTokenLen is <= 0, defaults to 3.
func NewTokenSetSimilarity(minTokenLen int) *TokenSetSimilarity {
	if minTokenLen <= 0 {
		minTokenLen = defaultMinTokenLen
	}
	return &TokenSetSimilarity{MinTokenLen: minTokenLen}
}

// Compare returns the Jaccard overlap of the two fragments' token sets.
// Two empty token sets compare equal (1.0); an empty set against a
// non-empty one compares to zero.
func (s *TokenSetSimilarity) Compare(a, b string) float64 {
	setA := s.tokenSet(a)
	setB := s.tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// tokenSet lowercases the fragment, splits on non-alphanumeric runes, and
// drops tokens shorter than MinTokenLen.
func (s *TokenSetSimilarity) tokenSet(text string) map[string]struct{} {
	minLen := s.MinTokenLen
	if minLen <= 0 {
		minLen = defaultMinTokenLen
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(fields))
	for _, tok := range fields {
		if utf8.RuneCountInString(tok) < minLen {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
