package textutil

import (
	"math"
	"strings"
	"unicode"
)

// minTokenLen drops short connective tokens ("of", "&", "to") from fingerprints.
const minTokenLen = 3

// Fingerprint is a term-frequency vector used to compare short labels.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no valid tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &Fingerprint{
		tokens: counts,
		norm:   math.Sqrt(norm),
	}
}

// Tokenize lower-cases text and splits it on anything that is not a letter or
// digit, dropping tokens shorter than three runes.
func Tokenize(text string) []string {
	raw := strings.FieldsFunc(lower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < minTokenLen {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}
