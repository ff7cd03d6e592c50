// Package search implements the n-gram tokenization behind exercise search.
package search

import "strings"

// Ngrams returns every contiguous substring of the lowercased input, from
// length 1 up to the full string, deduplicated in first-seen order. Indexing
// and querying use the same tokenization, so any substring of an indexed name
// matches it.
func Ngrams(s string) []string {
	s = strings.ToLower(s)
	runes := []rune(s)

	seen := make(map[string]struct{})
	var tokens []string
	for i := 0; i < len(runes); i++ {
		for j := i + 1; j <= len(runes); j++ {
			tok := string(runes[i:j])
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TokenString returns the space-joined n-gram tokens, the form stored in the
// exercises table.
func TokenString(s string) string {
	return strings.Join(Ngrams(s), " ")
}

// Score counts how many query tokens occur in the indexed token string. Higher
// means more relevant; zero means no match.
func Score(indexed string, queryTokens []string) int {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(indexed) {
		set[tok] = struct{}{}
	}
	score := 0
	for _, tok := range queryTokens {
		if _, ok := set[tok]; ok {
			score++
		}
	}
	return score
}
