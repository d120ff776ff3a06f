// Package identity decides whether two name strings denote the same
// candidate across sources that render names inconsistently.
package identity

import "strings"

// Matcher is the pluggable name-matching strategy. Implementations must
// be pure: no state, no failure mode beyond returning false.
type Matcher interface {
	// Matches reports whether query and candidate denote the same
	// candidate. Case-insensitive and whitespace-insensitive.
	Matches(query, candidate string) bool
}

// FuzzyMatcher implements Matcher with the containment heuristic used
// across all data sources. It handles short forms against full legal
// names with infix particles, e.g. "Richarlison" against
// "Richarlison de Andrade".
//
// This is best-effort, not a bijection: a common single-token surname
// can match several full names. Callers that care surface all matches
// instead of auto-selecting the first (see repository.FindAll).
type FuzzyMatcher struct{}

// NewFuzzyMatcher returns the default matching strategy.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{}
}

// Matches applies the matching policy in order: exact equality after
// normalization, containment in either direction, then token-subset
// (every query token is a substring of some candidate token).
func (m *FuzzyMatcher) Matches(query, candidate string) bool {
	q := normalize(query)
	c := normalize(candidate)

	if q == "" || c == "" {
		return q == c
	}
	if q == c {
		return true
	}
	if strings.Contains(c, q) || strings.Contains(q, c) {
		return true
	}

	// Token subset: "R. Andrade" matching "Richarlison de Andrade"
	// style splits. Every query token must land inside some candidate
	// token.
	qTokens := strings.Fields(q)
	cTokens := strings.Fields(c)
	for _, qt := range qTokens {
		found := false
		for _, ct := range cTokens {
			if strings.Contains(ct, qt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return len(qTokens) > 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
