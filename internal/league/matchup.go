package league

import "strings"

// NormalizeUsername lowercases and trims a provider username. All username
// comparisons in this package go through it.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// MatchupKey is the canonical identity of an unordered pairing: both
// usernames normalized, sorted, and joined. The same key comes out no matter
// which player is white.
func MatchupKey(a, b string) string {
	na, nb := NormalizeUsername(a), NormalizeUsername(b)
	if na > nb {
		na, nb = nb, na
	}
	return na + "|" + nb
}
