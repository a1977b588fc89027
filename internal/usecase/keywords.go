package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance
var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// fuzzyMinTokenLength keeps short words like "oil" or "egg" out of fuzzy matching
const fuzzyMinTokenLength = 5

// tokenize splits a name into lowercase words with plurals folded, so
// "Large Eggs" and "egg" share the token "egg".
func tokenize(s string) []string {
	words := strings.Fields(nonWordRegex.ReplaceAllString(strings.ToLower(s), " "))
	for i, w := range words {
		words[i] = foldPlural(w)
	}
	return words
}

// foldPlural strips common English plural endings. It is applied to both sides
// of every comparison, so it only needs to be consistent, not correct.
func foldPlural(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "oes"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	}
	return w
}

// keywordPhrase is a pre-tokenized keyword ("maple syrup" -> [maple syrup])
type keywordPhrase struct {
	text   string
	tokens []string
}

func newKeywordPhrase(text string) keywordPhrase {
	return keywordPhrase{text: text, tokens: tokenize(text)}
}

// matchIn reports whether the phrase appears as a contiguous run of words in
// tokens. With fuzzy set, long words may differ by one edit.
func (p keywordPhrase) matchIn(tokens []string, fuzzy bool) bool {
	n := len(p.tokens)
	if n == 0 || n > len(tokens) {
		return false
	}
	for start := 0; start+n <= len(tokens); start++ {
		matched := true
		for i, want := range p.tokens {
			got := tokens[start+i]
			if got == want {
				continue
			}
			if fuzzy && fuzzyTokenMatch(got, want, 1) {
				continue
			}
			matched = false
			break
		}
		if matched {
			return true
		}
	}
	return false
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to long tokens to avoid false positives
	if len(token1) < fuzzyMinTokenLength || len(token2) < fuzzyMinTokenLength {
		return false
	}

	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
