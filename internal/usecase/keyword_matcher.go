package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yatralens/backend/internal/domain"
)

// Keyword matching strategies selectable from configuration
const (
	StrategySubstring = "substring"
	StrategyExact     = "exact"
	StrategyFuzzy     = "fuzzy"
)

// SubstringMatcher matches when either string contains the other
type SubstringMatcher struct{}

// Matches implements domain.KeywordMatcher
func (SubstringMatcher) Matches(label, keyword string) bool {
	return strings.Contains(label, keyword) || strings.Contains(keyword, label)
}

// ExactMatcher matches only identical strings
type ExactMatcher struct{}

// Matches implements domain.KeywordMatcher
func (ExactMatcher) Matches(label, keyword string) bool {
	return label == keyword
}

// FuzzyMatcher extends substring matching with token-level edit distance so
// that spelling variants ("qutab" / "qutub") still match
type FuzzyMatcher struct {
	MaxEditDistance int
}

// Canonical folds Unicode compatibility forms and word separators so that
// "Triumphal_Arch" and "triumphal arch" compare equal
func (f FuzzyMatcher) Canonical(s string) string {
	return normalizeLabel(s)
}

// Matches implements domain.KeywordMatcher
func (f FuzzyMatcher) Matches(label, keyword string) bool {
	if (SubstringMatcher{}).Matches(label, keyword) {
		return true
	}

	threshold := f.MaxEditDistance
	if threshold <= 0 {
		threshold = 1
	}

	keywordTokens := strings.Fields(keyword)
	for _, lt := range strings.Fields(label) {
		for _, kt := range keywordTokens {
			if fuzzyTokenMatch(lt, kt, threshold) {
				return true
			}
		}
	}
	return false
}

// NewKeywordMatcher returns the matcher for a configured strategy name
func NewKeywordMatcher(strategy string, editDistance int) (domain.KeywordMatcher, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategySubstring:
		return SubstringMatcher{}, nil
	case StrategyExact:
		return ExactMatcher{}, nil
	case StrategyFuzzy:
		return FuzzyMatcher{MaxEditDistance: editDistance}, nil
	default:
		return nil, fmt.Errorf("%w: unknown keyword strategy %q", domain.ErrInvalidRequest, strategy)
	}
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Short tokens produce too many false positives ("fort" / "port")
	len1 := utf8.RuneCountInString(token1)
	len2 := utf8.RuneCountInString(token2)
	if len1 < 5 || len2 < 5 {
		return false
	}

	lenDiff := len1 - len2
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
