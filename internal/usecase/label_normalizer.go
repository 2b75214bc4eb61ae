package usecase

import (
	"regexp"
	"strings"

	"github.com/yatralens/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Compiled regex patterns for label normalization
var (
	// Classifier label sets use underscores or hyphens as word separators ("triumphal_arch")
	labelSeparatorPattern = regexp.MustCompile(`[_\-]+`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// labelCanonicalizer is implemented by keyword strategies that compare a
// stronger canonical form than the default lowercased label
type labelCanonicalizer interface {
	Canonical(s string) string
}

// foldLabel is the default comparison form: lowercased with surrounding
// whitespace removed
func foldLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// normalizeLabel is the canonical form used by the fuzzy strategy.
// NFKC folds compatibility characters, then the text is lowercased and
// separators and whitespace are collapsed to single spaces.
func normalizeLabel(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = labelSeparatorPattern.ReplaceAllString(s, " ")
	s = multiSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// normalizedPrediction is a prediction whose label has been normalized and
// whose probability has been clamped to [0,1]
type normalizedPrediction struct {
	label       string
	probability float64
}

// normalizePredictions applies canonical to every label and drops predictions
// whose label ends up empty. An empty label is a substring of every keyword
// and would match the whole catalog.
func normalizePredictions(predictions []domain.Prediction, canonical func(string) string) []normalizedPrediction {
	out := make([]normalizedPrediction, 0, len(predictions))
	for _, p := range predictions {
		label := canonical(p.Label)
		if label == "" {
			continue
		}
		out = append(out, normalizedPrediction{label: label, probability: clampUnit(p.Probability)})
	}
	return out
}

// clampUnit clamps p to [0,1]; NaN becomes 0
func clampUnit(p float64) float64 {
	if p != p || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
