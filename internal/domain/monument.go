package domain

import "time"

// Monument is a recognizable landmark in the catalog. Records are defined once
// at start-up and never mutated.
type Monument struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	BuiltBy      string   `json:"builtBy,omitempty"`
	BuiltIn      string   `json:"builtIn,omitempty"`
	Description  string   `json:"description,omitempty"`
	Significance string   `json:"significance,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Keywords     []string `json:"keywords"`
}

// MonumentView is the caller-facing projection of a Monument.
// Confidence is 0-1 and is zero in catalog listings.
type MonumentView struct {
	Monument
	Confidence float64 `json:"confidence"`
}

// Prediction is a single classifier output item
type Prediction struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// MatchResult is the best monument for one set of predictions
type MatchResult struct {
	Monument        Monument `json:"monument"`
	Confidence      float64  `json:"confidence"` // 0-1
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

// Recognition is the outcome of a recognize call as exposed to callers.
// Success is false only for a structured "no confident match" failure.
type Recognition struct {
	ID                string        `json:"id"`
	Success           bool          `json:"success"`
	Monument          *MonumentView `json:"monument,omitempty"`
	ConfidencePercent int           `json:"confidencePercent,omitempty"`
	IsFallback        bool          `json:"isFallback"`
	Error             string        `json:"error,omitempty"`
	Attempts          int           `json:"attempts"`
	ImageDigest       string        `json:"imageDigest,omitempty"`
	Source            string        `json:"source"` // "classifier", "fallback" or "cache"
	RecognizedAt      time.Time     `json:"recognizedAt"`
}
