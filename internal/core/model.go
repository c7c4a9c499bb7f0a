package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Sentiment labels
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// MaxNeutralMargin is the upper bound accepted for a neutral margin
const MaxNeutralMargin = 0.5

// EmptyTextAdvisory is returned to the caller when there is nothing to classify
const EmptyTextAdvisory = "Please enter text."

var (
	// ErrInvalidMargin is returned when a neutral margin is outside [0, 0.5]
	ErrInvalidMargin = errors.New("neutral margin must be within [0, 0.5]")
	// ErrInvalidBackend is returned for an unknown backend selector
	ErrInvalidBackend = errors.New("unknown backend")
	// ErrModelUnavailable is returned when the local model cannot be acquired
	ErrModelUnavailable = errors.New("local model unavailable")
)

// Backend selects which inference backend serves a request
type Backend int

const (
	BackendLocal Backend = iota
	BackendRemote
)

// String returns the lowercase backend name
func (b Backend) String() string {
	switch b {
	case BackendLocal:
		return "local"
	case BackendRemote:
		return "remote"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend parses a backend selector, case-insensitively. "api" is an
// alias for the remote backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return BackendLocal, nil
	case "remote", "api":
		return BackendRemote, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBackend, s)
	}
}

// ClassificationRequest is a single classification request
type ClassificationRequest struct {
	Text          string
	NeutralMargin float64
	Backend       Backend
}

// Validate checks the margin and backend of the request. Empty text is valid;
// it is handled by the service as an advisory short-circuit.
func (r *ClassificationRequest) Validate() error {
	if err := ValidateMargin(r.NeutralMargin); err != nil {
		return err
	}
	if r.Backend != BackendLocal && r.Backend != BackendRemote {
		return fmt.Errorf("%w: %s", ErrInvalidBackend, r.Backend)
	}
	return nil
}

// ValidateMargin checks that a neutral margin is usable
func ValidateMargin(margin float64) error {
	if math.IsNaN(margin) || margin < 0 || margin > MaxNeutralMargin {
		return fmt.Errorf("%w: got %v", ErrInvalidMargin, margin)
	}
	return nil
}

// RawItem is a backend-native label/score pair prior to normalization
type RawItem struct {
	Label string
	Score float64
}

// SentimentResult is the normalized output for one input text
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Error string  `json:"error,omitempty"`
}

// Raw converts a result back into a RawItem
func (r SentimentResult) Raw() RawItem {
	return RawItem{Label: r.Label, Score: r.Score}
}

// Failed reports whether the result carries a diagnostic error
func (r SentimentResult) Failed() bool {
	return r.Error != ""
}

// Classification is the outcome of a single Classify call
type Classification struct {
	Result   SentimentResult
	Results  []SentimentResult
	Advisory string
	Backend  Backend
	Skipped  bool
	Elapsed  time.Duration
	Text     string
}

// JournalEntry records one classification for later inspection. Raw text is
// never stored, only its digest.
type JournalEntry struct {
	ID         string
	Backend    string
	TextDigest string
	TextLength int
	Label      string
	Score      float64
	Error      string
	Skipped    bool
	Elapsed    time.Duration
	RecordedAt time.Time
	ExpiresAt  time.Time
}
