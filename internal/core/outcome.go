package core

import "fmt"

// FailureKind classifies a backend failure
type FailureKind int

const (
	// FailureCredentials means the backend credential is missing
	FailureCredentials FailureKind = iota + 1
	// FailureStatus means the backend answered with a non-success status
	FailureStatus
	// FailureTransport covers network errors and timeouts
	FailureTransport
	// FailureMalformed means the response did not match the expected schema
	FailureMalformed
)

// String returns a short name for the failure kind
func (k FailureKind) String() string {
	switch k {
	case FailureCredentials:
		return "credentials"
	case FailureStatus:
		return "status"
	case FailureTransport:
		return "transport"
	case FailureMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Failure describes why a backend call produced no predictions
type Failure struct {
	Kind   FailureKind
	Status int
	Detail string
}

// Message renders the failure the way it is reported in SentimentResult.Error
func (f *Failure) Message() string {
	if f.Kind == FailureStatus {
		return fmt.Sprintf("HTTP %d: %s", f.Status, f.Detail)
	}
	return f.Detail
}

// Outcome is the result of one backend call: either per-text candidate lists
// or a single failure. Exactly one of Predictions/Failure is meaningful.
type Outcome struct {
	// Predictions holds one candidate list per input text, in input order.
	// An empty candidate list is an empty prediction, not a failure.
	Predictions [][]RawItem
	Failure     *Failure
}

// Success builds a successful outcome
func Success(predictions [][]RawItem) Outcome {
	return Outcome{Predictions: predictions}
}

// Fail builds a failed outcome
func Fail(kind FailureKind, detail string) Outcome {
	return Outcome{Failure: &Failure{Kind: kind, Detail: detail}}
}

// FailStatus builds a failed outcome for a non-success status code
func FailStatus(status int, body string) Outcome {
	return Outcome{Failure: &Failure{Kind: FailureStatus, Status: status, Detail: body}}
}

// Failed reports whether the outcome is a failure
func (o Outcome) Failed() bool {
	return o.Failure != nil
}
