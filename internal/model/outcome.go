package model

import "fmt"

// ErrorKind classifies an extraction that did not produce a record.
type ErrorKind string

const (
	ErrorNotFound           ErrorKind = "not-found"
	ErrorUnrated            ErrorKind = "unrated"
	ErrorUnparseableAddress ErrorKind = "unparseable-address"
	ErrorGeocodeFailed      ErrorKind = "geocode-failed"
)

// StatusError is the status reported for every ErrorOutcome.
const StatusError = "error"

// ErrorOutcome is a typed extraction failure returned as data.
type ErrorOutcome struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ErrorOutcome) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Outcome is the result of extracting one identifier: exactly one of
// Record and Error is set.
type Outcome struct {
	ID     string          `json:"id"`
	Record *BuildingRecord `json:"record,omitempty"`
	Error  *ErrorOutcome   `json:"error,omitempty"`
}

// Success wraps a completed record.
func Success(id string, rec *BuildingRecord) Outcome {
	rec.Status = StatusSuccess
	return Outcome{ID: id, Record: rec}
}

// Failure wraps an error outcome.
func Failure(id string, kind ErrorKind, message string) Outcome {
	return Outcome{ID: id, Error: &ErrorOutcome{Kind: kind, Message: message}}
}

// OK reports whether the outcome carries a record.
func (o Outcome) OK() bool {
	return o.Record != nil && o.Error == nil
}

// Status returns "success" or "error".
func (o Outcome) Status() string {
	if o.OK() {
		return StatusSuccess
	}
	return StatusError
}
