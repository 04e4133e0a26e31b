package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Artifact Store Errors
// ============================================================================

var (
	ErrNoArtifactFound      = errors.New("no model artifact found")
	ErrSchemaMismatch       = errors.New("transform and model schema versions disagree")
	ErrFeatureCountMismatch = errors.New("transform and model feature counts disagree")
	ErrUnsupportedModel     = errors.New("unsupported model type")
)

// ============================================================================
// Inference Errors
// ============================================================================

var (
	ErrModelNotReady = errors.New("model not loaded")
)

// ============================================================================
// Fit-Time Errors
// ============================================================================

var (
	ErrInsufficientData = errors.New("insufficient data to fit")
)

// FieldError names one offending request field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports malformed, missing, or out-of-range request
// fields. Recovered at the handler boundary; never crashes the process.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid patient record"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "invalid patient record: " + strings.Join(parts, "; ")
}

// BatchValidationError wraps a ValidationError with the index of the
// failing batch element. One bad element fails the whole batch.
type BatchValidationError struct {
	Index int
	Err   *ValidationError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("input %d: %s", e.Index, e.Err.Error())
}

func (e *BatchValidationError) Unwrap() error { return e.Err }
