package internalerr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrMissingField   = errors.New("missing required field")
	ErrSentimentModel = errors.New("sentiment model failure")
	ErrNotFound       = errors.New("not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// EmptyInputError reports a batch that is empty, or became empty after
// required-field filtering.
type EmptyInputError struct {
	Stage string // where the batch was found empty
}

func (e *EmptyInputError) Error() string {
	if e.Stage == "" {
		return ErrEmptyInput.Error()
	}
	return fmt.Sprintf("%s: %s", e.Stage, ErrEmptyInput)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

// MissingFieldError lists every required column absent from an input schema.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// SentimentModelError wraps a polarity model failure for a single record.
type SentimentModelError struct {
	RecordID string
	Err      error
}

func (e *SentimentModelError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %v", ErrSentimentModel, e.Err)
	}
	return fmt.Sprintf("%s for record %s: %v", ErrSentimentModel, e.RecordID, e.Err)
}

// Unwrap exposes both the sentinel and the underlying model error.
func (e *SentimentModelError) Unwrap() []error { return []error{ErrSentimentModel, e.Err} }
