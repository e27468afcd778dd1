package internalerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestEmptyInputError(t *testing.T) {
	err := fmt.Errorf("load: %w", &EmptyInputError{Stage: "ingest"})
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("should match ErrEmptyInput")
	}
	if got := (&EmptyInputError{}).Error(); got != "empty input" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMissingFieldError(t *testing.T) {
	var err error = &MissingFieldError{Fields: []string{"comment_text", "provision_reference"}}
	if !errors.Is(err, ErrMissingField) {
		t.Error("should match ErrMissingField")
	}
	if got := err.Error(); got != "missing required field: comment_text, provision_reference" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSentimentModelError(t *testing.T) {
	cause := errors.New("lexicon unavailable")
	err := error(&SentimentModelError{RecordID: "c-7", Err: cause})
	if !errors.Is(err, ErrSentimentModel) || !errors.Is(err, cause) {
		t.Error("should match both the sentinel and the cause")
	}
	if got := err.Error(); got != "sentiment model failure for record c-7: lexicon unavailable" {
		t.Errorf("Error() = %q", got)
	}
}
