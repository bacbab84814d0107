package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"index not found", NewIndexNotFoundError("clinical_notes"), ErrIndexNotFound},
		{"index already exists", NewIndexAlreadyExistsError("clinical_notes"), ErrIndexAlreadyExists},
		{"document not found", NewDocumentNotFoundError("doc1", "clinical_notes"), ErrDocumentNotFound},
		{"validation", NewValidationError("name", "cannot be empty"), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("Expected %v to match sentinel %v", tt.err, tt.sentinel)
			}
		})
	}
}

func TestErrorsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading index: %w", NewIndexNotFoundError("clinical_notes"))
	if !errors.Is(wrapped, ErrIndexNotFound) {
		t.Error("Expected wrapped error to match ErrIndexNotFound")
	}

	var indexErr *IndexNotFoundError
	if !errors.As(wrapped, &indexErr) {
		t.Fatal("Expected errors.As to recover IndexNotFoundError")
	}
	if indexErr.IndexName != "clinical_notes" {
		t.Errorf("Expected index name 'clinical_notes', got '%s'", indexErr.IndexName)
	}
}

func TestErrorMessages(t *testing.T) {
	if got := NewDocumentNotFoundError("doc1").Error(); got != "document with ID 'doc1' not found" {
		t.Errorf("Unexpected message: %s", got)
	}
	if got := NewDocumentNotFoundError("doc1", "notes").Error(); got != "document with ID 'doc1' not found in index 'notes'" {
		t.Errorf("Unexpected message: %s", got)
	}
	if got := NewValidationError("", "bad request").Error(); got != "validation error: bad request" {
		t.Errorf("Unexpected message: %s", got)
	}
}
