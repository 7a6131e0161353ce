// Package domain holds cross-cutting error values for the answering
// pipeline.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCompletionExhausted signals that every candidate model failed.
	ErrCompletionExhausted = errors.New("all completion models failed")
	// ErrEmptyCompletion signals a model returned an empty response.
	ErrEmptyCompletion = errors.New("empty completion response")
	// ErrCompletionProvider signals a completion provider failure.
	ErrCompletionProvider = errors.New("completion provider error")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
)

// CompletionExhaustedError wraps ErrCompletionExhausted with the last
// underlying model error, so callers can surface what finally went wrong.
type CompletionExhaustedError struct {
	Models []string
	Last   error
}

func (e *CompletionExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s: %d candidates tried", ErrCompletionExhausted.Error(), len(e.Models))
	}
	return fmt.Sprintf("%s: last error: %v", ErrCompletionExhausted.Error(), e.Last)
}

func (e *CompletionExhaustedError) Unwrap() error { return ErrCompletionExhausted }

// NewCompletionExhausted creates a CompletionExhaustedError.
func NewCompletionExhausted(models []string, last error) error {
	return &CompletionExhaustedError{Models: models, Last: last}
}
