package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tales-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps them to
// HTTP status codes.
var (
	// ErrGenerationFailed indicates the story pipeline did not produce a story.
	// The StoryServiceError carrying it has the pipeline's message.
	ErrGenerationFailed = errors.New("story generation failed")

	// ErrSaveFailed indicates a generated story could not be persisted.
	ErrSaveFailed = errors.New("error while saving the story")

	// ErrStoryNotFound indicates that the requested story does not exist.
	ErrStoryNotFound = errors.New("story not found")
)

// StoryServiceError wraps errors from the story service with context.
type StoryServiceError struct {
	// Operation is the operation that failed (e.g., "create_story")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StoryServiceError.
func (e *StoryServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("story service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("story service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoryServiceError) Unwrap() error {
	return e.Err
}

// NewStoryServiceError creates a new StoryServiceError.
// Store not-found errors are returned as ErrStoryNotFound without wrapping.
func NewStoryServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrStoryNotFound) || errors.Is(err, store.ErrStoryNotFound) {
		return ErrStoryNotFound
	}

	return &StoryServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
