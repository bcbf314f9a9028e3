package types

import (
	"errors"
	"fmt"
)

// ErrInvalidPreference marks a preference missing its required tour length
// or budget level. Surfaced to callers as a client error.
var ErrInvalidPreference = errors.New("preference must set tour length and budget level")

// NotFoundError reports a missing referenced entity. Kind is the entity
// name ("user", "place", "preference", "tour").
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func NewNotFound(kind string, id int64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// CompletionError wraps a failed or unusable completion-service exchange.
// It never leaves the planner; the deterministic fallback covers it.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion service: %v", e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
