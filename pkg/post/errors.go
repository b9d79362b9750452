package post

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers both a missing post and a post hidden by the
	// visibility policy; callers can't tell them apart.
	ErrNotFound = errors.New("post: not found")

	// ErrForbidden means the requester is known but lacks ownership or the
	// admin role for a mutation.
	ErrForbidden = errors.New("post: forbidden")

	// ErrConflict means a unique field (slug) collided.
	ErrConflict = errors.New("post: conflict")

	// ErrInternal wraps unexpected store failures; the original error is
	// logged, never returned to the caller.
	ErrInternal = errors.New("post: internal error")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level detail about malformed input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "post: validation failed: " + strings.Join(msgs, "; ")
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}
