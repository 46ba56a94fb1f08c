package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched through errors.Is by the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
)

// ValidationError describes one rejected input.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidationErrors collects every problem found in one input.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e ValidationErrors) Is(target error) bool { return target == ErrValidation }

// Invalid returns a single-problem validation error.
func Invalid(field, format string, args ...any) error {
	return ValidationErrors{{Field: field, Message: fmt.Sprintf(format, args...)}}
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StateError reports an operation the current state does not allow.
type StateError struct {
	Kind    string
	ID      any
	Message string
}

func (e StateError) Error() string {
	return fmt.Sprintf("%s %v: %s", e.Kind, e.ID, e.Message)
}

func (e StateError) Is(target error) bool { return target == ErrState }
