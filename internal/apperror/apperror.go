// Package apperror defines the error kinds that cross layer boundaries.
//
// Repositories and services return these; only the handler layer decides how
// each kind is shown to a visitor (a 404 page, a flash message, a form
// re-render). Check the kind with errors.Is against the sentinels below and
// pull the details out with errors.As into *AppError.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrIntegrity   = errors.New("referential integrity violation")
	ErrPersistence = errors.New("persistence failure")
)

// FieldError is one field-level validation message.
type FieldError struct {
	Field   string
	Message string
}

type AppError struct {
	Err     error        // kind sentinel
	Message string       // Human-readable error message
	Field   string       // Optional: field causing the error
	Fields  []FieldError // Optional: every failing field
	Cause   error        // Optional: underlying store/driver error, never shown to visitors
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind sentinel and the cause, so errors.Is works for
// the kind and errors.As can still reach a driver error.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// FieldMessages indexes Fields by field name. The first message for a field wins.
func (e *AppError) FieldMessages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Invalid bundles several field errors into one validation error.
func Invalid(fields []FieldError) *AppError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	e := &AppError{
		Err:     ErrValidation,
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
	}
	if len(fields) == 1 {
		e.Field = fields[0].Field
	}
	return e
}

// Integrity reports a write rejected because it referenced a missing row.
func Integrity(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrIntegrity,
		Message: message,
		Cause:   cause,
	}
}

// PersistenceFailed wraps a store error that happened after validation passed.
// op names the attempted operation, e.g. "creating venue".
func PersistenceFailed(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: op + " failed",
		Cause:   cause,
	}
}

// Is reports whether err is an *AppError of any kind.
func Is(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}
