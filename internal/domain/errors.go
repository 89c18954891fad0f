package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned when an operation needs a signed-in caller.
	ErrUnauthorized = errors.New("you must be logged in")
	// ErrBadRequest indicates a required parameter is missing.
	ErrBadRequest = errors.New("bad request")
	// ErrGameNotFound is returned when no game matches a join code.
	ErrGameNotFound = errors.New("game not found")
	// ErrJoinCodeTaken is returned when another game already uses the join code.
	ErrJoinCodeTaken = errors.New("join code already in use")
	// ErrSessionNotFound indicates an unknown or expired session token.
	ErrSessionNotFound = errors.New("session not found")
)

// FieldIssue describes one invalid input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field-level problem found in an input.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid input"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Add appends an issue for field.
func (e *ValidationError) Add(field, message string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Message: message})
}

// OrNil returns e when it has issues, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// ErrorKind is the stable tag reported to clients alongside an error message.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "Unauthorized"
	KindValidation   ErrorKind = "ValidationError"
	KindBadRequest   ErrorKind = "BadRequest"
	KindNotFound     ErrorKind = "NotFound"
	KindConflict     ErrorKind = "Conflict"
	KindPersistence  ErrorKind = "PersistenceError"
)

// KindOf classifies err. Anything unrecognised is treated as a persistence failure.
func KindOf(err error) ErrorKind {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSessionNotFound):
		return KindUnauthorized
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrGameNotFound):
		return KindNotFound
	case errors.Is(err, ErrJoinCodeTaken):
		return KindConflict
	default:
		return KindPersistence
	}
}
