package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind labels a domain failure.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// AppError is a domain failure carrying the status code and message that
// must reach the client unchanged.
type AppError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// Validation reports malformed or missing input.
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// Unauthenticated reports a missing or invalid session.
func Unauthenticated(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: message}
}

// Forbidden reports a valid session acting on a resource it does not own.
// The status is 401 rather than 403, preserved for client compatibility.
func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Status: http.StatusUnauthorized, Message: message}
}

// NotFound reports an absent resource or user.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Conflict reports a duplicate unique field detected before the store does.
func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

// DuplicateKeyError is a persistence unique-constraint violation. The
// offending fields are carried as data, never parsed out of a message.
type DuplicateKeyError struct {
	Fields []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", strings.Join(e.Fields, ","))
}

// InvalidIDError is a persistence identifier that fails id syntax. Field is
// the request field the identifier came from.
type InvalidIDError struct {
	Field string
}

func (e *InvalidIDError) Error() string {
	return "invalid format of " + e.Field
}

// classify maps any failure to the (status, message) pair sent to the
// client. Internal detail never leaks: anything unrecognized becomes a bare
// 500.
func classify(err error) (int, string) {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return http.StatusBadRequest, "Duplicate field - " + strings.Join(dup.Fields, ",")
	}

	var badID *InvalidIDError
	if errors.As(err, &badID) {
		return http.StatusBadRequest, "Invalid Format of " + badID.Field
	}

	var app *AppError
	if errors.As(err, &app) {
		return app.Status, app.Message
	}

	return http.StatusInternalServerError, "Internal Server Error"
}
