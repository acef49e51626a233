package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Detail identifies a single offending field in a request.
type Detail struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Error is a business error carrying the HTTP status it should surface as,
// plus optional field-level details for validation and conflict responses.
type Error struct {
	Status  int
	Message string
	Details []Detail
}

func (e *Error) Error() string { return e.Message }

func New(status int, message string, details ...Detail) *Error {
	return &Error{Status: status, Message: message, Details: details}
}

func Validation(message string, details ...Detail) *Error {
	return New(http.StatusBadRequest, message, details...)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, fmt.Sprintf("%s not found", what))
}

func Conflict(key, message string) *Error {
	return New(http.StatusConflict, message, Detail{Key: key, Message: message})
}

// From extracts an *Error, defaulting anything unclassified to a generic 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, "internal server error")
}
