package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError is a client-caused failure (missing fields, unavailable
// products, insufficient stock, bad status values).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports an unknown order, product or user reference.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// UnauthorizedError is returned for missing or invalid credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

// ForbiddenError is returned when an authenticated user lacks the required role.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) error {
	return &UnauthorizedError{Message: msg}
}

func Forbidden(msg string) error {
	return &ForbiddenError{Message: msg}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// HTTPStatus maps an error kind to the status code the API responds with.
// Unclassified errors are 500.
func HTTPStatus(err error) int {
	var (
		v  *ValidationError
		nf *NotFoundError
		u  *UnauthorizedError
		f  *ForbiddenError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &u):
		return http.StatusUnauthorized
	case errors.As(err, &f):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
