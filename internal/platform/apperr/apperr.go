// Package apperr defines the error taxonomy shared by all domain
// services. Every error is terminal for the current operation; handlers
// translate them to HTTP status codes with HTTPError.
package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation (duplicate email,
	// username, license number, bill number).
	ErrConflict = errors.New("conflict")
	// ErrInvalidAmount indicates a negative monetary amount or tax.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrForbidden indicates a valid principal with a disallowed role or
	// a resource ownership mismatch.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated indicates a missing, invalid, or expired token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidInput indicates a request that fails field validation.
	ErrInvalidInput = errors.New("invalid input")
)

// HTTPStatus maps a taxonomy error to its response status code.
// Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// HTTPError converts a service error into an echo HTTPError with the
// mapped status code and the error's message.
func HTTPError(err error) *echo.HTTPError {
	return echo.NewHTTPError(HTTPStatus(err), err.Error())
}
