// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"net/http"

	"github.com/wikilearn/wikilearn-api/internal/service/auth"
	"github.com/wikilearn/wikilearn-api/internal/service/progression"
	"github.com/wikilearn/wikilearn-api/internal/service/review"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, progression.ErrProfileNotFound),
		errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrInteractionNotFound),
		errors.Is(err, store.ErrCategoryProgressNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, progression.ErrInvalidReason),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Concurrent writers lost the race; the client may retry
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, progression.ErrProfileNotFound),
		errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case errors.Is(err, store.ErrInteractionNotFound):
		return "Card review state not found"

	case errors.Is(err, store.ErrCategoryProgressNotFound):
		return "Category progress not found"

	case errors.Is(err, review.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, progression.ErrInvalidReason):
		return "Invalid award reason"

	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrDuplicate):
		return "Conflicting update, please retry"

	default:
		return "An unexpected error occurred"
	}
}
