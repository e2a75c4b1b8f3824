// Package review implements the review scheduling service: it applies
// the spaced repetition algorithm to interactions and serves the review
// queue queries.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// List limits for the review queue queries.
const (
	// DefaultListLimit is applied when the caller passes a non-positive limit.
	DefaultListLimit = 20

	// MaxListLimit caps the number of interactions returned per query.
	MaxListLimit = 100
)

// ReviewService provides methods for processing card reviews and reading
// the review queue.
type ReviewService interface {
	// ProcessReview applies a review rating to the interaction for
	// (userID, cardID) and persists the new scheduling state.
	//
	// The first review of a card creates the interaction with default
	// scheduling state before applying the rating. The load (or create)
	// and the save happen in one transaction with a row lock, so
	// concurrent reviews of the same card serialize.
	//
	// Returns:
	//   - (*domain.Interaction, nil): the updated interaction
	//   - (nil, ErrInvalidRating): if the rating is not a known value
	//   - (nil, error): any other error, typically from the database
	ProcessReview(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		rating domain.Rating,
	) (*domain.Interaction, error)

	// GetDueCards retrieves interactions in review status whose next
	// review time has passed, soonest first. A non-positive limit uses
	// DefaultListLimit; limits above MaxListLimit are clamped.
	GetDueCards(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Interaction, error)

	// GetLearningCards retrieves interactions in learning status,
	// ordered by next review time ascending, with the same limit rules
	// as GetDueCards.
	GetLearningCards(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Interaction, error)

	// GetUserProgress returns the number of the user's cards in each
	// status. Every status is present, zero-valued when empty.
	GetUserProgress(ctx context.Context, userID uuid.UUID) (map[domain.CardStatus]int, error)
}

// Common error types for ReviewService
var (
	// ErrInvalidRating indicates an unknown review rating was provided.
	ErrInvalidRating = errors.New("invalid rating")
)

// ServiceError wraps errors from the review service with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "process_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewProcessReviewError returns a new ServiceError for the process_review operation.
func NewProcessReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "process_review",
		Message:   message,
		Err:       err,
	}
}
