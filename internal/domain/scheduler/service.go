package scheduler

import (
	"errors"
	"time"

	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// Common errors
var (
	ErrNilInteraction = errors.New("interaction cannot be nil")
	ErrInvalidRating  = errors.New("invalid rating")
)

// Service defines the interface for review scheduling operations.
type Service interface {
	// CalculateNextReview computes the next interaction state for a
	// review rating. The returned interaction is a new value; the input
	// is not modified. The caller supplies now so a single operation
	// never reads the clock twice.
	CalculateNextReview(
		interaction *domain.Interaction,
		rating domain.Rating,
		now time.Time,
	) (*domain.Interaction, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduler service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduler service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	interaction *domain.Interaction,
	rating domain.Rating,
	now time.Time,
) (*domain.Interaction, error) {
	if interaction == nil {
		return nil, ErrNilInteraction
	}

	if !domain.IsValidRating(rating) {
		return nil, ErrInvalidRating
	}

	return calculateNextState(interaction, rating, now, s.params), nil
}
