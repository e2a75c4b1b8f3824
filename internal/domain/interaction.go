package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating represents the user's qualitative assessment of their recall
// of a card during a review.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// CardStatus represents the mastery tier of a card for a user. It is
// always derived from the interaction's counters and never stored
// independently of them.
type CardStatus string

// Possible card status values, from least to most mastered.
const (
	CardStatusNew      CardStatus = "new"
	CardStatusLearning CardStatus = "learning"
	CardStatusReview   CardStatus = "review"
	CardStatusMastered CardStatus = "mastered"
	CardStatusGold     CardStatus = "gold"
)

// AllCardStatuses lists every status in ladder order. Used by aggregate
// queries that report a count per status.
var AllCardStatuses = []CardStatus{
	CardStatusNew,
	CardStatusLearning,
	CardStatusReview,
	CardStatusMastered,
	CardStatusGold,
}

// Common validation errors for Interaction
var (
	ErrEmptyInteractionUserID = errors.New("interaction user ID cannot be empty")
	ErrEmptyInteractionCardID = errors.New("interaction card ID cannot be empty")
	ErrInvalidIntervalDays    = errors.New("interval days must be greater than or equal to 0")
	ErrInvalidRepetitions     = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidEaseFactor      = errors.New("ease factor must be at least 1.3")
	ErrInvalidRating          = errors.New("invalid rating")
)

// MinEaseFactor is the lower bound of the ease factor for any interaction.
const MinEaseFactor = 1.3

// DefaultEaseFactor is the ease factor assigned to a card on first exposure.
const DefaultEaseFactor = 2.5

// InteractionKey identifies the single interaction row for a user and card.
// Every load-or-create and every row lock is scoped to exactly one key.
type InteractionKey struct {
	UserID uuid.UUID
	CardID uuid.UUID
}

// Interaction tracks a user's spaced repetition state for a specific card.
// There is at most one interaction per (user, card) pair. It is mutated
// only by the review scheduler.
type Interaction struct {
	UserID               uuid.UUID  `json:"user_id"`
	CardID               uuid.UUID  `json:"card_id"`
	Status               CardStatus `json:"status"`
	EaseFactor           float64    `json:"ease_factor"`
	IntervalDays         int        `json:"interval_days"`
	Repetitions          int        `json:"repetitions"`
	ConsecutiveSuccesses int        `json:"consecutive_successes"`
	NextReviewAt         time.Time  `json:"next_review_at"`
	LastReviewedAt       time.Time  `json:"last_reviewed_at"` // zero time until first review
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewInteraction creates the interaction state for a card's first exposure.
// The card starts in status "new" and is available for review immediately.
func NewInteraction(userID, cardID uuid.UUID, now time.Time) (*Interaction, error) {
	interaction := &Interaction{
		UserID:               userID,
		CardID:               cardID,
		Status:               CardStatusNew,
		EaseFactor:           DefaultEaseFactor,
		IntervalDays:         0,
		Repetitions:          0,
		ConsecutiveSuccesses: 0,
		NextReviewAt:         now,
		LastReviewedAt:       time.Time{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := interaction.Validate(); err != nil {
		return nil, err
	}

	return interaction, nil
}

// Key returns the composite key identifying this interaction's row.
func (i *Interaction) Key() InteractionKey {
	return InteractionKey{UserID: i.UserID, CardID: i.CardID}
}

// Validate checks if the Interaction has valid data.
// Returns an error if any field fails validation.
func (i *Interaction) Validate() error {
	if i.UserID == uuid.Nil {
		return ErrEmptyInteractionUserID
	}

	if i.CardID == uuid.Nil {
		return ErrEmptyInteractionCardID
	}

	if i.IntervalDays < 0 {
		return ErrInvalidIntervalDays
	}

	if i.Repetitions < 0 || i.ConsecutiveSuccesses < 0 {
		return ErrInvalidRepetitions
	}

	if i.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// IsValidRating reports whether the given rating is one of the four
// accepted values. Unknown ratings are a caller contract violation and
// must be rejected before reaching the scheduler.
func IsValidRating(rating Rating) bool {
	switch rating {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}
