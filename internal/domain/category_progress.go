package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for CategoryProgress
var (
	ErrEmptyProgressUserID     = errors.New("category progress user ID cannot be empty")
	ErrEmptyProgressCategoryID = errors.New("category progress category ID cannot be empty")
	ErrInvalidLevel            = errors.New("level must be at least 1")
)

// CategoryProgress is a per-category rollup of the same XP accounting as
// Profile, keyed by (user, category). It is created lazily on the first
// XP award tagged with that category.
type CategoryProgress struct {
	UserID         uuid.UUID `json:"user_id"`
	CategoryID     uuid.UUID `json:"category_id"`
	XP             int64     `json:"xp"`
	Level          int       `json:"level"`
	CardsCompleted int       `json:"cards_completed"`
	CardsGold      int       `json:"cards_gold"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCategoryProgress creates an empty rollup for a (user, category) pair.
func NewCategoryProgress(userID, categoryID uuid.UUID, now time.Time) (*CategoryProgress, error) {
	progress := &CategoryProgress{
		UserID:     userID,
		CategoryID: categoryID,
		XP:         0,
		Level:      1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the CategoryProgress has valid data.
func (p *CategoryProgress) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if p.CategoryID == uuid.Nil {
		return ErrEmptyProgressCategoryID
	}

	if p.XP < 0 {
		return ErrNegativeXP
	}

	if p.Level < 1 {
		return ErrInvalidLevel
	}

	return nil
}
