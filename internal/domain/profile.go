package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Profile
var (
	ErrEmptyProfileUserID = errors.New("profile user ID cannot be empty")
	ErrNegativeXP         = errors.New("xp must be greater than or equal to 0")
	ErrNegativeStreak     = errors.New("streak days must be greater than or equal to 0")
)

// Profile holds a user's global progression state: accumulated experience
// points and the daily activity streak. XP is monotonic non-decreasing;
// the streak only ever resets to 1 or increments by exactly 1.
type Profile struct {
	UserID         uuid.UUID `json:"user_id"`
	XP             int64     `json:"xp"`
	StreakDays     int       `json:"streak_days"`
	LastActivityAt time.Time `json:"last_activity_at"` // zero time until first activity
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProfile creates a fresh progression profile for a user.
// Profiles are created at signup, before any XP award.
func NewProfile(userID uuid.UUID, now time.Time) (*Profile, error) {
	profile := &Profile{
		UserID:         userID,
		XP:             0,
		StreakDays:     0,
		LastActivityAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the Profile has valid data.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrEmptyProfileUserID
	}

	if p.XP < 0 {
		return ErrNegativeXP
	}

	if p.StreakDays < 0 {
		return ErrNegativeStreak
	}

	return nil
}
