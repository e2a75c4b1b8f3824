// Package progression implements the progression engine service: XP
// awards with streak scaling, daily streak maintenance, level stats and
// the activity heatmap.
package progression

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// AwardResult describes the outcome of a single XP award.
type AwardResult struct {
	// GrantedXP is the amount actually granted after streak scaling.
	GrantedXP int64 `json:"granted_xp"`
	// NewTotalXP is the user's lifetime XP after the award.
	NewTotalXP int64 `json:"new_total_xp"`
	// Level is the user's level after the award.
	Level int `json:"level"`
	// LevelUp is true when the award pushed the user over a level boundary.
	LevelUp bool `json:"level_up"`
}

// StreakResult describes the outcome of a streak update.
type StreakResult struct {
	// StreakDays is the streak length after the update.
	StreakDays int `json:"streak_days"`
	// Extended is true when the update changed the streak. A repeat
	// activity on the same UTC day leaves the streak untouched.
	Extended bool `json:"extended"`
	// BonusXP is the milestone bonus granted by this update, zero when
	// no milestone was crossed.
	BonusXP int64 `json:"bonus_xp"`
}

// XpStats is the aggregate progression snapshot for a user.
type XpStats struct {
	TotalXP             int64                      `json:"total_xp"`
	Level               int                        `json:"level"`
	XPForNextLevel      int64                      `json:"xp_for_next_level"`
	ProgressToNextLevel float64                    `json:"progress_to_next_level"`
	StreakDays          int                        `json:"streak_days"`
	StreakMultiplier    float64                    `json:"streak_multiplier"`
	Categories          []*domain.CategoryProgress `json:"categories"`
}

// ProgressionService provides methods for awarding XP and reading
// progression state.
type ProgressionService interface {
	// AwardXp grants XP to a user for a reason. The base reward is
	// scaled by the current streak multiplier when the reason is
	// streak-eligible and rounded half up. Every award appends a
	// ledger entry; awards carrying a category also update that
	// category's rollup. The whole award is one transaction with the
	// profile row as the lock root.
	//
	// Returns:
	//   - (*AwardResult, nil): the granted amount and new totals
	//   - (nil, ErrInvalidReason): if the reason is not a known value
	//   - (nil, ErrProfileNotFound): if the user has no profile
	AwardXp(
		ctx context.Context,
		userID uuid.UUID,
		reason domain.XpReason,
		metadata domain.AwardMetadata,
	) (*AwardResult, error)

	// UpdateStreak advances the user's daily streak for an activity at
	// the current time. Days are compared as UTC calendar dates: the
	// first activity starts the streak at 1, a repeat on the same day
	// is a no-op, the next day increments, and a gap of more than one
	// day resets to 1. Reaching exactly 7 or 30 days grants the
	// milestone bonus within the same transaction.
	//
	// Returns ErrProfileNotFound if the user has no profile.
	UpdateStreak(ctx context.Context, userID uuid.UUID) (*StreakResult, error)

	// GetXpStats returns the aggregate progression snapshot for a user:
	// totals, level progress, streak state and per-category rollups
	// ordered by XP descending.
	GetXpStats(ctx context.Context, userID uuid.UUID) (*XpStats, error)

	// GetActivityHeatmap returns per-day award counts for the trailing
	// 365 UTC days, oldest first. Days without activity are omitted.
	GetActivityHeatmap(ctx context.Context, userID uuid.UUID) ([]store.DailyActivity, error)
}

// Common error types for ProgressionService
var (
	// ErrInvalidReason indicates an unknown award reason was provided.
	ErrInvalidReason = errors.New("invalid award reason")

	// ErrProfileNotFound indicates the user has no progression profile.
	ErrProfileNotFound = errors.New("profile not found")
)

// ServiceError wraps errors from the progression service with additional
// context so consumers can differentiate failures with errors.As instead
// of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "award_xp")
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

// NewAwardXpError returns a new ServiceError for the award_xp operation.
func NewAwardXpError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "award_xp",
		Message:   message,
		Err:       err,
	}
}

// NewUpdateStreakError returns a new ServiceError for the update_streak operation.
func NewUpdateStreakError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "update_streak",
		Message:   message,
		Err:       err,
	}
}
