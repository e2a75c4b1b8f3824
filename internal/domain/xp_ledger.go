package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// XpReason identifies why an XP award was granted.
type XpReason string

// Possible XP award reasons
const (
	XpReasonCardView     XpReason = "CARD_VIEW"
	XpReasonCardRetained XpReason = "CARD_RETAINED"
	XpReasonCardForgot   XpReason = "CARD_FORGOT"
	XpReasonCardGold     XpReason = "CARD_GOLD"
	XpReasonDeckComplete XpReason = "DECK_COMPLETE"
	XpReasonQuizSuccess  XpReason = "QUIZ_SUCCESS"
	XpReasonStreak7      XpReason = "STREAK_7"
	XpReasonStreak30     XpReason = "STREAK_30"
	XpReasonStreakBonus  XpReason = "STREAK_BONUS"
)

// Common validation errors for XpLedgerEntry
var (
	ErrEmptyLedgerUserID = errors.New("ledger entry user ID cannot be empty")
	ErrNegativeAmount    = errors.New("ledger entry amount must be greater than or equal to 0")
	ErrInvalidXpReason   = errors.New("invalid xp reason")
)

// AwardMetadata carries the optional entity references attached to an XP
// award. A non-nil CategoryID routes the award into the per-category rollup.
type AwardMetadata struct {
	CardID     *uuid.UUID `json:"card_id,omitempty"`
	DeckID     *uuid.UUID `json:"deck_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// XpLedgerEntry records a single XP award. Entries are append-only and
// immutable once written; the activity heatmap is aggregated from them.
type XpLedgerEntry struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Amount     int64      `json:"amount"`
	Reason     XpReason   `json:"reason"`
	CardID     *uuid.UUID `json:"card_id,omitempty"`
	DeckID     *uuid.UUID `json:"deck_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewXpLedgerEntry creates a ledger entry for a single award.
// A zero amount is still a valid entry; every award is recorded.
func NewXpLedgerEntry(
	userID uuid.UUID,
	amount int64,
	reason XpReason,
	metadata AwardMetadata,
	occurredAt time.Time,
) (*XpLedgerEntry, error) {
	entry := &XpLedgerEntry{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     amount,
		Reason:     reason,
		CardID:     metadata.CardID,
		DeckID:     metadata.DeckID,
		CategoryID: metadata.CategoryID,
		OccurredAt: occurredAt,
		CreatedAt:  occurredAt,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the XpLedgerEntry has valid data.
func (e *XpLedgerEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return ErrEmptyLedgerUserID
	}

	if e.Amount < 0 {
		return ErrNegativeAmount
	}

	if !IsValidXpReason(e.Reason) {
		return ErrInvalidXpReason
	}

	return nil
}

// IsValidXpReason reports whether the given reason is a known award reason.
func IsValidXpReason(reason XpReason) bool {
	switch reason {
	case XpReasonCardView, XpReasonCardRetained, XpReasonCardForgot,
		XpReasonCardGold, XpReasonDeckComplete, XpReasonQuizSuccess,
		XpReasonStreak7, XpReasonStreak30, XpReasonStreakBonus:
		return true
	default:
		return false
	}
}
