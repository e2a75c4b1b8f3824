package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewXpLedgerEntry(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	now := time.Now().UTC()

	entry, err := NewXpLedgerEntry(userID, 19, XpReasonCardRetained, AwardMetadata{
		CategoryID: &categoryID,
	}, now)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.ID == uuid.Nil {
		t.Error("Expected a generated entry ID")
	}

	if entry.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, entry.UserID)
	}

	if entry.Amount != 19 {
		t.Errorf("Expected amount 19, got %d", entry.Amount)
	}

	if entry.Reason != XpReasonCardRetained {
		t.Errorf("Expected reason %s, got %s", XpReasonCardRetained, entry.Reason)
	}

	if entry.CategoryID == nil || *entry.CategoryID != categoryID {
		t.Errorf("Expected category ID %s, got %v", categoryID, entry.CategoryID)
	}

	if entry.CardID != nil || entry.DeckID != nil {
		t.Errorf("Expected nil card and deck IDs, got %v and %v", entry.CardID, entry.DeckID)
	}

	if !entry.OccurredAt.Equal(now) {
		t.Errorf("Expected OccurredAt %v, got %v", now, entry.OccurredAt)
	}
}

func TestNewXpLedgerEntryZeroAmount(t *testing.T) {
	// A zero grant is still recorded
	entry, err := NewXpLedgerEntry(uuid.New(), 0, XpReasonCardForgot, AwardMetadata{}, time.Now().UTC())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if entry.Amount != 0 {
		t.Errorf("Expected amount 0, got %d", entry.Amount)
	}
}

func TestXpLedgerEntryValidate(t *testing.T) {
	now := time.Now().UTC()

	if _, err := NewXpLedgerEntry(uuid.Nil, 5, XpReasonCardView, AwardMetadata{}, now); !errors.Is(err, ErrEmptyLedgerUserID) {
		t.Errorf("Expected ErrEmptyLedgerUserID, got %v", err)
	}

	if _, err := NewXpLedgerEntry(uuid.New(), -1, XpReasonCardView, AwardMetadata{}, now); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("Expected ErrNegativeAmount, got %v", err)
	}

	if _, err := NewXpLedgerEntry(uuid.New(), 5, XpReason("CARD_SEEN"), AwardMetadata{}, now); !errors.Is(err, ErrInvalidXpReason) {
		t.Errorf("Expected ErrInvalidXpReason, got %v", err)
	}
}

func TestIsValidXpReason(t *testing.T) {
	valid := []XpReason{
		XpReasonCardView, XpReasonCardRetained, XpReasonCardForgot,
		XpReasonCardGold, XpReasonDeckComplete, XpReasonQuizSuccess,
		XpReasonStreak7, XpReasonStreak30, XpReasonStreakBonus,
	}
	for _, reason := range valid {
		if !IsValidXpReason(reason) {
			t.Errorf("Expected reason %q to be valid", reason)
		}
	}

	if IsValidXpReason("card_view") {
		t.Error("Expected lowercase reason to be invalid")
	}
}
