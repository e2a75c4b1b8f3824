package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewProfile(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	profile, err := NewProfile(userID, now)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if profile.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, profile.UserID)
	}

	if profile.XP != 0 {
		t.Errorf("Expected XP 0, got %d", profile.XP)
	}

	if profile.StreakDays != 0 {
		t.Errorf("Expected streak 0, got %d", profile.StreakDays)
	}

	if !profile.LastActivityAt.IsZero() {
		t.Errorf("Expected zero LastActivityAt, got %v", profile.LastActivityAt)
	}
}

func TestProfileValidate(t *testing.T) {
	if _, err := NewProfile(uuid.Nil, time.Now().UTC()); !errors.Is(err, ErrEmptyProfileUserID) {
		t.Errorf("Expected ErrEmptyProfileUserID, got %v", err)
	}

	profile := &Profile{UserID: uuid.New(), XP: -1}
	if err := profile.Validate(); !errors.Is(err, ErrNegativeXP) {
		t.Errorf("Expected ErrNegativeXP, got %v", err)
	}

	profile = &Profile{UserID: uuid.New(), StreakDays: -1}
	if err := profile.Validate(); !errors.Is(err, ErrNegativeStreak) {
		t.Errorf("Expected ErrNegativeStreak, got %v", err)
	}
}

func TestNewCategoryProgress(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	now := time.Now().UTC()

	progress, err := NewCategoryProgress(userID, categoryID, now)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.XP != 0 || progress.CardsCompleted != 0 || progress.CardsGold != 0 {
		t.Errorf("Expected empty rollup, got %+v", progress)
	}

	// An empty rollup is still level 1
	if progress.Level != 1 {
		t.Errorf("Expected level 1, got %d", progress.Level)
	}
}

func TestCategoryProgressValidate(t *testing.T) {
	now := time.Now().UTC()

	if _, err := NewCategoryProgress(uuid.Nil, uuid.New(), now); !errors.Is(err, ErrEmptyProgressUserID) {
		t.Errorf("Expected ErrEmptyProgressUserID, got %v", err)
	}

	if _, err := NewCategoryProgress(uuid.New(), uuid.Nil, now); !errors.Is(err, ErrEmptyProgressCategoryID) {
		t.Errorf("Expected ErrEmptyProgressCategoryID, got %v", err)
	}

	progress := &CategoryProgress{UserID: uuid.New(), CategoryID: uuid.New(), Level: 0}
	if err := progress.Validate(); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
}
