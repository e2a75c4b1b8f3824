package scheduler

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

const floatTolerance = 1e-9

func newTestInteraction(t *testing.T) *domain.Interaction {
	t.Helper()
	interaction, err := domain.NewInteraction(uuid.New(), uuid.New(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create interaction: %v", err)
	}
	return interaction
}

func TestQualityForRating(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		rating   domain.Rating
		expected int
	}{
		{domain.RatingAgain, 0},
		{domain.RatingHard, 2},
		{domain.RatingGood, 4},
		{domain.RatingEasy, 5},
	}

	for _, tc := range testCases {
		if got := qualityForRating(tc.rating); got != tc.expected {
			t.Errorf("Expected quality %d for rating %s, got %d", tc.expected, tc.rating, got)
		}
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{
			name:     "Again drops ease factor sharply",
			current:  2.5,
			quality:  0,
			expected: 1.7, // 2.5 + (0.1 - 5*(0.08 + 5*0.02)) = 2.5 - 0.8
		},
		{
			name:     "Hard drops ease factor moderately",
			current:  2.5,
			quality:  2,
			expected: 2.18, // 2.5 + (0.1 - 3*(0.08 + 3*0.02)) = 2.5 - 0.32
		},
		{
			name:     "Good leaves ease factor unchanged",
			current:  2.5,
			quality:  4,
			expected: 2.5, // 0.1 - 1*(0.08 + 1*0.02) = 0
		},
		{
			name:     "Easy raises ease factor",
			current:  2.5,
			quality:  5,
			expected: 2.6,
		},
		{
			name:     "Floor holds at minimum",
			current:  1.3,
			quality:  0,
			expected: 1.3,
		},
		{
			name:     "Drop near the floor is clamped",
			current:  1.5,
			quality:  2,
			expected: 1.3, // 1.5 - 0.32 = 1.18 -> clamped
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewEaseFactor(tc.current, tc.quality, params)

			if math.Abs(got-tc.expected) > floatTolerance {
				t.Errorf("Expected ease factor %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestEaseFactorNeverBelowFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	// No sequence of qualities can push the ease factor under the floor.
	ef := 2.5
	qualities := []int{0, 0, 2, 0, 2, 0, 0, 0, 2, 0}
	for _, q := range qualities {
		ef = calculateNewEaseFactor(ef, q, params)
		if ef < params.MinEaseFactor {
			t.Fatalf("Ease factor %f fell below floor %f", ef, params.MinEaseFactor)
		}
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  int
		reps     int
		ef       float64
		quality  int
		expected int
	}{
		{
			name:     "Failure resets interval",
			current:  15,
			reps:     3,
			ef:       2.5,
			quality:  0,
			expected: 0,
		},
		{
			name:     "Hard is still a failure",
			current:  15,
			reps:     3,
			ef:       2.5,
			quality:  2,
			expected: 0,
		},
		{
			name:     "First success graduates to one day",
			current:  0,
			reps:     0,
			ef:       2.5,
			quality:  4,
			expected: 1,
		},
		{
			name:     "Second success graduates to six days",
			current:  1,
			reps:     1,
			ef:       2.5,
			quality:  4,
			expected: 6,
		},
		{
			name:     "Third success grows by ease factor",
			current:  6,
			reps:     2,
			ef:       2.5,
			quality:  4,
			expected: 15, // 6 * 2.5
		},
		{
			name:     "Half days round up",
			current:  15,
			reps:     3,
			ef:       2.5,
			quality:  4,
			expected: 38, // 15 * 2.5 = 37.5
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.current, tc.reps, tc.ef, tc.quality, params)

			if got != tc.expected {
				t.Errorf("Expected interval %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	reviewed := time.Now().UTC()

	testCases := []struct {
		name     string
		reps     int
		interval int
		consec   int
		lastAt   time.Time
		expected domain.CardStatus
	}{
		{
			name:     "Untouched card is new",
			expected: domain.CardStatusNew,
		},
		{
			name:     "One repetition is learning",
			reps:     1,
			interval: 1,
			consec:   1,
			lastAt:   reviewed,
			expected: domain.CardStatusLearning,
		},
		{
			name:     "Two repetitions is review",
			reps:     2,
			interval: 6,
			consec:   2,
			lastAt:   reviewed,
			expected: domain.CardStatusReview,
		},
		{
			name:     "Three week interval is mastered",
			reps:     4,
			interval: 21,
			consec:   4,
			lastAt:   reviewed,
			expected: domain.CardStatusMastered,
		},
		{
			name:     "Mastered plus five straight successes is gold",
			reps:     5,
			interval: 38,
			consec:   5,
			lastAt:   reviewed,
			expected: domain.CardStatusGold,
		},
		{
			name:     "Long interval without the success streak stays mastered",
			reps:     7,
			interval: 90,
			consec:   4,
			lastAt:   reviewed,
			expected: domain.CardStatusMastered,
		},
		{
			name:     "Lapsed card falls back to learning, never new",
			reps:     0,
			interval: 0,
			consec:   0,
			lastAt:   reviewed,
			expected: domain.CardStatusLearning,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveStatus(tc.reps, tc.interval, tc.consec, tc.lastAt, params)

			if got != tc.expected {
				t.Errorf("Expected status %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestCalculateNextStateGoodSeries(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	interaction := newTestInteraction(t)

	// Four GOOD reviews in a row from a fresh card at ease factor 2.5.
	expectedIntervals := []int{1, 6, 15, 38}

	for i, want := range expectedIntervals {
		interaction = calculateNextState(interaction, domain.RatingGood, now, params)

		if interaction.IntervalDays != want {
			t.Fatalf("Review %d: expected interval %d, got %d", i+1, want, interaction.IntervalDays)
		}

		if interaction.EaseFactor != 2.5 {
			t.Fatalf("Review %d: GOOD should leave ease factor at 2.5, got %f", i+1, interaction.EaseFactor)
		}

		if !interaction.LastReviewedAt.Equal(now) {
			t.Fatalf("Review %d: expected LastReviewedAt %v, got %v", i+1, now, interaction.LastReviewedAt)
		}

		expectedNext := now.AddDate(0, 0, want)
		if !interaction.NextReviewAt.Equal(expectedNext) {
			t.Fatalf("Review %d: expected NextReviewAt %v, got %v", i+1, expectedNext, interaction.NextReviewAt)
		}

		now = interaction.NextReviewAt
	}

	if interaction.Repetitions != 4 {
		t.Errorf("Expected 4 repetitions, got %d", interaction.Repetitions)
	}
}

func TestStatusLadderUnderRepeatedGood(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	interaction := newTestInteraction(t)

	// Statuses climb the ladder and never skip backwards on success:
	// intervals 1, 6, 15, 38 put the card in review after review 3 and in
	// mastered territory after review 4; the fifth success makes it gold.
	expected := []domain.CardStatus{
		domain.CardStatusLearning, // reps 1
		domain.CardStatusReview,   // reps 2
		domain.CardStatusReview,   // interval 15 still under 21
		domain.CardStatusMastered, // interval 38, only 4 straight successes
		domain.CardStatusGold,     // 5 straight successes at interval >= 21
	}

	for i, want := range expected {
		interaction = calculateNextState(interaction, domain.RatingGood, now, params)
		if interaction.Status != want {
			t.Fatalf("Review %d: expected status %s, got %s", i+1, want, interaction.Status)
		}
		now = interaction.NextReviewAt
	}
}

func TestCalculateNextStateFailureResets(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, rating := range []domain.Rating{domain.RatingAgain, domain.RatingHard} {
		interaction := newTestInteraction(t)

		// Build up some state first.
		for i := 0; i < 5; i++ {
			interaction = calculateNextState(interaction, domain.RatingGood, now, params)
			now = interaction.NextReviewAt
		}
		if interaction.Status != domain.CardStatusGold {
			t.Fatalf("Setup: expected gold card, got %s", interaction.Status)
		}

		easeBefore := interaction.EaseFactor
		interaction = calculateNextState(interaction, rating, now, params)

		if interaction.Repetitions != 0 {
			t.Errorf("%s: expected repetitions reset to 0, got %d", rating, interaction.Repetitions)
		}
		if interaction.IntervalDays != 0 {
			t.Errorf("%s: expected interval reset to 0, got %d", rating, interaction.IntervalDays)
		}
		if interaction.ConsecutiveSuccesses != 0 {
			t.Errorf("%s: expected consecutive successes reset to 0, got %d", rating, interaction.ConsecutiveSuccesses)
		}
		if interaction.EaseFactor >= easeBefore {
			t.Errorf("%s: expected ease factor below %f, got %f", rating, easeBefore, interaction.EaseFactor)
		}

		// Card is due immediately and drops to learning, never back to new.
		if !interaction.NextReviewAt.Equal(now) {
			t.Errorf("%s: expected card due immediately, got %v", rating, interaction.NextReviewAt)
		}
		if interaction.Status != domain.CardStatusLearning {
			t.Errorf("%s: expected status learning after lapse, got %s", rating, interaction.Status)
		}
	}
}

func TestCalculateNextStateDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	original := newTestInteraction(t)
	saved := *original

	_ = calculateNextState(original, domain.RatingEasy, now, params)

	if *original != saved {
		t.Error("calculateNextState mutated its input")
	}
}

func TestEaseFactorFloorOverRatingSequences(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	sequences := [][]domain.Rating{
		{domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain},
		{domain.RatingHard, domain.RatingHard, domain.RatingHard, domain.RatingHard, domain.RatingHard},
		{domain.RatingAgain, domain.RatingGood, domain.RatingAgain, domain.RatingHard, domain.RatingAgain},
		{domain.RatingEasy, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain, domain.RatingAgain},
	}

	for _, seq := range sequences {
		interaction := newTestInteraction(t)
		for _, rating := range seq {
			interaction = calculateNextState(interaction, rating, now, params)
			if interaction.EaseFactor < params.MinEaseFactor {
				t.Fatalf("Sequence %v: ease factor %f fell below floor", seq, interaction.EaseFactor)
			}
			if err := interaction.Validate(); err != nil {
				t.Fatalf("Sequence %v: invalid interaction: %v", seq, err)
			}
			now = now.AddDate(0, 0, 1)
		}
	}
}
