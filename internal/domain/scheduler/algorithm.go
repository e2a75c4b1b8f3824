package scheduler

import (
	"math"
	"time"

	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// qualityForRating maps the four user-facing ratings onto the 0-5 quality
// scale used by the SM-2 ease factor formula. The mapping is a fixed
// contract with the caller, not a tunable parameter.
func qualityForRating(rating domain.Rating) int {
	switch rating {
	case domain.RatingAgain:
		return 0
	case domain.RatingHard:
		return 2
	case domain.RatingGood:
		return 4
	default: // domain.RatingEasy
		return 5
	}
}

// calculateNewEaseFactor applies the SM-2 ease factor update for the given
// quality and clamps the result at the configured floor.
//
// The update is applied on every review, pass or fail: a failed recall
// makes the card harder (lower ease factor, slower interval growth) even
// though its interval is reset separately.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	diff := float64(5 - quality)
	newEF := currentEF + (0.1 - diff*(0.08+diff*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Failed reviews (quality below the success threshold) reset the interval
// to 0, making the card due immediately. Successful reviews graduate
// through two fixed intervals before growing multiplicatively by the
// card's ease factor. The ease factor used here is the one in effect
// before this review's ease update.
func calculateNewInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	quality int,
	params *Params,
) int {
	if quality < params.SuccessQuality {
		return 0
	}

	switch repetitions {
	case 0:
		return params.FirstIntervalDays
	case 1:
		return params.SecondIntervalDays
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// deriveStatus computes the card's mastery tier from the post-review
// counters. The status is a pure function of these inputs and is
// recomputed after every mutation; it is never set independently.
//
// Evaluation order matters: the first matching tier wins. A lapsed card
// keeps its non-zero LastReviewedAt, so it can fall back to "learning"
// but never to "new".
func deriveStatus(
	repetitions int,
	intervalDays int,
	consecutiveSuccesses int,
	lastReviewedAt time.Time,
	params *Params,
) domain.CardStatus {
	switch {
	case consecutiveSuccesses >= params.GoldConsecutiveSuccesses &&
		intervalDays >= params.MasteredIntervalDays:
		return domain.CardStatusGold
	case intervalDays >= params.MasteredIntervalDays:
		return domain.CardStatusMastered
	case repetitions >= params.ReviewRepetitions:
		return domain.CardStatusReview
	case repetitions >= 1 || !lastReviewedAt.IsZero():
		return domain.CardStatusLearning
	default:
		return domain.CardStatusNew
	}
}

// calculateNextState creates a new Interaction with updated values based
// on the review rating. It follows the immutable update pattern: the
// existing interaction is never modified, a new one is returned.
//
// The update sequence is:
//  1. Reset (on failure) or advance (on success) the repetition counters
//     and interval, using the pre-review ease factor.
//  2. Apply the ease factor update, which happens on every review.
//  3. Schedule the next review `interval` days from now; an interval of 0
//     means the card is due immediately.
//  4. Recompute the derived status from the post-update counters.
func calculateNextState(
	interaction *domain.Interaction,
	rating domain.Rating,
	now time.Time,
	params *Params,
) *domain.Interaction {
	next := &domain.Interaction{
		UserID:               interaction.UserID,
		CardID:               interaction.CardID,
		Status:               interaction.Status,
		EaseFactor:           interaction.EaseFactor,
		IntervalDays:         interaction.IntervalDays,
		Repetitions:          interaction.Repetitions,
		ConsecutiveSuccesses: interaction.ConsecutiveSuccesses,
		NextReviewAt:         interaction.NextReviewAt,
		LastReviewedAt:       interaction.LastReviewedAt,
		CreatedAt:            interaction.CreatedAt,
		UpdatedAt:            interaction.UpdatedAt,
	}

	quality := qualityForRating(rating)

	next.IntervalDays = calculateNewInterval(
		interaction.IntervalDays,
		interaction.Repetitions,
		interaction.EaseFactor,
		quality,
		params,
	)

	if quality < params.SuccessQuality {
		next.Repetitions = 0
		next.ConsecutiveSuccesses = 0
	} else {
		next.Repetitions = interaction.Repetitions + 1
		next.ConsecutiveSuccesses = interaction.ConsecutiveSuccesses + 1
	}

	next.EaseFactor = calculateNewEaseFactor(interaction.EaseFactor, quality, params)

	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays)
	next.UpdatedAt = now

	next.Status = deriveStatus(
		next.Repetitions,
		next.IntervalDays,
		next.ConsecutiveSuccesses,
		next.LastReviewedAt,
		params,
	)

	return next
}
