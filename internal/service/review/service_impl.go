package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/domain/scheduler"
	"github.com/wikilearn/wikilearn-api/internal/platform/logger"
	"github.com/wikilearn/wikilearn-api/internal/platform/metrics"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db           *sql.DB
	interactions store.InteractionStore
	scheduler    scheduler.Service
	metrics      *metrics.Manager
	logger       *slog.Logger
	now          func() time.Time
}

// NewReviewService creates a new ReviewService implementation.
// The metrics manager may be nil, in which case no metrics are recorded.
func NewReviewService(
	db *sql.DB,
	interactions store.InteractionStore,
	schedulerService scheduler.Service,
	metricsManager *metrics.Manager,
	log *slog.Logger,
) ReviewService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if interactions == nil {
		panic("interactions cannot be nil")
	}
	if schedulerService == nil {
		panic("schedulerService cannot be nil")
	}

	// Use provided logger or create default
	if log == nil {
		log = slog.Default()
	}

	return &reviewServiceImpl{
		db:           db,
		interactions: interactions,
		scheduler:    schedulerService,
		metrics:      metricsManager,
		logger:       log.With(slog.String("component", "review_service")),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ProcessReview implements ReviewService.ProcessReview.
func (s *reviewServiceImpl) ProcessReview(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	rating domain.Rating,
) (*domain.Interaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", string(rating)))

	// Reject unknown ratings before touching the database
	if !domain.IsValidRating(rating) {
		log.Warn("invalid review rating",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("rating", string(rating)))
		return nil, ErrInvalidRating
	}

	// Read the clock once; the whole operation uses this instant
	now := s.now()
	key := domain.InteractionKey{UserID: userID, CardID: cardID}

	var updated *domain.Interaction
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.interactions.WithTx(tx)

		// Lock the row for the read-modify-write; the first review of a
		// card has no row yet and starts from the default state.
		interaction, err := txStore.GetForUpdate(ctx, key)
		created := false
		if err != nil {
			if !errors.Is(err, store.ErrInteractionNotFound) {
				return fmt.Errorf("failed to get interaction: %w", err)
			}
			interaction, err = domain.NewInteraction(userID, cardID, now)
			if err != nil {
				return fmt.Errorf("failed to create interaction: %w", err)
			}
			created = true
		}

		next, err := s.scheduler.CalculateNextReview(interaction, rating, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		if created {
			if err := txStore.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create interaction: %w", err)
			}
		} else {
			if err := txStore.Update(ctx, next); err != nil {
				return fmt.Errorf("failed to update interaction: %w", err)
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		log.Error("failed to process review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewProcessReviewError("review transaction failed", err)
	}

	s.metrics.ObserveReview(string(rating))

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("status", string(updated.Status)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}

// GetDueCards implements ReviewService.GetDueCards.
func (s *reviewServiceImpl) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Interaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	due, err := s.interactions.ListDue(ctx, userID, s.now(), clampLimit(limit))
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	return due, nil
}

// GetLearningCards implements ReviewService.GetLearningCards.
func (s *reviewServiceImpl) GetLearningCards(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Interaction, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	learning, err := s.interactions.ListByStatus(
		ctx,
		userID,
		domain.CardStatusLearning,
		clampLimit(limit),
	)
	if err != nil {
		log.Error("failed to list learning cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list learning cards: %w", err)
	}

	return learning, nil
}

// GetUserProgress implements ReviewService.GetUserProgress.
func (s *reviewServiceImpl) GetUserProgress(
	ctx context.Context,
	userID uuid.UUID,
) (map[domain.CardStatus]int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	counts, err := s.interactions.CountByStatus(ctx, userID)
	if err != nil {
		log.Error("failed to count cards by status",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to count cards by status: %w", err)
	}

	return counts, nil
}

// clampLimit normalizes a caller-supplied list limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
