package progression

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	prog "github.com/wikilearn/wikilearn-api/internal/domain/progression"
	"github.com/wikilearn/wikilearn-api/internal/platform/logger"
	"github.com/wikilearn/wikilearn-api/internal/platform/metrics"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// heatmapDays is the size of the trailing activity window.
const heatmapDays = 365

// Verify interface compliance at compile time
var _ ProgressionService = (*progressionServiceImpl)(nil)

// progressionServiceImpl implements the ProgressionService interface.
type progressionServiceImpl struct {
	db         *sql.DB
	profiles   store.ProfileStore
	categories store.CategoryProgressStore
	ledger     store.XpLedgerStore
	metrics    *metrics.Manager
	logger     *slog.Logger
	now        func() time.Time
}

// NewProgressionService creates a new ProgressionService implementation.
// The metrics manager may be nil, in which case no metrics are recorded.
func NewProgressionService(
	db *sql.DB,
	profiles store.ProfileStore,
	categories store.CategoryProgressStore,
	ledger store.XpLedgerStore,
	metricsManager *metrics.Manager,
	log *slog.Logger,
) ProgressionService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if profiles == nil {
		panic("profiles cannot be nil")
	}
	if categories == nil {
		panic("categories cannot be nil")
	}
	if ledger == nil {
		panic("ledger cannot be nil")
	}

	// Use provided logger or create default
	if log == nil {
		log = slog.Default()
	}

	return &progressionServiceImpl{
		db:         db,
		profiles:   profiles,
		categories: categories,
		ledger:     ledger,
		metrics:    metricsManager,
		logger:     log.With(slog.String("component", "progression_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AwardXp implements ProgressionService.AwardXp.
func (s *progressionServiceImpl) AwardXp(
	ctx context.Context,
	userID uuid.UUID,
	reason domain.XpReason,
	metadata domain.AwardMetadata,
) (*AwardResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("awarding xp",
		slog.String("user_id", userID.String()),
		slog.String("reason", string(reason)))

	// Reject unknown reasons before touching the database
	if !domain.IsValidXpReason(reason) {
		log.Warn("invalid award reason",
			slog.String("user_id", userID.String()),
			slog.String("reason", string(reason)))
		return nil, ErrInvalidReason
	}

	// Read the clock once; the whole operation uses this instant
	now := s.now()

	var result AwardResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles := s.profiles.WithTx(tx)
		ledger := s.ledger.WithTx(tx)
		categories := s.categories.WithTx(tx)

		// The profile row is the lock root for the whole award
		profile, err := profiles.GetForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get profile: %w", err)
		}

		granted := prog.GrantedXP(reason, profile.StreakDays)
		oldLevel := prog.Level(profile.XP)

		profile.XP += granted
		profile.UpdatedAt = now
		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		// Every award is recorded, including zero-XP ones
		entry, err := domain.NewXpLedgerEntry(userID, granted, reason, metadata, now)
		if err != nil {
			return fmt.Errorf("failed to build ledger entry: %w", err)
		}
		if err := ledger.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}

		if metadata.CategoryID != nil {
			err := s.applyCategoryProgress(ctx, categories, userID, *metadata.CategoryID, reason, granted, now)
			if err != nil {
				return fmt.Errorf("failed to update category progress: %w", err)
			}
		}

		newLevel := prog.Level(profile.XP)
		result = AwardResult{
			GrantedXP:  granted,
			NewTotalXP: profile.XP,
			Level:      newLevel,
			LevelUp:    newLevel > oldLevel,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Error("failed to award xp",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("reason", string(reason)))
		return nil, NewAwardXpError("award transaction failed", err)
	}

	s.metrics.ObserveAward(string(reason), result.GrantedXP, result.LevelUp)

	log.Debug("xp awarded",
		slog.String("user_id", userID.String()),
		slog.String("reason", string(reason)),
		slog.Int64("granted", result.GrantedXP),
		slog.Int64("new_total", result.NewTotalXP),
		slog.Bool("level_up", result.LevelUp))

	return &result, nil
}

// applyCategoryProgress folds an award into the (user, category) rollup,
// creating it on first use. Must run inside the award transaction.
func (s *progressionServiceImpl) applyCategoryProgress(
	ctx context.Context,
	categories store.CategoryProgressStore,
	userID uuid.UUID,
	categoryID uuid.UUID,
	reason domain.XpReason,
	granted int64,
	now time.Time,
) error {
	progress, err := categories.GetForUpdate(ctx, userID, categoryID)
	created := false
	if err != nil {
		if !errors.Is(err, store.ErrCategoryProgressNotFound) {
			return err
		}
		progress, err = domain.NewCategoryProgress(userID, categoryID, now)
		if err != nil {
			return err
		}
		created = true
	}

	progress.XP += granted
	progress.Level = prog.Level(progress.XP)
	switch reason {
	case domain.XpReasonCardView, domain.XpReasonCardRetained:
		progress.CardsCompleted++
	case domain.XpReasonCardGold:
		progress.CardsGold++
	}
	progress.UpdatedAt = now

	if created {
		return categories.Create(ctx, progress)
	}
	return categories.Update(ctx, progress)
}

// UpdateStreak implements ProgressionService.UpdateStreak.
func (s *progressionServiceImpl) UpdateStreak(
	ctx context.Context,
	userID uuid.UUID,
) (*StreakResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	today := utcDate(now)

	var result StreakResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		profiles := s.profiles.WithTx(tx)
		ledger := s.ledger.WithTx(tx)

		profile, err := profiles.GetForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrProfileNotFound) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get profile: %w", err)
		}

		lastDay := utcDate(profile.LastActivityAt)

		var newStreak int
		switch {
		case profile.LastActivityAt.IsZero():
			newStreak = 1
		case lastDay.Equal(today):
			// Repeat activity on the same UTC day leaves everything untouched
			result = StreakResult{StreakDays: profile.StreakDays}
			return nil
		case lastDay.AddDate(0, 0, 1).Equal(today):
			newStreak = profile.StreakDays + 1
		default:
			newStreak = 1
		}

		profile.StreakDays = newStreak
		profile.LastActivityAt = now
		profile.UpdatedAt = now

		// Milestone bonuses trigger on exact equality only, so each can
		// be granted at most once per streak
		var bonus int64
		var bonusReason domain.XpReason
		switch newStreak {
		case 7:
			bonusReason = domain.XpReasonStreak7
		case 30:
			bonusReason = domain.XpReasonStreak30
		}
		if bonusReason != "" {
			bonus = prog.GrantedXP(bonusReason, newStreak)
			profile.XP += bonus

			entry, err := domain.NewXpLedgerEntry(
				userID,
				bonus,
				bonusReason,
				domain.AwardMetadata{},
				now,
			)
			if err != nil {
				return fmt.Errorf("failed to build ledger entry: %w", err)
			}
			if err := ledger.Append(ctx, entry); err != nil {
				return fmt.Errorf("failed to append ledger entry: %w", err)
			}
		}

		if err := profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		result = StreakResult{
			StreakDays: newStreak,
			Extended:   true,
			BonusXP:    bonus,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Error("failed to update streak",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewUpdateStreakError("streak transaction failed", err)
	}

	if result.BonusXP > 0 {
		s.metrics.ObserveStreakBonus(strconv.Itoa(result.StreakDays))
	}

	log.Debug("streak updated",
		slog.String("user_id", userID.String()),
		slog.Int("streak_days", result.StreakDays),
		slog.Bool("extended", result.Extended),
		slog.Int64("bonus_xp", result.BonusXP))

	return &result, nil
}

// GetXpStats implements ProgressionService.GetXpStats.
func (s *progressionServiceImpl) GetXpStats(
	ctx context.Context,
	userID uuid.UUID,
) (*XpStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list category progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list category progress: %w", err)
	}

	level := prog.Level(profile.XP)
	return &XpStats{
		TotalXP:             profile.XP,
		Level:               level,
		XPForNextLevel:      prog.XPForLevel(level + 1),
		ProgressToNextLevel: prog.ProgressToNextLevel(profile.XP),
		StreakDays:          profile.StreakDays,
		StreakMultiplier:    prog.StreakMultiplier(profile.StreakDays),
		Categories:          categories,
	}, nil
}

// GetActivityHeatmap implements ProgressionService.GetActivityHeatmap.
func (s *progressionServiceImpl) GetActivityHeatmap(
	ctx context.Context,
	userID uuid.UUID,
) ([]store.DailyActivity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Trailing window of whole UTC days including today
	until := utcDate(s.now()).AddDate(0, 0, 1)
	since := until.AddDate(0, 0, -heatmapDays)

	activity, err := s.ledger.DailyActivity(ctx, userID, since, until)
	if err != nil {
		log.Error("failed to load activity heatmap",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load activity heatmap: %w", err)
	}

	return activity, nil
}

// utcDate truncates a time to its UTC calendar date.
func utcDate(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
